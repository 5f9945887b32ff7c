package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Server wraps the HTTP listener with sane timeouts and graceful shutdown.
type Server struct {
	srv *http.Server
}

// NewServer builds the listener for the given handler.
func NewServer(host string, port int, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Start blocks serving requests until Shutdown or a listener error.
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
