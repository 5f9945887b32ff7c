// Package middleware provides HTTP middleware for the API surface.
package middleware

import (
	"net/http"
	"strings"

	"github.com/ekato-labs/tradecore/internal/errors"
	"github.com/ekato-labs/tradecore/internal/httputil"
	"github.com/ekato-labs/tradecore/internal/session"
)

// SessionHeader carries the session token on guarded requests.
const SessionHeader = "session"

// SessionMiddleware rejects requests to guarded paths unless they carry a
// live session token.
type SessionMiddleware struct {
	sessions     *session.Store
	publicPrefix []string
}

// NewSessionMiddleware creates the guard. Paths starting with any of the
// given prefixes are public.
func NewSessionMiddleware(sessions *session.Store, publicPrefixes []string) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, publicPrefix: publicPrefixes}
}

// Handler returns the middleware handler.
func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, prefix := range m.publicPrefix {
			if strings.HasPrefix(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}
		}

		token := r.Header.Get(SessionHeader)
		if token == "" || !m.sessions.Check(token) {
			httputil.WriteError(w, errors.Unauthorized(""))
			return
		}
		next.ServeHTTP(w, r)
	})
}
