// Package httpapi exposes the REST surface: login, session inspection, and
// trading-app command dispatch.
package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/ekato-labs/tradecore/internal/dispatch"
	"github.com/ekato-labs/tradecore/internal/errors"
	"github.com/ekato-labs/tradecore/internal/httputil"
	"github.com/ekato-labs/tradecore/internal/market"
	"github.com/ekato-labs/tradecore/internal/metrics"
	"github.com/ekato-labs/tradecore/internal/middleware"
	"github.com/ekato-labs/tradecore/internal/registry"
	"github.com/ekato-labs/tradecore/internal/session"
	"github.com/ekato-labs/tradecore/pkg/logger"
)

// Deps are the collaborators the API surface needs.
type Deps struct {
	Sessions   *session.Store
	Registry   *registry.Registry
	Dispatcher *dispatch.Dispatcher
	Engine     *market.Engine
	Metrics    *metrics.Metrics
	Limiter    *middleware.RateLimiter
	Log        *logger.Logger
}

type handler struct {
	deps Deps
}

// publicPrefixes lists the routes reachable without a session token.
var publicPrefixes = []string{"/login", "/getSession", "/healthz", "/metrics"}

// NewRouter builds the full router with middleware applied.
func NewRouter(deps Deps) http.Handler {
	if deps.Log == nil {
		deps.Log = logger.NewDefault("httpapi")
	}
	h := &handler{deps: deps}

	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware(deps.Log))
	if deps.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(deps.Metrics))
	}

	guard := middleware.NewSessionMiddleware(deps.Sessions, publicPrefixes)
	r.Use(guard.Handler)

	login := http.Handler(http.HandlerFunc(h.login))
	if deps.Limiter != nil {
		login = deps.Limiter.Handler(login)
	}
	r.Handle("/login", login).Methods(http.MethodGet, http.MethodPost)

	r.HandleFunc("/getSession/{sessionUUID}", h.getSession).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler()).Methods(http.MethodGet)
	}

	r.HandleFunc("/account", h.account).Methods(http.MethodGet)
	r.HandleFunc("/logout", h.logout).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/stock/paper", h.candles).Methods(http.MethodGet)
	r.HandleFunc("/stream/candles", h.streamCandles).Methods(http.MethodGet)

	r.HandleFunc("/app", h.appIndex).Methods(http.MethodGet)
	r.HandleFunc("/app/{name}", h.appCommands).Methods(http.MethodGet)
	r.HandleFunc("/app/{name}/{command}", h.appDispatch).Methods(http.MethodGet, http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, errors.NotFound("no such route"))
	})

	return r
}

// login verifies credentials and issues (or renews) a session token. The
// client IP is the session fingerprint.
func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	password := r.URL.Query().Get("password")
	if name == "" || password == "" {
		httputil.WriteError(w, errors.InvalidOperation("name and password required"))
		return
	}

	id, err := h.deps.Sessions.Create(name, password, middleware.ClientIP(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"session": id})
}

func (h *handler) getSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionUUID"]
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"hasSession": h.deps.Sessions.Check(id)})
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	h.deps.Sessions.Remove(r.Header.Get(middleware.SessionHeader))
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"loggedOut": true})
}

// account returns the sanitized account view behind the caller's session.
func (h *handler) account(w http.ResponseWriter, r *http.Request) {
	data, err := h.deps.Sessions.AccountData(r.Header.Get(middleware.SessionHeader))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, data)
}

func (h *handler) candles(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.deps.Engine.History())
}

func (h *handler) healthz(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) appIndex(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteError(w, errors.NotFound(fmt.Sprintf(
		"no app specified, try /app/[name]/[command], available: %s",
		strings.Join(h.deps.Registry.List(), ", "))))
}

func (h *handler) appCommands(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(registry.Commands()))
	for _, cmd := range registry.Commands() {
		names = append(names, string(cmd))
	}
	httputil.WriteError(w, errors.NotFound(fmt.Sprintf(
		"command not specified, try /app/[name]/[command], available: %s",
		strings.Join(names, ", "))))
}

// appDispatch routes one command invocation. GET passes query parameters as
// arguments; POST takes a JSON object body.
func (h *handler) appDispatch(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appName, command := vars["name"], vars["command"]

	args, err := requestArgs(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.deps.Dispatcher.Dispatch(r.Context(), r.Header.Get(middleware.SessionHeader), appName, command, args)
	if h.deps.Metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			if se := errors.GetServiceError(err); se != nil {
				outcome = string(se.Code)
			}
		}
		h.deps.Metrics.RecordDispatch(appName, command, outcome)
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func requestArgs(r *http.Request) (map[string]any, error) {
	args := make(map[string]any)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			args[key] = values[0]
		}
	}

	if r.Method == http.MethodPost && r.Body != nil {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			return nil, errors.InvalidOperation("unreadable request body")
		}
		if len(body) > 0 {
			var fromBody map[string]any
			if err := json.Unmarshal(body, &fromBody); err != nil {
				return nil, errors.InvalidOperation("request body must be a JSON object")
			}
			for k, v := range fromBody {
				args[k] = v
			}
		}
	}
	return args, nil
}
