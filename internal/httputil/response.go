// Package httputil provides JSON response helpers shared by handlers and
// middleware.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/ekato-labs/tradecore/internal/errors"
)

// WriteJSON serializes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorBody is the wire shape of every failure: {"error": code, "status": n}.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Status  int    `json:"status"`
}

// WriteError maps an error onto the standard failure body. Errors without a
// ServiceError in their chain are reported as internal with no detail.
func WriteError(w http.ResponseWriter, err error) {
	se := errors.GetServiceError(err)
	if se == nil {
		se = errors.Internal(err)
	}
	WriteJSON(w, se.HTTPStatus, ErrorBody{
		Error:   string(se.Code),
		Message: se.Message,
		Status:  se.HTTPStatus,
	})
}
