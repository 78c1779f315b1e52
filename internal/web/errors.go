package web

// errors.go turns service errors into JSON error responses.
//
// The technical error is logged with the request id; the client receives
// the user message from core.MapError plus the ingestion error kind and,
// for an incomplete skeleton, the missing reference role.

import (
	"context"
	"errors"
	"net/http"

	"github.com/JonMunkholm/examsheet/internal/core"
	"github.com/JonMunkholm/examsheet/internal/logging"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
	Kind    string `json:"kind,omitempty"`
	Role    string `json:"role,omitempty"`
}

// respondError logs err and writes its mapped response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	args := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", args...)
	} else {
		logger.Warn("request error", args...)
	}

	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "30")
	}

	resp := ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}
	if ie, ok := core.AsIngestError(err); ok {
		resp.Kind = string(ie.Kind)
		resp.Role = string(ie.Role)
	}
	writeJSON(w, r, status, resp)
}

// statusFor picks the HTTP status for a service error.
func statusFor(err error) int {
	if ie, ok := core.AsIngestError(err); ok {
		switch ie.Kind {
		case core.KindNotFound:
			return http.StatusNotFound
		case core.KindSchemaIncomplete:
			return http.StatusUnprocessableEntity
		case core.KindFileUnreadable:
			return http.StatusBadRequest
		}
	}

	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, core.ErrResultNotFound), errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrFileTooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest), errors.Is(err, errNoFile):
		return http.StatusBadRequest
	case errors.Is(err, errUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, core.ErrTooManyUploads):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
