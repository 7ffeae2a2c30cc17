package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/baharkarakas/member-store/internal/errs"
)

type APIError struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, msg string, details any) {
	WriteJSON(w, status, APIError{
		Error:   msg,
		Code:    code,
		Details: details,
	})
}

// StatusFor maps an error's Kind to the HTTP status it is reported with.
func StatusFor(err error) int {
	switch errs.KindOf(err) {
	case errs.NotFound:
		return http.StatusNotFound
	case errs.DuplicateKey:
		return http.StatusConflict
	case errs.Invalid:
		return http.StatusBadRequest
	case errs.Connection, errs.ConnectionTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteErr reports a service error. Internal failures get a generic message so
// driver details stay in the logs.
func WriteErr(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	code := errs.KindOf(err).String()
	msg := err.Error()
	var e *errs.Error
	if errors.As(err, &e) && e.Msg != "" {
		msg = e.Msg
	}
	if status >= http.StatusInternalServerError {
		code, msg = "internal_error", "internal error"
		if status == http.StatusServiceUnavailable {
			code, msg = "unavailable", "database unavailable"
		}
	}
	WriteJSON(w, status, APIError{Error: msg, Code: code})
}
