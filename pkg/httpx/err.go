package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/code19m/pulsechat/pkg/errs"
)

type errorBody struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// HandleError maps err's Kind to an HTTP status and writes a JSON body of
// the shape {"error": "...", "details": {...}}.
func HandleError(w http.ResponseWriter, err error) {
	status := statusFor(errs.KindOf(err))

	body := errorBody{Error: publicMessage(err)}

	var v errs.ValidationError
	if errors.As(err, &v) {
		body.Details = v.Fields
	}

	if status == http.StatusInternalServerError {
		slog.Error("unhandled request error", "error", err)
	}

	WriteResponse(status, w, body)
}

func statusFor(kind errs.Kind) int {
	switch kind {
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindBadRequest:
		return http.StatusBadRequest
	case errs.KindUnauthorized:
		return http.StatusUnauthorized
	case errs.KindForbidden:
		return http.StatusForbidden
	case errs.KindConflict:
		return http.StatusConflict
	case errs.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the static, user-safe message for err, never the
// wrapped chain (which may carry internal operation names).
func publicMessage(err error) string {
	var e errs.Error
	if errors.As(err, &e) {
		return e.Message
	}
	var v errs.ValidationError
	if errors.As(err, &v) {
		return v.Message
	}
	if errs.KindOf(err) == errs.KindInternal {
		return "internal server error"
	}
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return errs.ErrNotFound.Error()
	case errors.Is(err, errs.ErrAlreadyExists):
		return errs.ErrAlreadyExists.Error()
	case errors.Is(err, errs.ErrUnavailable):
		return errs.ErrUnavailable.Error()
	}
	return "internal server error"
}
