package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/krabbypatty1031-blip/JustAsk/internal/common"
)

const (
	maxBodyBytes = 1 << 20

	msgBadBody  = "invalid request body"
	msgInternal = "something went wrong, please try again later"
)

// body is a response envelope. Every response carries "success".
type body map[string]any

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, b body) {
	if b == nil {
		b = body{}
	}
	b["success"] = true
	writeJSON(w, http.StatusOK, b)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, body{"success": false, "message": message})
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrValidation),
		errors.Is(err, common.ErrConflict),
		errors.Is(err, common.ErrAlreadyExists):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrLoginRequired),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenRevoked):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// authFailureReason labels a 401 for metrics.
func authFailureReason(err error) string {
	switch {
	case errors.Is(err, common.ErrLoginRequired):
		return "login_required"
	case errors.Is(err, common.ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, common.ErrTokenRevoked):
		return "token_revoked"
	default:
		return "unauthorized"
	}
}

// writeError writes err as a failure envelope. Only messages attached with
// common.WithMessage reach the client. Server errors are logged in full.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	msg, ok := common.PublicMessage(err)
	if status == http.StatusInternalServerError {
		a.log.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg, ok = msgInternal, true
	}
	if !ok {
		msg = http.StatusText(status)
	}
	if status == http.StatusUnauthorized {
		a.metrics.AuthFailuresTotal.WithLabelValues(authFailureReason(err)).Inc()
	}

	writeFailure(w, status, msg)
}

// decode reads a JSON request body into dst.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return common.WithMessage(common.ErrValidation, msgBadBody)
	}
	return nil
}
