package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/listinha-app/listinha/internal/apperr"
)

func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP statuses. Unclassified errors
// are reported as 500 without leaking internals.
func writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, apperr.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, apperr.ErrInvalidState):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, apperr.ErrTransport):
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}

	msg := err.Error()
	if status >= 500 {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}
