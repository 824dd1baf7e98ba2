package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/teinac2012/attack-metrics-suite/internal/parser"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorCode(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}

// writeError maps an error to a status. Internal errors omit their message.
func writeError(w http.ResponseWriter, err error) {
	var inputErr *parser.InputError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &inputErr):
		writeErrorCode(w, http.StatusBadRequest, "invalid_input", inputErr.Error())
	case errors.As(err, &maxErr):
		writeErrorCode(w, http.StatusRequestEntityTooLarge, "too_large", "request body too large")
	case errors.Is(err, context.DeadlineExceeded):
		writeErrorCode(w, http.StatusGatewayTimeout, "timeout", "report did not finish in time")
	case errors.Is(err, context.Canceled):
		writeErrorCode(w, http.StatusServiceUnavailable, "cancelled", "request cancelled")
	default:
		writeErrorCode(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
