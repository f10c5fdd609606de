package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xikelabs/lead-tracker/internal/usecase"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps the domain error taxonomy onto HTTP statuses. Technical
// failures stay opaque to the client.
func writeError(w http.ResponseWriter, err error) {
	code := usecase.ErrorCode(err)

	status := http.StatusInternalServerError
	message := err.Error()

	switch code {
	case usecase.CodeValidation, usecase.CodeMalformedRow:
		status = http.StatusBadRequest
	case usecase.CodeInvalidTransition, usecase.CodeGuardViolation:
		status = http.StatusUnprocessableEntity
	case usecase.CodeNotFound:
		status = http.StatusNotFound
	case usecase.CodeConflict:
		status = http.StatusConflict
	case usecase.CodeStoreUnavailable:
		status = http.StatusServiceUnavailable
		message = "store unavailable"
	default:
		if !usecase.IsDomainError(err) {
			message = "internal error"
		}
	}

	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
