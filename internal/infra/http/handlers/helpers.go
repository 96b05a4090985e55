package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/salescope/pipeline-insights/internal/usecase"
)

type errorResponse struct {
	Error  string       `json:"error"`
	Code   string       `json:"code,omitempty"`
	Fields []fieldError `json:"fields,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeValidationErrors rejects the request before any query ran.
func writeValidationErrors(w http.ResponseWriter, errs []usecase.ValidationError) {
	resp := errorResponse{Error: "validation failed", Code: "VALIDATION"}
	for _, e := range errs {
		resp.Fields = append(resp.Fields, fieldError{Field: e.Field, Message: e.Message})
	}
	writeJSON(w, http.StatusBadRequest, resp)
}

// writeError maps use case failures onto statuses: domain errors are the
// caller's to fix, technical errors mean the reporting backend is down.
func writeError(w http.ResponseWriter, err error) {
	if de, ok := err.(*usecase.DomainError); ok {
		status := http.StatusUnprocessableEntity
		writeJSON(w, status, errorResponse{Error: de.Message, Code: de.Code})
		return
	}
	if te, ok := err.(*usecase.TechnicalError); ok {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "reporting temporarily unavailable", Code: te.Code})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}
