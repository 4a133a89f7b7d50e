package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/nvdbdq/internal/contracts"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondFailure maps an analysis error onto its HTTP status
func respondFailure(w http.ResponseWriter, err error) {
	respondJSON(w, StatusFor(err), ErrorResponse{
		Error: err.Error(),
		Kind:  contracts.ErrorKind(err),
	})
}

// StatusFor returns the HTTP status for an analysis error
func StatusFor(err error) int {
	switch {
	case errors.Is(err, contracts.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, contracts.ErrSchemaNotFound), errors.Is(err, contracts.ErrObjectTypeNotFound):
		return http.StatusNotFound
	case errors.Is(err, contracts.ErrNoApplicableProperties):
		return http.StatusUnprocessableEntity
	case errors.Is(err, contracts.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
