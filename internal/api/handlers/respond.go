package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dementia-care/backend/internal/domain"
	"go.uber.org/zap"
)

// maxProvisionAttempts bounds retries after a generated identifier
// collides with an existing account.
const maxProvisionAttempts = 3

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return verr
		}
		return domain.NewValidationError("", "Invalid request body")
	}
	return nil
}

// writeError maps a service error onto a status code. Unknown errors are
// logged and reported as 500 without detail.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid credentials"})
	case errors.Is(err, domain.ErrInvalidToken):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Token is invalid or expired"})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "Unauthorized access."})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Patient not found."})
	case errors.Is(err, domain.ErrUniquenessConflict):
		log.Warn("identifier allocation exhausted retries", zap.Error(err))
		writeJSON(w, http.StatusConflict, errorResponse{Error: "Could not allocate unique credentials, please retry."})
	default:
		log.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}

// withRetry re-runs fn while it fails on a generated-identifier collision.
// fn must draw fresh identifiers on every call.
func withRetry[T any](fn func() (T, error)) (T, error) {
	var (
		result T
		err    error
	)
	for attempt := 0; attempt < maxProvisionAttempts; attempt++ {
		result, err = fn()
		if !errors.Is(err, domain.ErrUniquenessConflict) {
			return result, err
		}
	}
	return result, err
}

// optionalInt accepts a JSON number, a numeric string, "" or null. Set
// records that the key was present, so null and "" can clear a value.
type optionalInt struct {
	Value *int
	Set   bool
}

func (o *optionalInt) UnmarshalJSON(data []byte) error {
	o.Set = true
	o.Value = nil

	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			return nil
		}
		data = []byte(s)
	}

	n, err := strconv.Atoi(string(data))
	if err != nil {
		return domain.NewValidationError("age", "A valid integer is required.")
	}
	o.Value = &n
	return nil
}
