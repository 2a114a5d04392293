package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dementia-care/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWithRetry(t *testing.T) {
	conflict := &domain.ConflictError{Field: "username", Err: errors.New("duplicate key")}

	t.Run("succeeds after collisions", func(t *testing.T) {
		calls := 0
		got, err := withRetry(func() (string, error) {
			calls++
			if calls < maxProvisionAttempts {
				return "", fmt.Errorf("create: %w", conflict)
			}
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", got)
		assert.Equal(t, maxProvisionAttempts, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		_, err := withRetry(func() (string, error) {
			calls++
			return "", conflict
		})
		assert.ErrorIs(t, err, domain.ErrUniquenessConflict)
		assert.Equal(t, maxProvisionAttempts, calls)
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		calls := 0
		_, err := withRetry(func() (string, error) {
			calls++
			return "", domain.NewValidationError("email", "taken")
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Equal(t, 1, calls)
	})
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   errorResponse
	}{
		{
			name:       "validation",
			err:        domain.NewValidationError("email", "This field is required."),
			wantStatus: http.StatusBadRequest,
			wantBody:   errorResponse{Error: "This field is required.", Field: "email"},
		},
		{
			name:       "credentials",
			err:        domain.ErrInvalidCredentials,
			wantStatus: http.StatusBadRequest,
			wantBody:   errorResponse{Error: "Invalid credentials"},
		},
		{
			name:       "token",
			err:        fmt.Errorf("%w: expired", domain.ErrInvalidToken),
			wantStatus: http.StatusBadRequest,
			wantBody:   errorResponse{Error: "Token is invalid or expired"},
		},
		{
			name:       "forbidden",
			err:        domain.ErrForbidden,
			wantStatus: http.StatusForbidden,
			wantBody:   errorResponse{Error: "Unauthorized access."},
		},
		{
			name:       "not found",
			err:        domain.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   errorResponse{Error: "Patient not found."},
		},
		{
			name:       "exhausted conflict",
			err:        &domain.ConflictError{Field: "username", Err: errors.New("dup")},
			wantStatus: http.StatusConflict,
			wantBody:   errorResponse{Error: "Could not allocate unique credentials, please retry."},
		},
		{
			name:       "unknown",
			err:        errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   errorResponse{Error: "Internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, zap.NewNop(), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestOptionalInt(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *int
		wantSet bool
		wantErr bool
	}{
		{name: "number", input: `{"age": 70}`, want: intPtr(70), wantSet: true},
		{name: "numeric string", input: `{"age": "71"}`, want: intPtr(71), wantSet: true},
		{name: "empty string", input: `{"age": ""}`, wantSet: true},
		{name: "null", input: `{"age": null}`, wantSet: true},
		{name: "absent", input: `{}`},
		{name: "words", input: `{"age": "seventy"}`, wantErr: true},
		{name: "fraction", input: `{"age": 70.5}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdatePatientRequest
			err := json.Unmarshal([]byte(tt.input), &req)
			if tt.wantErr {
				var verr *domain.ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, "age", verr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.Age.Value)
			assert.Equal(t, tt.wantSet, req.Age.Set)
		})
	}
}

func intPtr(n int) *int { return &n }
