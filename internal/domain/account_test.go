package domain_test

import (
	"errors"
	"testing"

	"github.com/dementia-care/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRole_IsValid(t *testing.T) {
	tests := []struct {
		role domain.Role
		want bool
	}{
		{domain.RoleDoctor, true},
		{domain.RolePatient, true},
		{domain.Role("doctor"), false},
		{domain.Role("ADMIN"), false},
		{domain.Role(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.IsValid())
		})
	}
}

func TestAccount_RolePredicates(t *testing.T) {
	doctor := &domain.Account{Role: domain.RoleDoctor}
	patient := &domain.Account{Role: domain.RolePatient}
	var missing *domain.Account

	assert.True(t, doctor.IsDoctor())
	assert.False(t, doctor.IsPatient())
	assert.True(t, patient.IsPatient())
	assert.False(t, patient.IsDoctor())
	assert.False(t, missing.IsDoctor())
	assert.False(t, missing.IsPatient())
}

func TestErrorKinds(t *testing.T) {
	verr := domain.NewValidationError("email", "This field is required.")
	assert.ErrorIs(t, verr, domain.ErrValidation)
	assert.Equal(t, "email: This field is required.", verr.Error())
	assert.Equal(t, "password mismatch", domain.NewValidationError("", "password mismatch").Error())

	cause := errors.New("duplicate key value violates unique constraint")
	cerr := &domain.ConflictError{Field: "username", Err: cause}
	assert.ErrorIs(t, cerr, domain.ErrUniquenessConflict)
	assert.ErrorIs(t, cerr, cause)
	assert.NotErrorIs(t, cerr, domain.ErrValidation)

	var target *domain.ConflictError
	assert.True(t, errors.As(cerr, &target))
	assert.Equal(t, "username", target.Field)
}
