package service_test

import (
	"testing"

	"github.com/dementia-care/backend/internal/domain"
	"github.com/dementia-care/backend/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAccessPolicy(t *testing.T) {
	policy := service.AccessPolicy{}

	doctor := &domain.Account{ID: uuid.New(), Role: domain.RoleDoctor, IsActive: true}
	otherDoctor := &domain.Account{ID: uuid.New(), Role: domain.RoleDoctor, IsActive: true}
	inactiveDoctor := &domain.Account{ID: uuid.New(), Role: domain.RoleDoctor}
	patient := &domain.Account{ID: uuid.New(), Role: domain.RolePatient, IsActive: true}
	record := &domain.PatientRecord{ID: uuid.New(), PatientID: patient.ID, DoctorID: doctor.ID}

	tests := []struct {
		name      string
		caller    *domain.Account
		isDoctor  bool
		isPatient bool
		recordErr error
	}{
		{name: "supervising doctor", caller: doctor, isDoctor: true},
		{name: "other doctor", caller: otherDoctor, isDoctor: true, recordErr: domain.ErrForbidden},
		{name: "inactive doctor", caller: inactiveDoctor, recordErr: domain.ErrForbidden},
		{name: "patient", caller: patient, isPatient: true, recordErr: domain.ErrForbidden},
		{name: "anonymous", caller: nil, recordErr: domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isDoctor, policy.IsDoctor(tt.caller))
			assert.Equal(t, tt.isPatient, policy.IsPatient(tt.caller))

			if tt.isDoctor {
				assert.NoError(t, policy.RequireDoctor(tt.caller))
			} else {
				assert.ErrorIs(t, policy.RequireDoctor(tt.caller), domain.ErrForbidden)
			}

			err := policy.AuthorizeRecord(tt.caller, record)
			if tt.recordErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.recordErr)
			}
		})
	}
}
