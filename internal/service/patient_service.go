package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dementia-care/backend/internal/domain"
	"github.com/dementia-care/backend/internal/repository"
	"go.uber.org/zap"
)

// PatientService serves reads and clinical updates of patient records.
// Every path goes through AccessPolicy.
type PatientService struct {
	patients repository.PatientRecordRepository
	policy   AccessPolicy
	log      *zap.Logger
}

func NewPatientService(patients repository.PatientRecordRepository, log *zap.Logger) *PatientService {
	return &PatientService{
		patients: patients,
		log:      log.Named("patients"),
	}
}

// UpdatePatientInput holds the clinical fields a doctor may change. Nil
// means leave unchanged. ClearAge removes a recorded age.
type UpdatePatientInput struct {
	Age              *int
	ClearAge         bool
	Gender           *string
	Address          *string
	EmergencyContact *string
	MedicalHistory   *string
}

// List returns only the records the caller supervises.
func (s *PatientService) List(ctx context.Context, caller *domain.Account) ([]*domain.PatientRecord, error) {
	if err := s.policy.RequireDoctor(caller); err != nil {
		return nil, err
	}
	return s.patients.ListByDoctor(ctx, caller.ID)
}

// GetByUsername reports ErrNotFound before checking ownership.
func (s *PatientService) GetByUsername(ctx context.Context, caller *domain.Account, username string) (*domain.PatientRecord, error) {
	if err := s.policy.RequireDoctor(caller); err != nil {
		return nil, err
	}

	record, err := s.patients.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.policy.AuthorizeRecord(caller, record); err != nil {
		s.log.Warn("patient record access denied",
			zap.String("caller_id", caller.ID.String()),
			zap.String("username", username),
		)
		return nil, err
	}
	return record, nil
}

func (s *PatientService) Update(ctx context.Context, caller *domain.Account, username string, input UpdatePatientInput) (*domain.PatientRecord, error) {
	record, err := s.GetByUsername(ctx, caller, username)
	if err != nil {
		return nil, err
	}

	if input.ClearAge {
		record.Age = nil
	} else if input.Age != nil {
		record.Age = input.Age
	}
	if input.Gender != nil {
		record.Gender = *input.Gender
	}
	if input.Address != nil {
		record.Address = *input.Address
	}
	if input.EmergencyContact != nil {
		record.EmergencyContact = *input.EmergencyContact
	}
	if input.MedicalHistory != nil {
		record.MedicalHistory = *input.MedicalHistory
	}
	record.UpdatedAt = time.Now()

	if err := s.patients.UpdateClinical(ctx, record); err != nil {
		return nil, fmt.Errorf("update patient record: %w", err)
	}
	return record, nil
}
