package postgres

import (
	"context"

	"github.com/dementia-care/backend/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientRecordRepository struct {
	db *gorm.DB
}

func NewPatientRecordRepository(db *gorm.DB) *patientRecordRepository {
	return &patientRecordRepository{db: db}
}

func (r *patientRecordRepository) Create(ctx context.Context, record *domain.PatientRecord) error {
	return translateError(r.db.WithContext(ctx).Omit("Patient", "Doctor").Create(record).Error)
}

// GetByUsername finds the record whose patient account has the given
// login handle, with both accounts preloaded.
func (r *patientRecordRepository) GetByUsername(ctx context.Context, username string) (*domain.PatientRecord, error) {
	var record domain.PatientRecord
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		Joins("JOIN accounts ON accounts.id = patient_records.patient_id").
		Where("accounts.username = ?", username).
		First(&record).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &record, nil
}

func (r *patientRecordRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*domain.PatientRecord, error) {
	var records []*domain.PatientRecord
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Where("doctor_id = ?", doctorID).
		Order("created_at").
		Find(&records).Error
	if err != nil {
		return nil, translateError(err)
	}
	return records, nil
}

// UpdateClinical writes only the free-form clinical columns.
func (r *patientRecordRepository) UpdateClinical(ctx context.Context, record *domain.PatientRecord) error {
	return translateError(r.db.WithContext(ctx).
		Model(record).
		Select("age", "gender", "address", "emergency_contact", "medical_history", "updated_at").
		Updates(record).Error)
}
