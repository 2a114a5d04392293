package domain

import (
	"time"

	"github.com/google/uuid"
)

// PatientRecord is the clinical profile of a PATIENT account. DoctorID is
// fixed when the record is created.
type PatientRecord struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	PatientID        uuid.UUID `json:"patient_id" gorm:"type:uuid;uniqueIndex:idx_patient_records_patient_id;not null"`
	DoctorID         uuid.UUID `json:"doctor_id" gorm:"<-:create;type:uuid;index;not null"`
	Age              *int      `json:"age"`
	Gender           string    `json:"gender"`
	Address          string    `json:"address"`
	EmergencyContact string    `json:"emergency_contact"`
	MedicalHistory   string    `json:"medical_history" gorm:"type:text"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Relations
	Patient *Account `json:"patient,omitempty" gorm:"foreignKey:PatientID;constraint:OnDelete:RESTRICT"`
	Doctor  *Account `json:"doctor,omitempty" gorm:"foreignKey:DoctorID;constraint:OnDelete:RESTRICT"`
}

// SupervisedBy reports whether the given account is the record's doctor.
func (p *PatientRecord) SupervisedBy(accountID uuid.UUID) bool {
	return p.DoctorID == accountID
}
