package domain

import (
	"time"

	"github.com/google/uuid"
)

// Index names are referenced when translating unique violations into
// ConflictError fields.
const (
	IndexAccountEmail    = "idx_accounts_email"
	IndexAccountSLMCID   = "idx_accounts_slmc_id"
	IndexAccountUsername = "idx_accounts_username"
	IndexPatientAccount  = "idx_patient_records_patient_id"
)

// Account is any principal that can log in: a doctor or a patient.
// Username is write-once; gorm never includes it in updates.
type Account struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Email        string    `json:"email" gorm:"uniqueIndex:idx_accounts_email;not null"`
	SLMCID       string    `json:"slmc_id" gorm:"column:slmc_id;uniqueIndex:idx_accounts_slmc_id;size:50;not null"`
	Username     string    `json:"username" gorm:"<-:create;uniqueIndex:idx_accounts_username;not null"`
	FirstName    string    `json:"first_name" gorm:"size:255;not null"`
	LastName     string    `json:"last_name" gorm:"size:255;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         Role      `json:"user_type" gorm:"type:varchar(16);not null"`
	IsActive     bool      `json:"is_active" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (a *Account) IsDoctor() bool {
	return a != nil && a.Role == RoleDoctor
}

func (a *Account) IsPatient() bool {
	return a != nil && a.Role == RolePatient
}
