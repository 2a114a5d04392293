package repository

import (
	"context"

	"github.com/dementia-care/backend/internal/domain"
	"github.com/google/uuid"
)

// AccountRepository is the identity store. Create returns a
// *domain.ConflictError when email, slmc_id or username is taken.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	GetBySLMCID(ctx context.Context, slmcID string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
}

type PatientRecordRepository interface {
	Create(ctx context.Context, record *domain.PatientRecord) error
	GetByUsername(ctx context.Context, username string) (*domain.PatientRecord, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*domain.PatientRecord, error)
	UpdateClinical(ctx context.Context, record *domain.PatientRecord) error
}

// TokenBlacklist remembers refresh tokens that were explicitly revoked.
// Add returns domain.ErrAlreadyBlacklisted for a jti it has seen.
type TokenBlacklist interface {
	Add(ctx context.Context, token *domain.BlacklistedToken) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// Transactor runs fn against repositories bound to one transaction. A
// non-nil return from fn rolls everything back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(tx *Repositories) error) error
}

type Repositories struct {
	Account   AccountRepository
	Patient   PatientRecordRepository
	Blacklist TokenBlacklist
	Tx        Transactor
}
