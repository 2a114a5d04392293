package postgres

import (
	"context"

	"github.com/dementia-care/backend/internal/repository"
	"gorm.io/gorm"
)

type transactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) *transactor {
	return &transactor{db: db}
}

// WithinTransaction hands fn a Repositories bound to a single gorm
// transaction. The blacklist inside is always the table-backed one.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(tx *repository.Repositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repository.Repositories{
			Account:   NewAccountRepository(tx),
			Patient:   NewPatientRecordRepository(tx),
			Blacklist: NewTokenBlacklistRepository(tx),
			Tx:        NewTransactor(tx),
		})
	})
}
