package postgres

import (
	"context"

	"github.com/dementia-care/backend/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *accountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	return translateError(r.db.WithContext(ctx).Create(account).Error)
}

func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *accountRepository) GetBySLMCID(ctx context.Context, slmcID string) (*domain.Account, error) {
	return r.first(ctx, "slmc_id = ?", slmcID)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *accountRepository) first(ctx context.Context, query string, args ...interface{}) (*domain.Account, error) {
	var account domain.Account
	err := r.db.WithContext(ctx).Where(query, args...).First(&account).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &account, nil
}
