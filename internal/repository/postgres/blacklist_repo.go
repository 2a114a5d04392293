package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dementia-care/backend/internal/domain"
	"gorm.io/gorm"
)

type tokenBlacklistRepository struct {
	db *gorm.DB
}

func NewTokenBlacklistRepository(db *gorm.DB) *tokenBlacklistRepository {
	return &tokenBlacklistRepository{db: db}
}

func (r *tokenBlacklistRepository) Add(ctx context.Context, token *domain.BlacklistedToken) error {
	err := translateError(r.db.WithContext(ctx).Create(token).Error)
	if errors.Is(err, domain.ErrUniquenessConflict) {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyBlacklisted, token.JTI)
	}
	return err
}

func (r *tokenBlacklistRepository) Contains(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.BlacklistedToken{}).
		Where("jti = ?", jti).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
