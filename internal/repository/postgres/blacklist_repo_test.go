package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/dementia-care/backend/internal/domain"
	"github.com/dementia-care/backend/internal/repository/postgres"
	"github.com/dementia-care/backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestTokenBlacklistRepository(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewTokenBlacklistRepository(testDB.DB)
	ctx := context.Background()

	accountID := uuid.New()
	entry := &domain.BlacklistedToken{
		JTI:           uuid.NewString(),
		AccountID:     accountID,
		ExpiresAt:     time.Now().Add(time.Hour),
		BlacklistedAt: time.Now(),
		Claims:        datatypes.JSONMap{"role": "DOCTOR", "token_type": "refresh"},
	}

	found, err := repo.Contains(ctx, entry.JTI)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Add(ctx, entry))

	found, err = repo.Contains(ctx, entry.JTI)
	require.NoError(t, err)
	assert.True(t, found)

	dup := *entry
	err = repo.Add(ctx, &dup)
	assert.ErrorIs(t, err, domain.ErrAlreadyBlacklisted)

	var stored domain.BlacklistedToken
	require.NoError(t, testDB.DB.First(&stored, "jti = ?", entry.JTI).Error)
	assert.Equal(t, accountID, stored.AccountID)
	assert.Equal(t, "refresh", stored.Claims["token_type"])
}
