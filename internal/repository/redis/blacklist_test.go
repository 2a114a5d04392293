package redis_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dementia-care/backend/internal/domain"
	redisrepo "github.com/dementia-care/backend/internal/repository/redis"
	"github.com/dementia-care/backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBlacklist(t *testing.T) *redisrepo.TokenBlacklist {
	t.Helper()

	tr := testutil.NewTestRedis(t)
	client := redisrepo.NewClient(redisrepo.Options{Addr: tr.Addr})
	t.Cleanup(func() { client.Close() })
	require.NoError(t, redisrepo.Ping(context.Background(), client))

	return redisrepo.NewTokenBlacklist(client)
}

func TestTokenBlacklist_AddAndContains(t *testing.T) {
	bl := newBlacklist(t)
	ctx := context.Background()

	token := &domain.BlacklistedToken{
		JTI:       uuid.NewString(),
		AccountID: uuid.New(),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	found, err := bl.Contains(ctx, token.JTI)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, bl.Add(ctx, token))

	found, err = bl.Contains(ctx, token.JTI)
	require.NoError(t, err)
	assert.True(t, found)

	err = bl.Add(ctx, token)
	assert.ErrorIs(t, err, domain.ErrAlreadyBlacklisted)
}

func TestTokenBlacklist_ConcurrentAdd(t *testing.T) {
	bl := newBlacklist(t)
	ctx := context.Background()

	token := &domain.BlacklistedToken{
		JTI:       uuid.NewString(),
		AccountID: uuid.New(),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := bl.Add(ctx, token); err == nil {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
}
