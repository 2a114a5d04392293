package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/dementia-care/backend/internal/domain"
	"github.com/go-redis/redis/v8"
)

const keyPrefix = "token:blacklist:"

// minTTL keeps entries for tokens that are already at or past expiry long
// enough to cover clock skew between replicas.
const minTTL = time.Minute

type Options struct {
	Addr     string
	Password string
	DB       int
}

func NewClient(opts Options) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
}

// TokenBlacklist stores one key per revoked jti, expiring with the token.
type TokenBlacklist struct {
	c *redis.Client
}

func NewTokenBlacklist(c *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{c: c}
}

func (b *TokenBlacklist) Add(ctx context.Context, token *domain.BlacklistedToken) error {
	ttl := time.Until(token.ExpiresAt)
	if ttl < minTTL {
		ttl = minTTL
	}

	ok, err := b.c.SetNX(ctx, keyPrefix+token.JTI, token.AccountID.String(), ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyBlacklisted, token.JTI)
	}
	return nil
}

func (b *TokenBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := b.c.Exists(ctx, keyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Ping checks connectivity at startup.
func Ping(ctx context.Context, c *redis.Client) error {
	return c.Ping(ctx).Err()
}
