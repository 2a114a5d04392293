package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dementia-care/backend/internal/config"
	"github.com/dementia-care/backend/internal/domain"
	"github.com/dementia-care/backend/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Claims is the payload of both access and refresh tokens.
type Claims struct {
	Role      domain.Role      `json:"role"`
	TokenType domain.TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// AccountID returns the subject as a UUID.
func (c *Claims) AccountID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenService signs and verifies session tokens and owns the refresh
// token blacklist.
type TokenService struct {
	blacklist repository.TokenBlacklist
	cfg       *config.Config
	now       func() time.Time
}

func NewTokenService(blacklist repository.TokenBlacklist, cfg *config.Config) *TokenService {
	return &TokenService{
		blacklist: blacklist,
		cfg:       cfg,
		now:       time.Now,
	}
}

// IssuePair mints a fresh access and refresh token for account.
func (s *TokenService) IssuePair(account *domain.Account) (*TokenPair, error) {
	access, _, err := s.sign(account.ID, account.Role, domain.TokenTypeAccess, s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.sign(account.ID, account.Role, domain.TokenTypeRefresh, s.cfg.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// IssueAccess mints a single access token.
func (s *TokenService) IssueAccess(account *domain.Account) (string, error) {
	token, _, err := s.sign(account.ID, account.Role, domain.TokenTypeAccess, s.cfg.AccessTokenTTL)
	return token, err
}

func (s *TokenService) sign(accountID uuid.UUID, role domain.Role, typ domain.TokenType, ttl time.Duration) (string, *Claims, error) {
	now := s.now()
	claims := &Claims{
		Role:      role,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   accountID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

func (s *TokenService) parse(tokenString string, want domain.TokenType) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !token.Valid || claims.TokenType != want || claims.ID == "" {
		return nil, fmt.Errorf("%w: expected %s token", domain.ErrInvalidToken, want)
	}
	if _, err := claims.AccountID(); err != nil {
		return nil, fmt.Errorf("%w: bad subject", domain.ErrInvalidToken)
	}
	return claims, nil
}

// ValidateAccessToken checks signature, expiry and token type. Access
// tokens are not individually revocable.
func (s *TokenService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.parse(tokenString, domain.TokenTypeAccess)
}

// ValidateRefreshToken additionally rejects blacklisted tokens.
func (s *TokenService) ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.parse(tokenString, domain.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	blacklisted, err := s.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, fmt.Errorf("%w: token is blacklisted", domain.ErrInvalidToken)
	}
	return claims, nil
}

// Blacklist revokes a refresh token. A token that is already blacklisted
// is reported as invalid.
func (s *TokenService) Blacklist(ctx context.Context, tokenString string) error {
	claims, err := s.parse(tokenString, domain.TokenTypeRefresh)
	if err != nil {
		return err
	}
	accountID, _ := claims.AccountID()

	err = s.blacklist.Add(ctx, &domain.BlacklistedToken{
		JTI:           claims.ID,
		AccountID:     accountID,
		ExpiresAt:     claims.ExpiresAt.Time,
		BlacklistedAt: s.now(),
		Claims: datatypes.JSONMap{
			"sub":        claims.Subject,
			"role":       string(claims.Role),
			"token_type": string(claims.TokenType),
			"iat":        claims.IssuedAt.Unix(),
			"exp":        claims.ExpiresAt.Unix(),
		},
	})
	if errors.Is(err, domain.ErrAlreadyBlacklisted) {
		return fmt.Errorf("%w: token is blacklisted", domain.ErrInvalidToken)
	}
	return err
}
