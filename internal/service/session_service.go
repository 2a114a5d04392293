package service

import (
	"context"
	"errors"
	"sync"

	"github.com/dementia-care/backend/internal/domain"
	"github.com/dementia-care/backend/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Every login failure returns this one error so callers cannot tell a
// missing account from a wrong password or role.
var ErrInvalidCredentials = domain.ErrInvalidCredentials

type SessionService struct {
	accounts repository.AccountRepository
	tokens   *TokenService
	policy   AccessPolicy
	log      *zap.Logger
}

func NewSessionService(accounts repository.AccountRepository, tokens *TokenService, log *zap.Logger) *SessionService {
	return &SessionService{
		accounts: accounts,
		tokens:   tokens,
		log:      log.Named("session"),
	}
}

type AuthResult struct {
	Account      *domain.Account
	AccessToken  string
	RefreshToken string
}

// AuthenticateDoctor logs a doctor in by clinical-license identifier.
func (s *SessionService) AuthenticateDoctor(ctx context.Context, slmcID, password string) (*AuthResult, error) {
	if slmcID == "" || password == "" {
		return nil, domain.NewValidationError("", "SLMC ID and password required.")
	}

	account, err := s.accounts.GetBySLMCID(ctx, slmcID)
	if err := s.verify(account, err, password, s.policy.IsDoctor); err != nil {
		s.log.Info("doctor login rejected", zap.String("slmc_id", slmcID), zap.Error(err))
		return nil, err
	}
	return s.IssueTokens(ctx, account)
}

// AuthenticatePatient logs a patient in by generated login handle.
func (s *SessionService) AuthenticatePatient(ctx context.Context, username, password string) (*AuthResult, error) {
	if username == "" || password == "" {
		return nil, domain.NewValidationError("", "Username and password required.")
	}

	account, err := s.accounts.GetByUsername(ctx, username)
	if err := s.verify(account, err, password, s.policy.IsPatient); err != nil {
		s.log.Info("patient login rejected", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	return s.IssueTokens(ctx, account)
}

// verify collapses lookup, password and role failures into
// ErrInvalidCredentials. Store errors other than not-found pass through.
func (s *SessionService) verify(account *domain.Account, lookupErr error, password string, hasRole func(*domain.Account) bool) error {
	if lookupErr != nil {
		if errors.Is(lookupErr, domain.ErrNotFound) {
			// Burn the same bcrypt work as a real comparison.
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			return ErrInvalidCredentials
		}
		return lookupErr
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	if !hasRole(account) {
		return ErrInvalidCredentials
	}
	return nil
}

// IssueTokens always mints a fresh pair; nothing is reused or rotated.
func (s *SessionService) IssueTokens(ctx context.Context, account *domain.Account) (*AuthResult, error) {
	pair, err := s.tokens.IssuePair(account)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Account:      account,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Logout blacklists the refresh token. Repeating it fails with
// ErrInvalidToken.
func (s *SessionService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return domain.NewValidationError("refresh_token", "Refresh token is required.")
	}
	return s.tokens.Blacklist(ctx, refreshToken)
}

// Refresh exchanges a live refresh token for a new access token.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", domain.NewValidationError("refresh_token", "Refresh token is required.")
	}

	claims, err := s.tokens.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	accountID, _ := claims.AccountID()

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrInvalidToken
		}
		return "", err
	}
	if !account.IsActive {
		return "", domain.ErrInvalidToken
	}

	return s.tokens.IssueAccess(account)
}

// ValidateAccessToken is used by the transport's auth middleware.
func (s *SessionService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateAccessToken(tokenString)
}

func (s *SessionService) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

var (
	dummyOnce sync.Once
	dummy     []byte
)

func dummyHash() []byte {
	dummyOnce.Do(func() {
		dummy, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	return dummy
}
