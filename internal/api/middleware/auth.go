package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dementia-care/backend/internal/domain"
	"github.com/dementia-care/backend/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	AccountKey contextKey = "account"
)

// Authenticator resolves a bearer token to the account behind it.
type Authenticator interface {
	ValidateAccessToken(token string) (*service.Claims, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error)
}

func Auth(authn Authenticator, log *zap.Logger) func(http.Handler) http.Handler {
	log = log.Named("middleware.Auth")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Debug("missing authorization header")
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Debug("invalid authorization header format")
				http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
				return
			}

			claims, err := authn.ValidateAccessToken(parts[1])
			if err != nil {
				log.Debug("token validation failed", zap.Error(err))
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			accountID, err := claims.AccountID()
			if err != nil {
				log.Debug("failed to parse account ID", zap.Error(err))
				http.Error(w, "Invalid token claims", http.StatusUnauthorized)
				return
			}

			account, err := authn.GetAccount(r.Context(), accountID)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				log.Error("failed to load token subject", zap.String("account_id", accountID.String()), zap.Error(err))
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			if err != nil || !account.IsActive {
				log.Info("token subject unavailable", zap.String("account_id", accountID.String()), zap.Error(err))
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), AccountKey, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole must run after Auth.
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account, ok := GetAccount(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if account.Role != role {
				http.Error(w, "Forbidden: "+role.DisplayName()+" access required", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetAccount(ctx context.Context) (*domain.Account, bool) {
	account, ok := ctx.Value(AccountKey).(*domain.Account)
	return account, ok && account != nil
}

// WithAccount returns a context carrying account, as Auth would.
func WithAccount(ctx context.Context, account *domain.Account) context.Context {
	return context.WithValue(ctx, AccountKey, account)
}
