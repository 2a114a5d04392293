package postgres

import (
	"errors"
	"fmt"

	"github.com/dementia-care/backend/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

var constraintFields = map[string]string{
	domain.IndexAccountEmail:    "email",
	domain.IndexAccountSLMCID:   "slmc_id",
	domain.IndexAccountUsername: "username",
	domain.IndexPatientAccount:  "patient_id",
}

// translateError maps driver errors onto domain error kinds.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		field, ok := constraintFields[pgErr.ConstraintName]
		if !ok {
			field = pgErr.ConstraintName
		}
		return &domain.ConflictError{Field: field, Err: err}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &domain.ConflictError{Field: "unknown", Err: err}
	}
	return err
}
