package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"interviewprep/internal/domain"
)

// IsPgDuplicateError checks if error is a unique constraint violation
func IsPgDuplicateError(err error) bool {
	return pgCode(err) == "23505"
}

// IsPgNoRowsError checks if error is a "no rows" error
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsPgForeignKeyError checks if error is a foreign key violation
func IsPgForeignKeyError(err error) bool {
	return pgCode(err) == "23503"
}

// IsPgCheckViolation checks for check constraint violations and data exceptions (class 22).
func IsPgCheckViolation(err error) bool {
	code := pgCode(err)
	return code == "23514" || code == "23502" || strings.HasPrefix(code, "22")
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// mapError translates driver errors into domain errors. entity names the
// row kind in messages ("question", "generation log").
func mapError(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case IsPgNoRowsError(err):
		return &domain.NotFoundError{Message: entity + " not found"}
	case IsPgDuplicateError(err):
		return &domain.ConflictError{Message: entity + " already exists"}
	case IsPgForeignKeyError(err):
		return fmt.Errorf("%s references a missing row: %w", entity, domain.ErrNotFound)
	case IsPgCheckViolation(err):
		var pgErr *pgconn.PgError
		errors.As(err, &pgErr)
		return fmt.Errorf("%s rejected by store (%s): %w", entity, pgErr.ConstraintName, domain.ErrValidation)
	default:
		return fmt.Errorf("%s: %w", entity, err)
	}
}
