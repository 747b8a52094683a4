package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shopfluence/backend/internal/apperr"
)

const (
	pgUniqueViolation        = "23505"
	pgNumericValueOutOfRange = "22003"
)

// translate maps driver errors onto the service error taxonomy.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(what)
	}
	if IsUniqueViolation(err) {
		return &apperr.Error{Kind: apperr.KindConflict, Msg: what + " already exists", Err: err}
	}
	if pgCode(err) == pgNumericValueOutOfRange {
		return &apperr.Error{Kind: apperr.KindValidation, Msg: what + " value out of range", Err: err}
	}
	return err
}

func IsUniqueViolation(err error) bool {
	return pgCode(err) == pgUniqueViolation
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
