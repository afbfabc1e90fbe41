package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the repositories translate into domain errors.
const (
	pgErrForeignKeyViolation = "23503"
	pgErrUniqueViolation     = "23505"
)

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}

	return false
}

func isForeignKeyViolation(err error) bool {
	return hasCode(err, pgErrForeignKeyViolation)
}

func isUniqueViolation(err error) bool {
	return hasCode(err, pgErrUniqueViolation)
}
