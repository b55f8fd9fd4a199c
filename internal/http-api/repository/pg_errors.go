package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes we translate into domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation. Services rely on this to turn the storage-level backstop for
// duplicate usernames/emails/reviews into a validation error instead of a 500.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsForeignKeyViolation reports whether err is a postgres FK violation,
// raised when a referenced parent row disappeared mid-request.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
