package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes the repositories translate into domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Constraint names from migrations/catalog.
const (
	constraintBookISBN     = "books_isbn_key"
	constraintBookAuthor   = "books_author_id_fkey"
	constraintBookCategory = "books_category_id_fkey"
)

// pgError returns the SQLSTATE and constraint name of err, or empty strings
// when err does not come from Postgres.
func pgError(err error) (code, constraint string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}
