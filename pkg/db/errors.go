package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

const pgForeignKeyViolation = "23503"

// sqlite text for a failed FK check, for errors that lost their driver type
const sqliteForeignKeyText = "FOREIGN KEY constraint failed"

// IsForeignKeyViolation reports whether err, or anything it wraps, is a foreign
// key failure raised by Postgres (pgx or pq) or sqlite.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == pgForeignKeyViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgForeignKeyViolation
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return strings.Contains(err.Error(), sqliteForeignKeyText)
}
