package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

func TestIsForeignKeyViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "pgx fk", err: fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23503"}), want: true},
		{name: "pgx unique", err: &pgconn.PgError{Code: "23505"}, want: false},
		{name: "pq fk", err: &pq.Error{Code: "23503"}, want: true},
		{name: "sqlite fk", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, want: true},
		{name: "sqlite unique", err: fmt.Errorf("exec: %w", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}), want: false},
		{name: "sqlite fk text", err: errors.New("FOREIGN KEY constraint failed"), want: true},
		{name: "other", err: errors.New("connection refused"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsForeignKeyViolation(tt.err); got != tt.want {
				t.Fatalf("IsForeignKeyViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}
