package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a requested record does not exist in the database.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an update carried a stale version: the row
// still exists but somebody else changed it first.
var ErrConflict = errors.New("version conflict")

// ErrInUse is returned when a delete is blocked by rows that still reference the record.
var ErrInUse = errors.New("record is still referenced")

// ErrInvalidReference is returned when an insert or update points at a row that does not exist.
var ErrInvalidReference = errors.New("referenced record does not exist")

// foreign_key_violation
const pgForeignKeyViolation = "23503"

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

// missedUpdate decides why a versioned UPDATE touched no rows: the row is
// gone (ErrNotFound) or its version moved on (ErrConflict).
func missedUpdate(ctx context.Context, q querier, table string, id int64) error {
	var exists bool
	err := q.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM "+table+" WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check %s %d: %w", table, id, err)
	}
	if exists {
		return ErrConflict
	}
	return ErrNotFound
}
