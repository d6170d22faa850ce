// Package repository holds the sqlx-backed data access for the catalog and
// reservations.  Queries are written with '?' placeholders, which both the
// MySQL and SQLite drivers accept.
//
// The sentinel values below let higher layers tell failure modes apart
// without inspecting driver errors.
package repository

import (
	"database/sql"
	"errors"

	"github.com/iliyamo/theatre-booking/internal/database"
)

// ErrNotFound is returned when a lookup, update or delete matches no row.
// Owner-scoped reservation lookups also return it for rows that belong to
// someone else.  Handlers translate it into 404.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write collides with existing state, such
// as a duplicate genre name or a hall resize that would strand tickets.
// Handlers translate it into 409.
var ErrConflict = errors.New("conflict")

// ErrInvalidReference is returned when a write points at a parent row that
// does not exist (unknown play, hall, actor or genre id).
var ErrInvalidReference = errors.New("invalid reference")

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// classify maps constraint failures onto the sentinels above.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case database.IsUniqueViolation(err):
		return ErrConflict
	case database.IsForeignKeyViolation(err):
		return ErrInvalidReference
	}
	return err
}

func affectedOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func lastID(res sql.Result) (uint64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
