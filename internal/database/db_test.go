package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMySQLDSN(t *testing.T) {
	assert.Equal(t,
		"app:secret@tcp(db:3306)/theatre?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		MySQLDSN("app", "secret", "db", "3306", "theatre"))
	assert.Equal(t,
		"app@tcp(db:3306)/theatre?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		MySQLDSN("app", "", "db", "3306", "theatre"))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", SQLiteDSN(""))
	assert.Equal(t, "file:data/theatre.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", SQLiteDSN("data/theatre.db"))
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLiteMemory(ctx)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(ctx, db))

	var tables []string
	require.NoError(t, db.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`))
	assert.Equal(t, []string{
		"actors", "genres", "performances", "play_actors", "play_genres",
		"plays", "reservations", "theatre_halls", "tickets", "users",
	}, tables)
}

func TestConstraintClassification(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLiteMemory(ctx)
	require.NoError(t, err)
	defer db.Close()

	db.MustExec(`INSERT INTO theatre_halls (name, seat_rows, seats_in_row) VALUES ('A', 2, 2)`)
	db.MustExec(`INSERT INTO plays (title, description) VALUES ('P', '')`)
	db.MustExec(`INSERT INTO performances (play_id, theatre_hall_id, show_time) VALUES (1, 1, '2026-01-01 19:00:00')`)
	db.MustExec(`INSERT INTO tickets (seat_row, seat_number, performance_id) VALUES (1, 1, 1)`)

	_, err = db.Exec(`INSERT INTO tickets (seat_row, seat_number, performance_id) VALUES (1, 1, 1)`)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.True(t, IsUniqueViolation(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsForeignKeyViolation(err))

	_, err = db.Exec(`INSERT INTO tickets (seat_row, seat_number, performance_id) VALUES (1, 2, 42)`)
	require.Error(t, err)
	assert.True(t, IsForeignKeyViolation(err))
	assert.False(t, IsUniqueViolation(err))

	_, err = db.Exec(`INSERT INTO theatre_halls (name, seat_rows, seats_in_row) VALUES ('B', 0, 5)`)
	require.Error(t, err)
	assert.False(t, IsUniqueViolation(err))
	assert.False(t, IsForeignKeyViolation(err))
}

func TestMySQLErrorClassification(t *testing.T) {
	assert.True(t, IsUniqueViolation(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.False(t, IsUniqueViolation(&mysql.MySQLError{Number: 1452}))
	assert.True(t, IsForeignKeyViolation(&mysql.MySQLError{Number: 1452}))
	assert.False(t, IsUniqueViolation(errors.New("1062")))
	assert.False(t, IsUniqueViolation(nil))

	deadlock := fmt.Errorf("insert ticket: %w", &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"})
	assert.True(t, IsLockConflict(deadlock))
	assert.False(t, IsUniqueViolation(deadlock))
	assert.True(t, IsLockConflict(&mysql.MySQLError{Number: 1205}))
	assert.False(t, IsLockConflict(&mysql.MySQLError{Number: 1062}))
	assert.False(t, IsLockConflict(nil))
}

func TestCascadeDeletesTickets(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLiteMemory(ctx)
	require.NoError(t, err)
	defer db.Close()

	db.MustExec(`INSERT INTO users (email) VALUES ('u@example.com')`)
	db.MustExec(`INSERT INTO theatre_halls (name, seat_rows, seats_in_row) VALUES ('A', 2, 2)`)
	db.MustExec(`INSERT INTO plays (title, description) VALUES ('P', '')`)
	db.MustExec(`INSERT INTO performances (play_id, theatre_hall_id, show_time) VALUES (1, 1, '2026-01-01 19:00:00')`)
	db.MustExec(`INSERT INTO reservations (user_id, created_at) VALUES (1, '2026-01-01 10:00:00')`)
	db.MustExec(`INSERT INTO tickets (seat_row, seat_number, performance_id, reservation_id) VALUES (1, 1, 1, 1)`)

	db.MustExec(`DELETE FROM reservations WHERE id = 1`)
	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM tickets`))
	assert.Zero(t, n)
}
