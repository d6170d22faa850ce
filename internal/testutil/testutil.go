// Package testutil provides a migrated in-memory SQLite database and small
// fixture builders shared by repository, service and handler tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/theatre-booking/internal/database"
	"github.com/iliyamo/theatre-booking/internal/model"
	"github.com/iliyamo/theatre-booking/internal/repository"
)

// NewDB opens a fresh in-memory database, closed when the test ends.
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()
	db, err := database.OpenSQLiteMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// Fixtures creates catalog rows and users through the real repositories.
type Fixtures struct {
	t  testing.TB
	db *sqlx.DB
}

func NewFixtures(t testing.TB, db *sqlx.DB) *Fixtures {
	return &Fixtures{t: t, db: db}
}

func (f *Fixtures) User(email string, staff bool) model.User {
	f.t.Helper()
	u := model.User{Email: email, Username: "", IsStaff: staff}
	require.NoError(f.t, repository.NewUserRepo(f.db).Create(context.Background(), &u))
	return u
}

func (f *Fixtures) Hall(name string, rows, seatsInRow int) model.TheatreHall {
	f.t.Helper()
	h := model.TheatreHall{Name: name, Rows: rows, SeatsInRow: seatsInRow}
	require.NoError(f.t, repository.NewHallRepo(f.db).Create(context.Background(), &h))
	return h
}

func (f *Fixtures) Play(title string) model.Play {
	f.t.Helper()
	p := model.Play{Title: title, Description: title + " description"}
	require.NoError(f.t, repository.NewPlayRepo(f.db).Create(context.Background(), &p, nil, nil))
	return p
}

// Performance creates a play and a performance of it in hall.
func (f *Fixtures) Performance(hall model.TheatreHall, showTime time.Time) model.Performance {
	f.t.Helper()
	play := f.Play("Hamlet")
	p := model.Performance{PlayID: play.ID, TheatreHallID: hall.ID, ShowTime: showTime}
	require.NoError(f.t, repository.NewPerformanceRepo(f.db).Create(context.Background(), &p))
	return p
}
