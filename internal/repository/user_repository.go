package repository

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/theatre-booking/internal/model"
)

// UserRepo manages the minimal user rows reservations point at.  Accounts
// are provisioned out of band (cmd/seed); there are no credentials here.
type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a user with a normalized email.  A taken email yields
// ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (email, username, is_staff) VALUES (?,?,?)",
		u.Email, u.Username, u.IsStaff)
	if err != nil {
		return classify(err)
	}
	u.ID, err = lastID(res)
	return err
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	if err := r.db.GetContext(ctx, &u, "SELECT id,email,username,is_staff FROM users WHERE email=? LIMIT 1", email); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	if err := r.db.GetContext(ctx, &u, "SELECT id,email,username,is_staff FROM users WHERE id=? LIMIT 1", id); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// Ensure returns the user with u.Email, creating it when missing.
func (r *UserRepo) Ensure(ctx context.Context, u *model.User) error {
	existing, err := r.GetByEmail(ctx, u.Email)
	if err == nil {
		*u = *existing
		return nil
	}
	if err != ErrNotFound {
		return err
	}
	return r.Create(ctx, u)
}
