package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/theatre-booking/internal/model"
)

type ActorRepo struct {
	db *sqlx.DB
}

func NewActorRepo(db *sqlx.DB) *ActorRepo { return &ActorRepo{db: db} }

func (r *ActorRepo) Create(ctx context.Context, a *model.Actor) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO actors (first_name, last_name) VALUES (?, ?)`, a.FirstName, a.LastName)
	if err != nil {
		return classify(err)
	}
	a.ID, err = lastID(res)
	return err
}

func (r *ActorRepo) GetByID(ctx context.Context, id uint64) (*model.Actor, error) {
	var a model.Actor
	if err := r.db.GetContext(ctx, &a, `SELECT id, first_name, last_name FROM actors WHERE id = ?`, id); err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *ActorRepo) List(ctx context.Context) ([]model.Actor, error) {
	out := []model.Actor{}
	if err := r.db.SelectContext(ctx, &out, `SELECT id, first_name, last_name FROM actors ORDER BY id`); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ActorRepo) Update(ctx context.Context, a *model.Actor) error {
	res, err := r.db.ExecContext(ctx, `UPDATE actors SET first_name = ?, last_name = ? WHERE id = ?`, a.FirstName, a.LastName, a.ID)
	if err != nil {
		return classify(err)
	}
	return affectedOne(res)
}

// Delete removes an actor and their play links.
func (r *ActorRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM actors WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affectedOne(res)
}
