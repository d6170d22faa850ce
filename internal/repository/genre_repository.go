package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/theatre-booking/internal/model"
)

// GenreRepo stores genres.  Names are unique; a duplicate yields
// ErrConflict.
type GenreRepo struct {
	db *sqlx.DB
}

func NewGenreRepo(db *sqlx.DB) *GenreRepo { return &GenreRepo{db: db} }

func (r *GenreRepo) Create(ctx context.Context, g *model.Genre) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO genres (name) VALUES (?)`, g.Name)
	if err != nil {
		return classify(err)
	}
	g.ID, err = lastID(res)
	return err
}

func (r *GenreRepo) GetByID(ctx context.Context, id uint64) (*model.Genre, error) {
	var g model.Genre
	if err := r.db.GetContext(ctx, &g, `SELECT id, name FROM genres WHERE id = ?`, id); err != nil {
		return nil, notFound(err)
	}
	return &g, nil
}

func (r *GenreRepo) List(ctx context.Context) ([]model.Genre, error) {
	out := []model.Genre{}
	if err := r.db.SelectContext(ctx, &out, `SELECT id, name FROM genres ORDER BY name, id`); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GenreRepo) Update(ctx context.Context, g *model.Genre) error {
	res, err := r.db.ExecContext(ctx, `UPDATE genres SET name = ? WHERE id = ?`, g.Name, g.ID)
	if err != nil {
		return classify(err)
	}
	return affectedOne(res)
}

func (r *GenreRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM genres WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affectedOne(res)
}
