package repository

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/theatre-booking/internal/model"
)

// PlayRepo stores plays together with their actor and genre links.
type PlayRepo struct {
	db *sqlx.DB
}

func NewPlayRepo(db *sqlx.DB) *PlayRepo { return &PlayRepo{db: db} }

var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

// List returns plays ordered by id.  A non-empty title keeps only plays
// whose title contains it, case-insensitively.
func (r *PlayRepo) List(ctx context.Context, title string) ([]model.Play, error) {
	out := []model.Play{}
	q := `SELECT DISTINCT id, title, description FROM plays`
	var args []any
	if title = strings.TrimSpace(title); title != "" {
		q += ` WHERE LOWER(title) LIKE ? ESCAPE '!'`
		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(title))+"%")
	}
	q += ` ORDER BY id`
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID loads a play with its actors and genres.
func (r *PlayRepo) GetByID(ctx context.Context, id uint64) (*model.Play, error) {
	var p model.Play
	if err := r.db.GetContext(ctx, &p, `SELECT id, title, description FROM plays WHERE id = ?`, id); err != nil {
		return nil, notFound(err)
	}
	p.Actors = []model.Actor{}
	err := r.db.SelectContext(ctx, &p.Actors, `
		SELECT a.id, a.first_name, a.last_name
		FROM actors a JOIN play_actors pa ON pa.actor_id = a.id
		WHERE pa.play_id = ? ORDER BY a.id`, id)
	if err != nil {
		return nil, err
	}
	p.Genres = []model.Genre{}
	err = r.db.SelectContext(ctx, &p.Genres, `
		SELECT g.id, g.name
		FROM genres g JOIN play_genres pg ON pg.genre_id = g.id
		WHERE pg.play_id = ? ORDER BY g.id`, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByActor returns the plays an actor appears in.
func (r *PlayRepo) ListByActor(ctx context.Context, actorID uint64) ([]model.Play, error) {
	out := []model.Play{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT p.id, p.title, p.description
		FROM plays p JOIN play_actors pa ON pa.play_id = p.id
		WHERE pa.actor_id = ? ORDER BY p.id`, actorID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts the play and links the given actors and genres in one
// transaction.  Unknown actor or genre ids yield ErrInvalidReference.
func (r *PlayRepo) Create(ctx context.Context, p *model.Play, actorIDs, genreIDs []uint64) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO plays (title, description) VALUES (?, ?)`, p.Title, p.Description)
		if err != nil {
			return classify(err)
		}
		if p.ID, err = lastID(res); err != nil {
			return err
		}
		return linkPlay(ctx, tx, p.ID, actorIDs, genreIDs)
	})
}

// Update rewrites title and description and replaces the actor and genre
// links with the given sets.
func (r *PlayRepo) Update(ctx context.Context, p *model.Play, actorIDs, genreIDs []uint64) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE plays SET title = ?, description = ? WHERE id = ?`, p.Title, p.Description, p.ID)
		if err != nil {
			return classify(err)
		}
		if err := affectedOne(res); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM play_actors WHERE play_id = ?`, p.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM play_genres WHERE play_id = ?`, p.ID); err != nil {
			return err
		}
		return linkPlay(ctx, tx, p.ID, actorIDs, genreIDs)
	})
}

// Delete removes a play; links, performances and their tickets cascade.
func (r *PlayRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plays WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affectedOne(res)
}

func linkPlay(ctx context.Context, tx *sqlx.Tx, playID uint64, actorIDs, genreIDs []uint64) error {
	for _, id := range dedupe(actorIDs) {
		if _, err := tx.ExecContext(ctx, `INSERT INTO play_actors (play_id, actor_id) VALUES (?, ?)`, playID, id); err != nil {
			return classify(err)
		}
	}
	for _, id := range dedupe(genreIDs) {
		if _, err := tx.ExecContext(ctx, `INSERT INTO play_genres (play_id, genre_id) VALUES (?, ?)`, playID, id); err != nil {
			return classify(err)
		}
	}
	return nil
}

func dedupe(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (r *PlayRepo) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
