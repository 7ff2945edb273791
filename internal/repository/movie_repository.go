// Package repository contains data access logic for the movie catalog.
// This file defines MovieRepo, which enforces title uniqueness on insert
// and performs the cascading movie delete: removing a movie removes all
// of its screenings in the same transaction so that no orphaned
// screening can ever survive a partial failure.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/movie-ticket-reservation/internal/model"
)

// MovieRepo manages persistence for movies.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// ClampRating forces a submitted rating into the valid [1,5] range.
// A rating of 7 is stored as 5 and a rating of 0 as 1.
func ClampRating(rating int) int {
	if rating < 1 {
		return 1
	}
	if rating > 5 {
		return 5
	}
	return rating
}

// Create inserts a new movie and returns its generated ID. The rating
// is clamped to [1,5] before insertion. If a movie with the exact same
// title already exists it returns ErrDuplicateTitle; the UNIQUE key on
// the title column backstops the pre-check under concurrent inserts.
func (r *MovieRepo) Create(ctx context.Context, title string, rating int, info string) (uint64, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM movies WHERE title = ?", title).Scan(&count)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, ErrDuplicateTitle
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO movies (title, rating, info) VALUES (?, ?, ?)",
		title, ClampRating(rating), info)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrDuplicateTitle
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID retrieves a movie by its ID. It returns ErrMovieNotFound if
// there is no matching row.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = `SELECT id, title, rating, info FROM movies WHERE id = ?`
	var m model.Movie
	err := r.db.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.Title, &m.Rating, &m.Info)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Delete removes a movie and all screenings that reference it as one
// unit. The screenings are deleted first; if the movie row itself does
// not exist the whole transaction rolls back and ErrMovieNotFound is
// returned, leaving any screenings in place.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM screenings WHERE movie_id = ?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM movies WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMovieNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// List returns all movies in the catalog. Ordering is whatever the
// store produces; callers must not rely on it.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	const q = `SELECT id, title, rating, info FROM movies`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Movie
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Rating, &m.Info); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
