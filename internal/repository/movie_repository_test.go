package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampRating(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 1}, {-3, 1}, {1, 1}, {3, 3}, {5, 5}, {6, 5}, {7, 5},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ClampRating(c.in), "rating %d", c.in)
	}
}

func TestMovieCreateClampsRating(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewMovieRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM movies WHERE title = ?")).
		WithArgs("Dune").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO movies (title, rating, info) VALUES (?, ?, ?)")).
		WithArgs("Dune", 5, "epic").
		WillReturnResult(sqlmock.NewResult(12, 1))

	id, err := repo.Create(context.Background(), "Dune", 9, "epic")
	require.NoError(t, err)
	assert.Equal(t, uint64(12), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieCreateDuplicateTitle(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewMovieRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM movies WHERE title = ?")).
		WithArgs("Dune").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err = repo.Create(context.Background(), "Dune", 4, "epic")
	assert.ErrorIs(t, err, ErrDuplicateTitle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieDeleteCascadesScreenings(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewMovieRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM screenings WHERE movie_id = ?")).
		WithArgs(uint64(12)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM movies WHERE id = ?")).
		WithArgs(uint64(12)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 12))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieDeleteUnknownRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewMovieRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM screenings WHERE movie_id = ?")).
		WithArgs(uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM movies WHERE id = ?")).
		WithArgs(uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.Delete(context.Background(), 99), ErrMovieNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewMovieRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, rating, info FROM movies WHERE id = ?")).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "rating", "info"}))

	_, err = repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrMovieNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
