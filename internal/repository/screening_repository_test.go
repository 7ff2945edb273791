package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-reservation/internal/model"
)

func TestMinutesApart(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"14:00:00", "14:00:00", 0},
		{"14:00:00", "16:59:00", 179},
		{"14:00:00", "17:00:00", 180},
		{"17:00:00", "14:00:00", 180}, // order must not matter
		{"09:30", "12:30:00", 180},    // HH:MM fallback
		{"00:00:00", "23:59:00", 1439},
	}
	for _, c := range cases {
		got, err := minutesApart(c.a, c.b)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "%s vs %s", c.a, c.b)
	}
}

func newScreening() *model.Screening {
	return &model.Screening{
		MovieID:    2,
		ShowDate:   "2026-09-10",
		ShowTime:   "20:00:00",
		RoomNumber: 1,
		Capacity:   50,
		PriceCents: 1250,
	}
}

func expectMovieExists(mock sqlmock.Sqlmock, movieID uint64, count int) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM movies WHERE id = ?")).
		WithArgs(movieID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))
}

func expectTimesInRoom(mock sqlmock.Sqlmock, room int, date string, times ...string) {
	rows := sqlmock.NewRows([]string{"show_time"})
	for _, tm := range times {
		rows.AddRow(tm)
	}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT show_time FROM screenings WHERE room_number = ? AND show_date = ?")).
		WithArgs(room, date).
		WillReturnRows(rows)
}

func TestScreeningCreateSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewScreeningRepo(db)
	sc := newScreening()

	expectMovieExists(mock, 2, 1)
	// 17:00 is exactly 180 minutes away and therefore allowed.
	expectTimesInRoom(mock, 1, "2026-09-10", "17:00:00")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO screenings")).
		WithArgs(uint64(2), "2026-09-10", "20:00:00", 1, 50, 50, uint32(1250)).
		WillReturnResult(sqlmock.NewResult(8, 1))

	require.NoError(t, repo.Create(context.Background(), sc))
	assert.Equal(t, uint64(8), sc.ID)
	assert.Equal(t, 50, sc.SeatsRemaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScreeningCreateRoomConflict(t *testing.T) {
	cases := []struct {
		name     string
		existing string
	}{
		{"earlier screening too close", "17:01:00"},
		{"later screening too close", "22:59:00"},
		{"same start time", "20:00:00"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			repo := NewScreeningRepo(db)
			sc := newScreening()

			expectMovieExists(mock, 2, 1)
			expectTimesInRoom(mock, 1, "2026-09-10", c.existing)

			assert.ErrorIs(t, repo.Create(context.Background(), sc), ErrScheduleConflict)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestScreeningCreateUnknownMovie(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewScreeningRepo(db)

	expectMovieExists(mock, 2, 0)

	assert.ErrorIs(t, repo.Create(context.Background(), newScreening()), ErrMovieNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScreeningCreateIgnoresOtherRooms(t *testing.T) {
	// The separation rule is scoped to one room; the query itself
	// filters on room_number, so a busy neighboring room changes
	// nothing.
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewScreeningRepo(db)
	sc := newScreening()

	expectMovieExists(mock, 2, 1)
	expectTimesInRoom(mock, 1, "2026-09-10")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO screenings")).
		WithArgs(uint64(2), "2026-09-10", "20:00:00", 1, 50, 50, uint32(1250)).
		WillReturnResult(sqlmock.NewResult(9, 1))

	require.NoError(t, repo.Create(context.Background(), sc))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveSeatsTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewScreeningRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE screenings SET seats_remaining = seats_remaining - ? WHERE id = ? AND seats_remaining >= ?")).
		WithArgs(4, uint64(8), 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.ReserveSeatsTx(context.Background(), tx, 8, 4))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveSeatsTxInsufficient(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewScreeningRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE screenings SET seats_remaining = seats_remaining - ? WHERE id = ? AND seats_remaining >= ?")).
		WithArgs(4, uint64(8), 4).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	assert.ErrorIs(t, repo.ReserveSeatsTx(context.Background(), tx, 8, 4), ErrInsufficientSeats)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseSeatsTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewScreeningRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE screenings SET seats_remaining = seats_remaining + ? WHERE id = ?")).
		WithArgs(4, uint64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.ReleaseSeatsTx(context.Background(), tx, 8, 4))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScreeningDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewScreeningRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM screenings WHERE id = ?")).
		WithArgs(uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 99), ErrScreeningNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAvailableFiltersSoldOut(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewScreeningRepo(db)

	rows := sqlmock.NewRows([]string{
		"id", "title", "show_date", "show_time", "room_number", "seats_remaining", "price_cents",
	}).AddRow(8, "Dune", "2026-09-10", "20:00:00", 1, 12, 1250)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.seats_remaining > 0")).
		WillReturnRows(rows)

	got, err := repo.ListAvailable(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Dune", got[0].MovieTitle)
	assert.Equal(t, 12, got[0].SeatsRemaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}
