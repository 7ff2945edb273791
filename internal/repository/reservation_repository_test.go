package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoldsSlotTx(t *testing.T) {
	cases := []struct {
		name  string
		count int
		want  bool
	}{
		{"no reservation on slot", 0, false},
		{"reservation in another room still counts", 1, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			repo := NewReservationRepo(db)

			mock.ExpectBegin()
			mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reservations")).
				WithArgs(uint64(7), "2026-09-10", "20:00:00").
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(c.count))
			mock.ExpectRollback()

			tx, err := db.Begin()
			require.NoError(t, err)
			got, err := repo.HoldsSlotTx(context.Background(), tx, 7, "2026-09-10", "20:00:00")
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
			require.NoError(t, tx.Rollback())
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReservationDeleteTxNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewReservationRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reservations WHERE id = ?")).
		WithArgs(uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	assert.ErrorIs(t, repo.DeleteTx(context.Background(), tx, 99), ErrReservationNotFound)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewReservationRepo(db)

	created := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "details", "ticket_count", "created_at"}).
		AddRow(41, "Dune on 2026-09-10 at 20:00 in Room 1", 3, created).
		AddRow(12, "Heat on 2026-09-08 at 18:30 in Room 2", 1, created.Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY r.created_at DESC")).
		WithArgs("alice").
		WillReturnRows(rows)

	got, err := repo.ListByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(41), got[0].ID)
	assert.Equal(t, "Dune on 2026-09-10 at 20:00 in Room 1", got[0].Details)
	assert.Equal(t, 3, got[0].TicketCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
