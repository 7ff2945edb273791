// Package repository contains data access logic for screenings. This
// file defines ScreeningRepo, which owns two invariants: the
// room-separation rule (no two screenings in the same room on the same
// date may start within 180 minutes of each other) and the seat
// inventory bounds (0 <= seats_remaining <= capacity, even under
// concurrent bookings).
//
// Seat counts are only ever mutated through ReserveSeatsTx and
// ReleaseSeatsTx. The reserve is a single conditional UPDATE whose
// WHERE clause requires enough seats to remain, checked via the
// affected-row count; two concurrent callers can therefore never
// jointly drive the counter below zero. A read-then-write pair must
// never be introduced here.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/movie-ticket-reservation/internal/model"
)

// RoomGapMinutes is the minimum separation between two screenings in
// the same room on the same date.
const RoomGapMinutes = 180

// ScreeningRepo manages persistence for screenings and their seat
// inventory.
type ScreeningRepo struct {
	db *sql.DB
}

// NewScreeningRepo constructs a ScreeningRepo with the given DB handle.
func NewScreeningRepo(db *sql.DB) *ScreeningRepo {
	return &ScreeningRepo{db: db}
}

// DB exposes the underlying sql.DB. It allows callers to begin
// transactions spanning multiple repositories, such as the booking
// service's book and cancel flows.
func (r *ScreeningRepo) DB() *sql.DB {
	return r.db
}

// minutesApart returns the absolute difference in minutes between two
// TIME column values ("15:04:05", with a "15:04" fallback). Both times
// belong to the same calendar date; a screening just before midnight
// and one just after it on the next date are deliberately not compared.
func minutesApart(a, b string) (int, error) {
	ta, err := parseClock(a)
	if err != nil {
		return 0, err
	}
	tb, err := parseClock(b)
	if err != nil {
		return 0, err
	}
	diff := ta.Sub(tb)
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Minutes()), nil
}

func parseClock(s string) (time.Time, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		t, err = time.Parse("15:04", s)
	}
	return t, err
}

// Create validates the room-separation invariant and inserts a new
// screening with seats_remaining initialized to capacity. It loads all
// start times already scheduled in the same room on the same date and
// rejects with ErrScheduleConflict when any of them is closer than
// RoomGapMinutes to the new start time, in either direction. The movie
// must exist or ErrMovieNotFound is returned. On success the generated
// ID is populated on the given screening.
func (r *ScreeningRepo) Create(ctx context.Context, sc *model.Screening) error {
	var exists int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM movies WHERE id = ?", sc.MovieID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists == 0 {
		return ErrMovieNotFound
	}
	times, err := r.timesInRoom(ctx, sc.RoomNumber, sc.ShowDate)
	if err != nil {
		return err
	}
	for _, existing := range times {
		gap, err := minutesApart(sc.ShowTime, existing)
		if err != nil {
			return err
		}
		if gap < RoomGapMinutes {
			return ErrScheduleConflict
		}
	}
	const q = `INSERT INTO screenings (movie_id, show_date, show_time, room_number, capacity, seats_remaining, price_cents)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		sc.MovieID, sc.ShowDate, sc.ShowTime, sc.RoomNumber, sc.Capacity, sc.Capacity, sc.PriceCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	sc.ID = uint64(id)
	sc.SeatsRemaining = sc.Capacity
	return nil
}

// timesInRoom returns the start times of all screenings scheduled in
// the given room on the given date.
func (r *ScreeningRepo) timesInRoom(ctx context.Context, room int, date string) ([]string, error) {
	const q = `SELECT show_time FROM screenings WHERE room_number = ? AND show_date = ?`
	rows, err := r.db.QueryContext(ctx, q, room, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var times []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return times, nil
}

// GetByID retrieves a screening by its ID. It returns
// ErrScreeningNotFound if there is no matching row.
func (r *ScreeningRepo) GetByID(ctx context.Context, id uint64) (*model.Screening, error) {
	return scanScreening(r.db.QueryRowContext(ctx, screeningSelect, id))
}

// GetTx is GetByID within the scope of an existing transaction. The
// booking service uses it so that the screening it validates against is
// read under the same transaction that mutates the seat counter.
func (r *ScreeningRepo) GetTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Screening, error) {
	return scanScreening(tx.QueryRowContext(ctx, screeningSelect, id))
}

// show_date is formatted server-side so it always scans as a string,
// independent of the driver's parseTime setting.
const screeningSelect = `SELECT id, movie_id, DATE_FORMAT(show_date, '%Y-%m-%d'), show_time, room_number, capacity, seats_remaining, price_cents
                         FROM screenings WHERE id = ?`

func scanScreening(row *sql.Row) (*model.Screening, error) {
	var s model.Screening
	err := row.Scan(&s.ID, &s.MovieID, &s.ShowDate, &s.ShowTime,
		&s.RoomNumber, &s.Capacity, &s.SeatsRemaining, &s.PriceCents)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScreeningNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Delete removes a screening. It returns ErrScreeningNotFound when no
// row matched.
func (r *ScreeningRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM screenings WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrScreeningNotFound
	}
	return nil
}

// ReserveSeatsTx atomically deducts n seats from a screening inside the
// caller's transaction. The decrement and the availability check are a
// single statement conditioned on seats_remaining >= n; when the UPDATE
// affects no rows the screening either does not exist or has fewer
// seats than requested, and ErrInsufficientSeats is returned. The
// caller resolves existence separately via GetTx.
func (r *ScreeningRepo) ReserveSeatsTx(ctx context.Context, tx *sql.Tx, id uint64, n int) error {
	const q = `UPDATE screenings SET seats_remaining = seats_remaining - ? WHERE id = ? AND seats_remaining >= ?`
	res, err := tx.ExecContext(ctx, q, n, id, n)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsufficientSeats
	}
	return nil
}

// ReleaseSeatsTx restores n seats to a screening inside the caller's
// transaction. Cancellation only ever releases what a reservation
// consumed, so the counter cannot exceed capacity.
func (r *ScreeningRepo) ReleaseSeatsTx(ctx context.Context, tx *sql.Tx, id uint64, n int) error {
	const q = `UPDATE screenings SET seats_remaining = seats_remaining + ? WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, n, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrScreeningNotFound
	}
	return nil
}

// List returns all screenings joined with their movie title, ordered by
// date then start time.
func (r *ScreeningRepo) List(ctx context.Context) ([]model.ScreeningSummary, error) {
	const q = `SELECT s.id, m.title, DATE_FORMAT(s.show_date, '%Y-%m-%d'), s.show_time, s.room_number, s.seats_remaining, s.price_cents
               FROM screenings s
               JOIN movies m ON m.id = s.movie_id
               ORDER BY s.show_date ASC, s.show_time ASC`
	return r.listSummaries(ctx, q)
}

// ListAvailable returns only screenings that still have unbooked seats.
func (r *ScreeningRepo) ListAvailable(ctx context.Context) ([]model.ScreeningSummary, error) {
	const q = `SELECT s.id, m.title, DATE_FORMAT(s.show_date, '%Y-%m-%d'), s.show_time, s.room_number, s.seats_remaining, s.price_cents
               FROM screenings s
               JOIN movies m ON m.id = s.movie_id
               WHERE s.seats_remaining > 0
               ORDER BY s.show_date ASC, s.show_time ASC`
	return r.listSummaries(ctx, q)
}

func (r *ScreeningRepo) listSummaries(ctx context.Context, q string) ([]model.ScreeningSummary, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.ScreeningSummary
	for rows.Next() {
		var s model.ScreeningSummary
		if err := rows.Scan(&s.ID, &s.MovieTitle, &s.ShowDate, &s.ShowTime,
			&s.RoomNumber, &s.SeatsRemaining, &s.PriceCents); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
