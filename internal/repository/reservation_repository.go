// Package repository contains data access logic for reservations. A
// reservation is only ever created or destroyed inside the booking
// service's transactions, together with the seat-count mutation and the
// payment row, so most methods here take an explicit *sql.Tx. All
// timestamp fields are stored in UTC.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-ticket-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for reservations.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// CreateTx inserts a new reservation within the scope of an existing
// transaction and populates the generated ID on the provided record.
// The caller must commit or roll back the transaction.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations (user_id, screening_id, ticket_count, created_at)
               VALUES (?, ?, ?, NOW())`
	result, err := tx.ExecContext(ctx, q, res.UserID, res.ScreeningID, res.TicketCount)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

// GetTx fetches a reservation by ID within an existing transaction. It
// returns ErrReservationNotFound when no row matches.
func (r *ReservationRepo) GetTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
	const q = `SELECT id, user_id, screening_id, ticket_count, created_at
               FROM reservations WHERE id = ?`
	var res model.Reservation
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&res.ID, &res.UserID, &res.ScreeningID, &res.TicketCount, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// DeleteTx removes a reservation within an existing transaction. It
// returns ErrReservationNotFound when zero rows were affected so that
// the caller can roll back a cancellation that raced with another.
func (r *ReservationRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, "DELETE FROM reservations WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// HoldsSlotTx reports whether the user already holds a reservation for
// any screening starting at exactly the given date and time. The check
// spans every room in the system, not just the room being booked; this
// is deliberate and must not be narrowed without a product decision.
func (r *ReservationRepo) HoldsSlotTx(ctx context.Context, tx *sql.Tx, userID uint64, date, clock string) (bool, error) {
	const q = `SELECT COUNT(*) FROM reservations r
               JOIN screenings s ON s.id = r.screening_id
               WHERE r.user_id = ? AND s.show_date = ? AND s.show_time = ?`
	var count int
	if err := tx.QueryRowContext(ctx, q, userID, date, clock).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByUsername returns a customer's booking history: each reservation
// joined with its screening and movie, rendered into a display string.
// Results are ordered by creation time, newest first.
func (r *ReservationRepo) ListByUsername(ctx context.Context, username string) ([]model.ReservationSummary, error) {
	const q = `SELECT r.id,
                      CONCAT(m.title, ' on ', s.show_date, ' at ', SUBSTRING(s.show_time, 1, 5),
                             ' in Room ', s.room_number),
                      r.ticket_count, r.created_at
               FROM reservations r
               JOIN screenings s ON s.id = r.screening_id
               JOIN movies m ON m.id = s.movie_id
               JOIN users u ON u.id = r.user_id
               WHERE u.username = ?
               ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.ReservationSummary
	for rows.Next() {
		var s model.ReservationSummary
		if err := rows.Scan(&s.ID, &s.Details, &s.TicketCount, &s.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
