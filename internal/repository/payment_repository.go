package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-ticket-reservation/internal/model"
)

// PaymentRepo manages persistence for payment records. Payments exist
// only as companions to reservations and are written and deleted inside
// the booking service's transactions.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// CreateTx inserts a payment row within an existing transaction and
// populates the generated ID on the provided record.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	const q = `INSERT INTO payments (reservation_id, amount_cents, card_number) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, p.ReservationID, p.AmountCents, p.CardNumber)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// DeleteByReservationTx removes the payment row belonging to a
// reservation within an existing transaction. A missing payment row is
// not an error: cancellation proceeds regardless.
func (r *PaymentRepo) DeleteByReservationTx(ctx context.Context, tx *sql.Tx, reservationID uint64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM payments WHERE reservation_id = ?", reservationID)
	return err
}
