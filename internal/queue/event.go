// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published after a booking transaction
// commits. It carries enough information for downstream consumers to
// log or notify without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	ScreeningID   uint64 `json:"screening_id"`
	Username      string `json:"username"`
	TicketCount   int    `json:"ticket_count"`
	AmountCents   uint32 `json:"amount_cents"`
	ConfirmedAt   string `json:"confirmed_at"`
}

// ReservationCancelledEvent is published after a cancellation
// transaction commits.
type ReservationCancelledEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	ScreeningID   uint64 `json:"screening_id"`
	TicketCount   int    `json:"ticket_count"`
	CancelledAt   string `json:"cancelled_at"`
}
