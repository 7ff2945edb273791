package model

import "time"

// Reservation records a customer's claim on a number of seats for one
// screening. The ticket count is immutable after creation; cancelling
// removes the row entirely rather than decrementing it. A reservation
// is always created together with a seat deduction and a payment row
// inside a single transaction, and destroyed the same way.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – user who made the reservation.
//  ScreeningID – screening being reserved.
//  TicketCount – number of seats claimed.
//  CreatedAt   – creation timestamp.
type Reservation struct {
	ID          uint64    // reservations.id
	UserID      uint64    // reservations.user_id
	ScreeningID uint64    // reservations.screening_id
	TicketCount int       // reservations.ticket_count
	CreatedAt   time.Time // reservations.created_at
}

// ReservationSummary is a reservation joined with its screening and
// movie for a customer's booking history. Details is a rendered
// display string ("Title on DATE at TIME in Room N").
type ReservationSummary struct {
	ID          uint64    // reservations.id
	Details     string    // joined movie/screening display text
	TicketCount int       // reservations.ticket_count
	CreatedAt   time.Time // reservations.created_at
}
