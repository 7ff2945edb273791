// Package service implements the reservation transaction engine: the
// book and cancel flows that must run as indivisible units. Each flow
// opens one transaction, drives the Tx-scoped repository methods, and
// commits only when every step succeeded; any failure rolls everything
// back, including the seat-count mutation. Handlers translate the
// sentinel errors surfaced here into HTTP responses.
package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"time"

	"github.com/iliyamo/movie-ticket-reservation/internal/model"
	"github.com/iliyamo/movie-ticket-reservation/internal/repository"
)

// ErrScreeningStarted is returned when booking a screening whose start
// time has already passed.
var ErrScreeningStarted = errors.New("screening has already started")

// ErrTimeslotTaken is returned when the user already holds a
// reservation for a screening at the identical date and time, in any
// room.
var ErrTimeslotTaken = errors.New("user already booked this timeslot")

// ErrInvalidPayment is returned when the payment token is not exactly
// five digits.
var ErrInvalidPayment = errors.New("invalid payment card number")

// ErrInvalidTicketCount is returned when the requested ticket count is
// not a positive number.
var ErrInvalidTicketCount = errors.New("ticket count must be positive")

// ErrTooLateToCancel is returned when a cancellation falls inside the
// 60-minute cutoff window before screening start.
var ErrTooLateToCancel = errors.New("cancellation window has closed")

// ErrCancelFailed is returned when the reservation row vanished between
// lookup and delete, for example because a concurrent cancel won.
var ErrCancelFailed = errors.New("reservation could not be cancelled")

// CancelCutoff is how long before screening start cancellation closes.
const CancelCutoff = time.Hour

// cardPattern is the placeholder payment validation: exactly 5 digits.
var cardPattern = regexp.MustCompile(`^[0-9]{5}$`)

// BookingService orchestrates booking and cancellation transactions
// over the repositories. The clock is injectable so cutoff behavior can
// be tested; it defaults to time.Now.
type BookingService struct {
	DB           *sql.DB
	Screenings   *repository.ScreeningRepo
	Users        *repository.UserRepo
	Reservations *repository.ReservationRepo
	Payments     *repository.PaymentRepo

	now func() time.Time
}

// NewBookingService constructs a BookingService. All dependencies must
// be non-nil.
func NewBookingService(db *sql.DB, screenings *repository.ScreeningRepo, users *repository.UserRepo,
	reservations *repository.ReservationRepo, payments *repository.PaymentRepo) *BookingService {
	if db == nil || screenings == nil || users == nil || reservations == nil || payments == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{
		DB:           db,
		Screenings:   screenings,
		Users:        users,
		Reservations: reservations,
		Payments:     payments,
		now:          time.Now,
	}
}

// BookingResult describes a successful booking.
type BookingResult struct {
	ReservationID uint64
	ScreeningID   uint64
	TicketCount   int
	AmountCents   uint32
	MovieTitle    string
}

// startOf combines a screening's date and time columns into a UTC
// instant.
func startOf(sc *model.Screening) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04:05", sc.ShowDate+" "+sc.ShowTime, time.UTC)
}

// Book reserves ticketCount seats on a screening for the named user and
// records the payment, all inside one transaction:
//
//	1. look up the screening (repository.ErrScreeningNotFound)
//	2. reject screenings that have already started (ErrScreeningStarted)
//	3. atomically deduct seats (repository.ErrInsufficientSeats)
//	4. resolve the user (repository.ErrUserNotFound)
//	5. reject a second reservation on the same (date,time) slot,
//	   system-wide across rooms (ErrTimeslotTaken)
//	6. validate the 5-digit payment token (ErrInvalidPayment)
//	7. insert the reservation and its payment, amount = price * count
//
// Any error rolls the whole transaction back, so the seat deduction
// from step 3 never survives a later failure.
func (s *BookingService) Book(ctx context.Context, username string, screeningID uint64, ticketCount int, cardNumber string) (*BookingResult, error) {
	if ticketCount < 1 {
		return nil, ErrInvalidTicketCount
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	sc, err := s.Screenings.GetTx(ctx, tx, screeningID)
	if err != nil {
		return nil, err
	}
	start, err := startOf(sc)
	if err != nil {
		return nil, err
	}
	if !s.now().UTC().Before(start) {
		return nil, ErrScreeningStarted
	}
	if err := s.Screenings.ReserveSeatsTx(ctx, tx, screeningID, ticketCount); err != nil {
		return nil, err
	}
	user, err := s.Users.GetByUsernameTx(ctx, tx, username)
	if err != nil {
		return nil, err
	}
	taken, err := s.Reservations.HoldsSlotTx(ctx, tx, user.ID, sc.ShowDate, sc.ShowTime)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrTimeslotTaken
	}
	if !cardPattern.MatchString(cardNumber) {
		return nil, ErrInvalidPayment
	}
	res := &model.Reservation{
		UserID:      user.ID,
		ScreeningID: screeningID,
		TicketCount: ticketCount,
	}
	if err := s.Reservations.CreateTx(ctx, tx, res); err != nil {
		return nil, err
	}
	amount := sc.PriceCents * uint32(ticketCount)
	pay := &model.Payment{
		ReservationID: res.ID,
		AmountCents:   amount,
		CardNumber:    cardNumber,
	}
	if err := s.Payments.CreateTx(ctx, tx, pay); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &BookingResult{
		ReservationID: res.ID,
		ScreeningID:   screeningID,
		TicketCount:   ticketCount,
		AmountCents:   amount,
	}, nil
}

// CancelResult describes a successful cancellation.
type CancelResult struct {
	ReservationID uint64
	ScreeningID   uint64
	TicketCount   int
}

// Cancel reverses a reservation inside one transaction: it restores the
// exact ticket count to the screening's seat counter and deletes the
// payment and reservation rows. Cancellation is refused once the
// screening has started (ErrScreeningStarted) and inside the
// CancelCutoff window before start (ErrTooLateToCancel); in both cases
// no state changes. When userID is non-zero the reservation must belong
// to that user or repository.ErrForbidden is returned.
func (s *BookingService) Cancel(ctx context.Context, reservationID, userID uint64) (*CancelResult, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := s.Reservations.GetTx(ctx, tx, reservationID)
	if err != nil {
		return nil, err
	}
	if userID != 0 && res.UserID != userID {
		return nil, repository.ErrForbidden
	}
	sc, err := s.Screenings.GetTx(ctx, tx, res.ScreeningID)
	if err != nil {
		return nil, err
	}
	start, err := startOf(sc)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if !now.Before(start) {
		return nil, ErrScreeningStarted
	}
	if !now.Before(start.Add(-CancelCutoff)) {
		return nil, ErrTooLateToCancel
	}
	if err := s.Screenings.ReleaseSeatsTx(ctx, tx, res.ScreeningID, res.TicketCount); err != nil {
		return nil, err
	}
	// A reservation may have no payment row; that is not an error.
	if err := s.Payments.DeleteByReservationTx(ctx, tx, reservationID); err != nil {
		return nil, err
	}
	if err := s.Reservations.DeleteTx(ctx, tx, reservationID); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, ErrCancelFailed
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &CancelResult{
		ReservationID: reservationID,
		ScreeningID:   res.ScreeningID,
		TicketCount:   res.TicketCount,
	}, nil
}
