package handler

import (
	"errors"   // errors.Is comparisons against service and repository sentinels
	"net/http" // HTTP status codes
	"strconv"  // parsing path parameters
	"time"     // event timestamps

	"github.com/iliyamo/movie-ticket-reservation/internal/queue"
	"github.com/iliyamo/movie-ticket-reservation/internal/repository"
	"github.com/iliyamo/movie-ticket-reservation/internal/service"
	"github.com/labstack/echo/v4"
)

// CustomerHandler exposes booking, cancellation, reservation history
// and profile endpoints for customers. All methods assume that JWT
// authentication and role validation have already been performed by
// middleware; they may return 401 Unauthorized when no identity can be
// extracted from the context. The transactional work happens in the
// booking service; this layer only binds requests and renders results.
type CustomerHandler struct {
	Booking      *service.BookingService
	Reservations *repository.ReservationRepo
	Users        *repository.UserRepo
}

// NewCustomerHandler constructs a CustomerHandler with the provided
// dependencies. All dependencies must be non-nil.
func NewCustomerHandler(booking *service.BookingService, reservations *repository.ReservationRepo, users *repository.UserRepo) *CustomerHandler {
	if booking == nil || reservations == nil || users == nil {
		panic("nil dependency passed to NewCustomerHandler")
	}
	return &CustomerHandler{Booking: booking, Reservations: reservations, Users: users}
}

// Book handles POST /v1/reservations. The request body carries the
// screening, the ticket count and the 5-digit payment token; the user
// is taken from the JWT. On success a reservation.confirmed event is
// published; publish failures are logged by the publisher and never
// fail the request, since the booking has already committed.
func (h *CustomerHandler) Book(c echo.Context) error {
	username, err := getUsername(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		ScreeningID uint64 `json:"screening_id"`
		TicketCount int    `json:"ticket_count"`
		CardNumber  string `json:"card_number"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ScreeningID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "screening_id is required"})
	}

	result, err := h.Booking.Book(c.Request().Context(), username, body.ScreeningID, body.TicketCount, body.CardNumber)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrScreeningNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "screening not found"})
		case errors.Is(err, repository.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		case errors.Is(err, service.ErrScreeningStarted):
			return c.JSON(http.StatusConflict, echo.Map{"error": "the screening has already started"})
		case errors.Is(err, repository.ErrInsufficientSeats):
			return c.JSON(http.StatusConflict, echo.Map{"error": "not enough seats remaining for this screening"})
		case errors.Is(err, service.ErrTimeslotTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "you already have a reservation at this date and time"})
		case errors.Is(err, service.ErrInvalidTicketCount):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket count must be positive"})
		case errors.Is(err, service.ErrInvalidPayment):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment card number; must be exactly 5 digits"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
		}
	}

	_ = service.PublishReservationConfirmed(c.Request().Context(), queue.ReservationConfirmedEvent{
		ReservationID: result.ReservationID,
		ScreeningID:   result.ScreeningID,
		Username:      username,
		TicketCount:   result.TicketCount,
		AmountCents:   result.AmountCents,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"message":        "Booking and payment processed successfully! Reservation ID: " + strconv.FormatUint(result.ReservationID, 10),
		"reservation_id": result.ReservationID,
		"amount_cents":   result.AmountCents,
	})
}

// Cancel handles DELETE /v1/reservations/:id. Only the reservation's
// owner may cancel it, and only up to one hour before screening start.
func (h *CustomerHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	result, err := h.Booking.Cancel(c.Request().Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReservationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, repository.ErrScreeningNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "screening not found for this reservation"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, service.ErrScreeningStarted):
			return c.JSON(http.StatusConflict, echo.Map{"error": "cannot cancel reservations for past screenings"})
		case errors.Is(err, service.ErrTooLateToCancel):
			return c.JSON(http.StatusConflict, echo.Map{"error": "cancellation is only allowed at least 1 hour before the screening"})
		case errors.Is(err, service.ErrCancelFailed):
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation could not be cancelled"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancellation failed"})
		}
	}

	_ = service.PublishReservationCancelled(c.Request().Context(), queue.ReservationCancelledEvent{
		ReservationID: result.ReservationID,
		ScreeningID:   result.ScreeningID,
		TicketCount:   result.TicketCount,
		CancelledAt:   time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "Reservation cancelled successfully."})
}

// ListReservations handles GET /v1/reservations and returns the
// authenticated customer's booking history.
func (h *CustomerHandler) ListReservations(c echo.Context) error {
	username, err := getUsername(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Reservations.ListByUsername(c.Request().Context(), username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	type reservationResp struct {
		ID          uint64 `json:"id"`
		Details     string `json:"details"`
		TicketCount int    `json:"ticket_count"`
		CreatedAt   string `json:"created_at"`
	}
	out := make([]reservationResp, 0, len(items))
	for _, it := range items {
		out = append(out, reservationResp{
			ID:          it.ID,
			Details:     it.Details,
			TicketCount: it.TicketCount,
			CreatedAt:   it.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}

// Profile handles GET /v1/me/profile.
func (h *CustomerHandler) Profile(c echo.Context) error {
	username, err := getUsername(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	p, err := h.Users.Profile(c.Request().Context(), username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, p)
}
