// Package repository defines the data access layer and the sentinel
// error values shared across its repositories. Higher layers compare
// against these with errors.Is to distinguish failure scenarios: the
// booking service rolls back its transaction and the handlers translate
// each sentinel into a specific HTTP status and message. No operation
// ever reports an "unknown" outcome; anything that is not one of these
// sentinels is a store error surfaced as-is.
package repository

import "errors"

// ErrDuplicateTitle is returned when adding a movie whose exact title
// already exists in the catalog.
var ErrDuplicateTitle = errors.New("movie title already exists")

// ErrMovieNotFound is returned when a movie lookup or delete matches
// no row.
var ErrMovieNotFound = errors.New("movie not found")

// ErrScheduleConflict is returned when a new screening would start
// within 180 minutes of an existing screening in the same room on the
// same date.
var ErrScheduleConflict = errors.New("screening schedule conflict")

// ErrScreeningNotFound is returned when a screening lookup or delete
// matches no row.
var ErrScreeningNotFound = errors.New("screening not found")

// ErrInsufficientSeats is returned when the conditional seat decrement
// affects no rows because fewer seats remain than were requested.
var ErrInsufficientSeats = errors.New("not enough seats remaining")

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")

// ErrUsernameExists is returned when registering a username that is
// already taken.
var ErrUsernameExists = errors.New("username already exists")

// ErrReservationNotFound is returned when a reservation lookup or
// delete matches no row.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, such as cancelling another customer's
// reservation. Handlers translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")
