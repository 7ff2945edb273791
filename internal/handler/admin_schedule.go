package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/iliyamo/movie-ticket-reservation/internal/model"
	"github.com/iliyamo/movie-ticket-reservation/internal/repository"
	"github.com/labstack/echo/v4"
)

// AddScreening handles POST /v1/screenings and schedules a new
// screening of a movie in a room. Scheduling is rejected with 409
// Conflict when another screening in the same room on the same date
// starts within 180 minutes of the requested time.
func (h *AdminHandler) AddScreening(c echo.Context) error {
	var body struct {
		MovieID    uint64 `json:"movie_id"`
		Date       string `json:"date"` // "2006-01-02"
		Time       string `json:"time"` // "15:04" or "15:04:05"
		RoomNumber int    `json:"room_number"`
		Capacity   int    `json:"capacity"`
		PriceCents uint32 `json:"price_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.MovieID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id is required"})
	}
	if _, err := time.Parse("2006-01-02", body.Date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date format"})
	}
	clock, err := normalizeClock(body.Time)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid time format"})
	}
	if body.RoomNumber <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_number must be positive"})
	}
	if body.Capacity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
	}
	sc := &model.Screening{
		MovieID:    body.MovieID,
		ShowDate:   body.Date,
		ShowTime:   clock,
		RoomNumber: body.RoomNumber,
		Capacity:   body.Capacity,
		PriceCents: body.PriceCents,
	}
	if err := h.ScreeningRepo.Create(c.Request().Context(), sc); err != nil {
		switch {
		case errors.Is(err, repository.ErrMovieNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		case errors.Is(err, repository.ErrScheduleConflict):
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "cannot schedule a screening in room " + strconv.Itoa(body.RoomNumber) +
					" within 3 hours of an existing screening",
			})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create screening"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":      "Screening added successfully!",
		"screening_id": sc.ID,
	})
}

// DeleteScreening handles DELETE /v1/screenings/:id.
func (h *AdminHandler) DeleteScreening(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid screening id"})
	}
	if err := h.ScreeningRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrScreeningNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "screening not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Screening deleted successfully!"})
}

// normalizeClock accepts "15:04" or "15:04:05" and returns the value in
// the TIME column format "15:04:05".
func normalizeClock(s string) (string, error) {
	if t, err := time.Parse("15:04:05", s); err == nil {
		return t.Format("15:04:05"), nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return "", err
	}
	return t.Format("15:04:05"), nil
}
