// Package handler defines unauthenticated browse endpoints. These are
// thin read-only projections over the catalog and the schedule; no
// transaction boundary is needed beyond the store's own read
// consistency. They are fronted by the Redis response cache and the
// rate limiter registered in the router.
package handler

import (
	"net/http"

	"github.com/iliyamo/movie-ticket-reservation/internal/model"
	"github.com/iliyamo/movie-ticket-reservation/internal/repository"
	"github.com/labstack/echo/v4"
)

// PublicHandler bundles repositories for guest browsing.
type PublicHandler struct {
	MovieRepo     *repository.MovieRepo
	ScreeningRepo *repository.ScreeningRepo
}

// NewPublicHandler constructs a PublicHandler with the provided
// repositories.
func NewPublicHandler(movieRepo *repository.MovieRepo, screeningRepo *repository.ScreeningRepo) *PublicHandler {
	if movieRepo == nil || screeningRepo == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{MovieRepo: movieRepo, ScreeningRepo: screeningRepo}
}

type movieResp struct {
	ID     uint64 `json:"id"`
	Title  string `json:"title"`
	Rating int    `json:"rating"`
	Info   string `json:"info"`
}

type screeningResp struct {
	ID             uint64 `json:"id"`
	MovieTitle     string `json:"movie_title"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	RoomNumber     int    `json:"room_number"`
	SeatsRemaining int    `json:"seats_remaining"`
	PriceCents     uint32 `json:"price_cents"`
}

// ListMovies handles GET /v1/movies.
func (h *PublicHandler) ListMovies(c echo.Context) error {
	movies, err := h.MovieRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]movieResp, 0, len(movies))
	for _, m := range movies {
		out = append(out, movieResp{ID: m.ID, Title: m.Title, Rating: m.Rating, Info: m.Info})
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": out})
}

// ListScreenings handles GET /v1/screenings.
func (h *PublicHandler) ListScreenings(c echo.Context) error {
	screenings, err := h.ScreeningRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"screenings": toScreeningResp(screenings)})
}

// ListAvailableScreenings handles GET /v1/screenings/available; it
// filters out screenings with no seats remaining.
func (h *PublicHandler) ListAvailableScreenings(c echo.Context) error {
	screenings, err := h.ScreeningRepo.ListAvailable(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"screenings": toScreeningResp(screenings)})
}

func toScreeningResp(in []model.ScreeningSummary) []screeningResp {
	out := make([]screeningResp, 0, len(in))
	for _, s := range in {
		out = append(out, screeningResp{
			ID:             s.ID,
			MovieTitle:     s.MovieTitle,
			Date:           s.ShowDate,
			Time:           s.ShowTime,
			RoomNumber:     s.RoomNumber,
			SeatsRemaining: s.SeatsRemaining,
			PriceCents:     s.PriceCents,
		})
	}
	return out
}
