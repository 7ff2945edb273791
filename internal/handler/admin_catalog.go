// Package handler defines HTTP handlers for authenticated admin
// operations. This file implements catalog management: adding movies
// and removing them together with every screening that references
// them.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/iliyamo/movie-ticket-reservation/internal/repository"
	"github.com/labstack/echo/v4"
)

// AdminHandler bundles repositories for admins to manage the catalog
// and the screening schedule.
type AdminHandler struct {
	MovieRepo     *repository.MovieRepo
	ScreeningRepo *repository.ScreeningRepo
}

// NewAdminHandler constructs a new AdminHandler and panics if any
// dependency is nil.
func NewAdminHandler(movieRepo *repository.MovieRepo, screeningRepo *repository.ScreeningRepo) *AdminHandler {
	if movieRepo == nil || screeningRepo == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{MovieRepo: movieRepo, ScreeningRepo: screeningRepo}
}

// AddMovie handles POST /v1/movies. The rating is clamped to [1,5] by
// the repository; submitting a duplicate title returns 409 Conflict.
func (h *AdminHandler) AddMovie(c echo.Context) error {
	var body struct {
		Title  string `json:"title"`
		Rating int    `json:"rating"`
		Info   string `json:"info"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Title = strings.TrimSpace(body.Title)
	if body.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	id, err := h.MovieRepo.Create(c.Request().Context(), body.Title, body.Rating, body.Info)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateTitle) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "a movie with this title already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create movie"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "Movie added successfully!",
		"movie_id": id,
	})
}

// DeleteMovie handles DELETE /v1/movies/:id. The movie and all of its
// screenings are removed in one transaction; a missing movie returns
// 404 with no screenings deleted.
func (h *AdminHandler) DeleteMovie(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	if err := h.MovieRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Movie and all associated screenings deleted successfully!",
	})
}
