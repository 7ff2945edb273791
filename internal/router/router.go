package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // echo handles routing
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-ticket-reservation/internal/config"
	"github.com/iliyamo/movie-ticket-reservation/internal/handler"
	"github.com/iliyamo/movie-ticket-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check
// used by load balancers to verify that the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers authentication endpoints. Unauthenticated
// operations live under /v1/auth; the protected /v1/me endpoint
// requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated browse endpoints. The
// listing routes are read-only projections, so they sit behind the
// Redis response cache and the token-bucket rate limiter; both degrade
// to no-ops when Redis is unavailable.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, rdb *redis.Client) {
	g := e.Group(
		"/v1",
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	)
	g.GET("/movies", p.ListMovies)
	g.GET("/screenings", p.ListScreenings)
	g.GET("/screenings/available", p.ListAvailableScreenings)
}

// RegisterAdmin registers admin-scoped endpoints under /v1. All routes
// require a valid JWT and the admin role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("admin"),
	)
	g.POST("/movies", a.AddMovie)
	g.DELETE("/movies/:id", a.DeleteMovie)
	g.POST("/screenings", a.AddScreening)
	g.DELETE("/screenings/:id", a.DeleteScreening)
}

// RegisterCustomer registers customer-scoped endpoints under /v1.
// Admins are also accepted so an operator account can exercise the
// booking flow.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("customer", "admin"),
	)
	g.POST("/reservations", h.Book)
	g.DELETE("/reservations/:id", h.Cancel)
	g.GET("/reservations", h.ListReservations)
	g.GET("/me/profile", h.Profile)
}
