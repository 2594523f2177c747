package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-reservation/internal/handler"
	"github.com/iliyamo/seat-reservation/internal/middleware"
	"github.com/iliyamo/seat-reservation/internal/model"
)

// RegisterIntern registers the booking endpoints under /v1.  All routes
// require a valid JWT; interns and admins may book.  limiter guards the
// routes that write reservations.
func RegisterIntern(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleIntern, model.RoleAdmin),
	)
	g.GET("/seats", h.AvailableSeats)
	g.GET("/reservations", h.ListMine)
	g.POST("/reservations", h.Book, limiter)
	g.PUT("/reservations/:id/cancel", h.Cancel, limiter)
}
