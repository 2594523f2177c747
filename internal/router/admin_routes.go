package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-reservation/internal/handler"
	"github.com/iliyamo/seat-reservation/internal/middleware"
	"github.com/iliyamo/seat-reservation/internal/model"
)

// seatsNamespace groups cached seat listings so writes can purge them.
const seatsNamespace = "seats"

// RegisterAdmin registers Admin-scoped endpoints under /v1/admin.  The
// seat list is served from the response cache and purged whenever the
// inventory changes.
func RegisterAdmin(e *echo.Echo, s *handler.AdminSeatHandler, r *handler.AdminReservationHandler, jwtSecret string, cache *middleware.ResponseCache) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	// ---- Seats ----
	g.GET("/seats", s.List, cache.Cache(seatsNamespace))
	g.POST("/seats", s.Create, cache.Purge(seatsNamespace))
	g.DELETE("/seats/:id", s.Delete, cache.Purge(seatsNamespace))

	// ---- Reservations ----
	g.GET("/reservations", r.List)
}
