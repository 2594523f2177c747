package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iliyamo/seat-reservation/internal/model"
	"github.com/iliyamo/seat-reservation/internal/repository"
)

// SeatRegistry is the admin view of the seat inventory.
type SeatRegistry interface {
	Create(ctx context.Context, s *model.Seat) error
	List(ctx context.Context) ([]model.Seat, error)
	Delete(ctx context.Context, id uint64) error
}

// AdminSeatHandler serves seat CRUD for admins.
type AdminSeatHandler struct {
	Seats SeatRegistry
	Log   *zap.Logger
}

func NewAdminSeatHandler(seats SeatRegistry, log *zap.Logger) *AdminSeatHandler {
	return &AdminSeatHandler{Seats: seats, Log: log.Named("admin_seats")}
}

type createSeatReq struct {
	SeatNumber   string `json:"seat_number" validate:"required,max=20"`
	LocationArea string `json:"location_area" validate:"required,max=100"`
}

// Create handles POST /v1/admin/seats.
func (h *AdminSeatHandler) Create(c echo.Context) error {
	var req createSeatReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	seat := &model.Seat{
		SeatNumber:   strings.ToUpper(strings.TrimSpace(req.SeatNumber)),
		LocationArea: strings.TrimSpace(req.LocationArea),
	}
	if seat.SeatNumber == "" || seat.LocationArea == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_number and location_area are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Seats.Create(ctx, seat); err != nil {
		if errors.Is(err, repository.ErrSeatNumberExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat number already exists"})
		}
		return serverError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, seat)
}

// List handles GET /v1/admin/seats.
func (h *AdminSeatHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	seats, err := h.Seats.List(ctx)
	if err != nil {
		return serverError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, seats)
}

// Delete handles DELETE /v1/admin/seats/:id.  Seats with reservations
// cannot be deleted because reservations are kept forever.
func (h *AdminSeatHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch err := h.Seats.Delete(ctx, id); {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, repository.ErrSeatNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat has reservations and cannot be deleted"})
	default:
		return serverError(c, h.Log, err)
	}
}
