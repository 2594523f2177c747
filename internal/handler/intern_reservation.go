package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/seat-reservation/internal/model"
)

// Booker is the reservation side of the booking engine.
type Booker interface {
	Book(ctx context.Context, userID, seatID uint64, date string) (*model.Reservation, error)
	Cancel(ctx context.Context, userID, reservationID uint64) (*model.Reservation, error)
	ListMine(ctx context.Context, userID uint64) ([]model.ReservationDetail, error)
}

// AvailabilityResolver lists free seats for a day.
type AvailabilityResolver interface {
	ListAvailable(ctx context.Context, date string) ([]model.Seat, error)
}

// ReservationHandler serves the intern booking endpoints.
type ReservationHandler struct {
	Booker   Booker
	Resolver AvailabilityResolver
	Log      *zap.Logger
}

func NewReservationHandler(b Booker, r AvailabilityResolver, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{Booker: b, Resolver: r, Log: log.Named("reservations")}
}

type bookReq struct {
	SeatID          uint64 `json:"seat_id" validate:"required"`
	ReservationDate string `json:"reservation_date" validate:"required"`
}

type cancelResp struct {
	Message     string             `json:"message"`
	Reservation *model.Reservation `json:"reservation"`
}

// AvailableSeats handles GET /v1/seats?date=YYYY-MM-DD.
func (h *ReservationHandler) AvailableSeats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	seats, err := h.Resolver.ListAvailable(ctx, c.QueryParam("date"))
	if err != nil {
		return bookingError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, seats)
}

// Book handles POST /v1/reservations.
func (h *ReservationHandler) Book(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	r, err := h.Booker.Book(ctx, uid, req.SeatID, req.ReservationDate)
	if err != nil {
		return bookingError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, r)
}

// ListMine handles GET /v1/reservations.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Booker.ListMine(ctx, uid)
	if err != nil {
		return serverError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, items)
}

// Cancel handles PUT /v1/reservations/:id/cancel.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	r, err := h.Booker.Cancel(ctx, uid, id)
	if err != nil {
		return bookingError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, cancelResp{Message: "Reservation cancelled.", Reservation: r})
}
