package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/seat-reservation/internal/model"
	"github.com/iliyamo/seat-reservation/internal/repository"
)

// ReservationLister lists reservations across all users.
type ReservationLister interface {
	ListAll(ctx context.Context, f repository.ReservationFilter) ([]model.AdminReservationDetail, error)
}

// AdminReservationHandler serves the admin reservation overview.
type AdminReservationHandler struct {
	Reservations ReservationLister
	Log          *zap.Logger
}

func NewAdminReservationHandler(r ReservationLister, log *zap.Logger) *AdminReservationHandler {
	return &AdminReservationHandler{Reservations: r, Log: log.Named("admin_reservations")}
}

// List handles GET /v1/admin/reservations?date=&status=&user_id=.
func (h *AdminReservationHandler) List(c echo.Context) error {
	var f repository.ReservationFilter
	if s := c.QueryParam("date"); s != "" {
		d, err := model.ParseDate(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be a valid YYYY-MM-DD date"})
		}
		f.Date = d
	}
	if s := c.QueryParam("status"); s != "" {
		f.Status = model.ReservationStatus(s)
		if !f.Status.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be Active or Cancelled"})
		}
	}
	if s := c.QueryParam("user_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user_id"})
		}
		f.UserID = id
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Reservations.ListAll(ctx, f)
	if err != nil {
		return serverError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, items)
}
