package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marcrz/naviera-booking/internal/repository"
)

// TripSeatHandler exposes the per-sailing seat inventory. The resource is
// read-only over HTTP apart from deletion: seat states change only through
// the reservation endpoints.
type TripSeatHandler struct {
	TripSeats *repository.TripSeatRepo
}

func NewTripSeatHandler(r *repository.TripSeatRepo) *TripSeatHandler {
	return &TripSeatHandler{TripSeats: r}
}

func (h *TripSeatHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	items, err := h.TripSeats.List(c.Request().Context(), repository.TripSeatFilter{ID: &id})
	if err != nil {
		return repoError(c, err)
	}
	if len(items) == 0 {
		return repoError(c, repository.ErrTripSeatNotFound)
	}
	return c.JSON(http.StatusOK, items[0])
}

func (h *TripSeatHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.TripSeats.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *TripSeatHandler) List(c echo.Context) error {
	f := repository.TripSeatFilter{
		TripID:     qUint64(c, "trip"),
		SeatID:     qUint64(c, "seat"),
		SeatNumber: qInt(c, "seat_number"),
		ShipID:     qUint64(c, "ship"),
		CompanyID:  qUint64(c, "company"),
		State:      qStr(c, "state"),
		Available:  qBool(c, "available_seats"),
		Origin:     qStr(c, "origin"),
		Destiny:    qStr(c, "destiny"),
	}
	items, err := h.TripSeats.List(c.Request().Context(), f)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}
