package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marcrz/naviera-booking/internal/repository"
)

// PaymentHandler exposes settlements read-only: payments are created only
// by the reservation ledger when a booking is paid.
type PaymentHandler struct {
	Payments *repository.PaymentRepo
}

func NewPaymentHandler(r *repository.PaymentRepo) *PaymentHandler {
	return &PaymentHandler{Payments: r}
}

func (h *PaymentHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	items, err := h.Payments.List(c.Request().Context(), repository.PaymentFilter{ID: &id})
	if err != nil {
		return repoError(c, err)
	}
	if len(items) == 0 {
		return repoError(c, repository.ErrPaymentNotFound)
	}
	return c.JSON(http.StatusOK, items[0])
}

func (h *PaymentHandler) List(c echo.Context) error {
	f := repository.PaymentFilter{
		BookingID: qUint64(c, "booking"),
		UserID:    qUint64(c, "user"),
		MethodID:  qUint64(c, "method"),
		TripID:    qUint64(c, "trip_id"),
		CompanyID: qUint64(c, "company"),
		HasMethod: qBool(c, "has_method"),
		Reference: qStr(c, "reference"),
		Amount: repository.FloatBound{
			Eq:  qFloat(c, "amount"),
			Min: qFloat(c, "amount_min"),
			Max: qFloat(c, "amount_max"),
		},
		Created: repository.TimeRange{
			After:  qTime(c, "created_after"),
			Before: qTime(c, "created_before"),
		},
	}
	items, err := h.Payments.List(c.Request().Context(), f)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}
