package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/marcrz/naviera-booking/internal/ledger"
	"github.com/marcrz/naviera-booking/internal/middleware"
	"github.com/marcrz/naviera-booking/internal/model"
	"github.com/marcrz/naviera-booking/internal/queue"
	"github.com/marcrz/naviera-booking/internal/repository"
	queuepub "github.com/marcrz/naviera-booking/internal/service"
)

// BookingHandler serves bookings and the reservation endpoints. All state
// transitions delegate to the ledger; events are published after commit,
// best effort.
type BookingHandler struct {
	Ledger    *ledger.Ledger
	Bookings  *repository.BookingRepo
	TripSeats *repository.TripSeatRepo
	Payments  *repository.PaymentRepo
}

func NewBookingHandler(l *ledger.Ledger, b *repository.BookingRepo,
	ts *repository.TripSeatRepo, p *repository.PaymentRepo) *BookingHandler {
	return &BookingHandler{Ledger: l, Bookings: b, TripSeats: ts, Payments: p}
}

// Reserve places a hold on a trip seat for the authenticated user.
// POST /v1/trip-seats/:id/reserve
func (h *BookingHandler) Reserve(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
	}
	tripSeatID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	booking, err := h.Ledger.Reserve(c.Request().Context(), tripSeatID, uid)
	if err != nil {
		if errors.Is(err, ledger.ErrSeatUnavailable) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat unavailable"})
		}
		return repoError(c, err)
	}

	h.publishReserved(booking)
	return h.detail(c, booking.ID, http.StatusCreated)
}

type payReq struct {
	MethodID *uint64 `json:"method_id"`
}

// Pay settles a booking. Idempotent: paying a paid booking returns the
// existing payment.
// POST /v1/bookings/:id/pay
func (h *BookingHandler) Pay(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
	}
	bookingID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req payReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	payment, err := h.Ledger.ConfirmPayment(c.Request().Context(), bookingID, uid, req.MethodID)
	switch {
	case errors.Is(err, ledger.ErrHoldExpired):
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation hold expired"})
	case errors.Is(err, ledger.ErrInvalidState):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not payable"})
	case err != nil:
		return repoError(c, err)
	}

	h.publishSettled(payment)

	items, err := h.Payments.List(c.Request().Context(), repository.PaymentFilter{ID: &payment.ID})
	if err != nil || len(items) == 0 {
		return repoError(c, repository.ErrPaymentNotFound)
	}
	return c.JSON(http.StatusOK, items[0])
}

// Cancel releases a booking. Allowed for the owner and for members of the
// operating company.
// POST /v1/bookings/:id/cancel
func (h *BookingHandler) Cancel(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
	}
	bookingID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	booking, err := h.Ledger.Cancel(c.Request().Context(), bookingID, uid)
	switch {
	case errors.Is(err, ledger.ErrAlreadyPaid):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking already paid"})
	case err != nil:
		return repoError(c, err)
	}
	return h.detail(c, booking.ID, http.StatusOK)
}

func (h *BookingHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	return h.detail(c, id, http.StatusOK)
}

func (h *BookingHandler) List(c echo.Context) error {
	f := repository.BookingFilter{
		UserID:     qUint64(c, "user"),
		Username:   qStr(c, "username"),
		TripID:     qUint64(c, "trip_id"),
		TripSeatID: qUint64(c, "tripSeat"),
		SeatNumber: qInt(c, "seat_number"),
		CompanyID:  qUint64(c, "company"),
		Origin:     qStr(c, "origin"),
		Destiny:    qStr(c, "destiny"),
		Paid:       qBool(c, "paid"),
		Status:     qStr(c, "status"),
		Reference:  qStr(c, "reference"),
		Created: repository.TimeRange{
			After:  qTime(c, "created_after"),
			Before: qTime(c, "created_before"),
		},
	}
	items, err := h.Bookings.List(c.Request().Context(), f)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *BookingHandler) detail(c echo.Context, id uint64, status int) error {
	items, err := h.Bookings.List(c.Request().Context(), repository.BookingFilter{ID: &id})
	if err != nil {
		return repoError(c, err)
	}
	if len(items) == 0 {
		return repoError(c, repository.ErrBookingNotFound)
	}
	return c.JSON(status, items[0])
}

func (h *BookingHandler) publishReserved(b *model.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	seats, err := h.TripSeats.List(ctx, repository.TripSeatFilter{ID: &b.TripSeatID})
	if err != nil || len(seats) == 0 {
		log.Printf("booking: event context lookup failed for trip seat %d: %v", b.TripSeatID, err)
		return
	}
	seat := seats[0]
	ev := queue.BookingReservedEvent{
		BookingID:     b.ID,
		Reference:     b.Reference,
		UserID:        b.UserID,
		TripID:        seat.TripID,
		TripSeatID:    b.TripSeatID,
		SeatNumber:    seat.SeatNumber,
		Origin:        seat.Origin,
		Destiny:       seat.Destiny,
		DateDeparture: seat.DateDeparture.UTC().Format(time.RFC3339),
		TotalPrice:    seat.TotalPrice,
		ExpiresAt:     b.ExpiresAt.UTC().Format(time.RFC3339),
	}
	_ = queuepub.PublishBookingReserved(ctx, ev)
}

func (h *BookingHandler) publishSettled(p *model.Payment) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	booking, err := h.Bookings.GetByID(ctx, p.BookingID)
	if err != nil {
		log.Printf("booking: event context lookup failed for booking %d: %v", p.BookingID, err)
		return
	}
	ev := queue.PaymentSettledEvent{
		PaymentID:        p.ID,
		Reference:        p.Reference,
		BookingID:        p.BookingID,
		BookingReference: booking.Reference,
		UserID:           booking.UserID,
		Amount:           p.Amount,
		SettledAt:        p.CreatedAt.UTC().Format(time.RFC3339),
	}
	_ = queuepub.PublishPaymentSettled(ctx, ev)
}
