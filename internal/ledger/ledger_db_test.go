package ledger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcrz/naviera-booking/internal/model"
	"github.com/marcrz/naviera-booking/internal/repository"
)

const seatPrice = 42.5

type ledgerHarness struct {
	ledger *Ledger
	store  *memStore
	now    time.Time
}

func newHarness(t *testing.T) *ledgerHarness {
	t.Helper()
	h := &ledgerHarness{
		store: newMemStore(),
		now:   time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC),
	}
	db := openMemDB(t, h.store)
	h.ledger = New(
		repository.NewTripSeatRepo(db),
		repository.NewBookingRepo(db),
		repository.NewPaymentRepo(db),
		repository.NewUserCompanyRepo(db),
		15*time.Minute,
	)
	h.ledger.now = func() time.Time { return h.now }
	return h
}

func (h *ledgerHarness) seedSeat(id uint64, state string) {
	h.store.seats[id] = &seatRow{
		id: id, tripID: 100, seatID: id, state: state,
		created: h.now, updated: h.now,
	}
	h.store.prices[id] = seatPrice
	h.store.companies[id] = 9
}

func (h *ledgerHarness) seedBooking(id, seatID, userID uint64, paid bool, expires time.Time) {
	h.store.bookings[id] = &bookingRow{
		id: id, tripSeatID: seatID, userID: userID,
		reference: fmt.Sprintf("ref-%d", id),
		paid:      paid, status: model.BookingActive,
		expires: expires, created: h.now, updated: h.now,
	}
	if id > h.store.lastBookingID {
		h.store.lastBookingID = id
	}
}

func TestReserveClaimsAvailableSeat(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seedSeat(1, model.SeatStateAvailable)

	b, err := h.ledger.Reserve(ctx, 1, 77)
	require.NoError(t, err)
	assert.Equal(t, uint64(77), b.UserID)
	assert.Equal(t, model.BookingActive, b.Status)
	assert.False(t, b.Paid)
	assert.NotEmpty(t, b.Reference)
	assert.Equal(t, h.now.Add(15*time.Minute), b.ExpiresAt)

	assert.Equal(t, model.SeatStateReserved, h.store.seats[1].state)
	require.Contains(t, h.store.bookings, b.ID)
}

func TestReserveConflictsWhileHoldLive(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seedSeat(1, model.SeatStateReserved)
	h.seedBooking(5, 1, 42, false, h.now.Add(5*time.Minute))

	_, err := h.ledger.Reserve(ctx, 1, 77)
	assert.ErrorIs(t, err, ErrSeatUnavailable)

	assert.Equal(t, model.BookingActive, h.store.bookings[5].status)
	assert.Equal(t, model.SeatStateReserved, h.store.seats[1].state)
}

func TestReserveTakesOverLapsedHold(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seedSeat(1, model.SeatStateReserved)
	h.seedBooking(5, 1, 42, false, h.now.Add(-time.Minute))

	b, err := h.ledger.Reserve(ctx, 1, 77)
	require.NoError(t, err)
	assert.NotEqual(t, uint64(5), b.ID)
	assert.Equal(t, uint64(77), b.UserID)

	assert.Equal(t, model.BookingCancelled, h.store.bookings[5].status)
	assert.Equal(t, model.BookingActive, h.store.bookings[b.ID].status)
	assert.Equal(t, model.SeatStateReserved, h.store.seats[1].state)
}

func TestReserveReleasesOrphanedHold(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seedSeat(1, model.SeatStateReserved)

	b, err := h.ledger.Reserve(ctx, 1, 77)
	require.NoError(t, err)
	assert.Equal(t, model.SeatStateReserved, h.store.seats[1].state)
	assert.Equal(t, model.BookingActive, h.store.bookings[b.ID].status)
}

func TestReserveRejectsOccupiedSeat(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seedSeat(1, model.SeatStateOccupied)

	_, err := h.ledger.Reserve(ctx, 1, 77)
	assert.ErrorIs(t, err, ErrSeatUnavailable)
	assert.Empty(t, h.store.bookings)
}

func TestConfirmPaymentSettlesBooking(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seedSeat(1, model.SeatStateAvailable)
	b, err := h.ledger.Reserve(ctx, 1, 77)
	require.NoError(t, err)

	method := uint64(3)
	p, err := h.ledger.ConfirmPayment(ctx, b.ID, 77, &method)
	require.NoError(t, err)
	assert.Equal(t, b.ID, p.BookingID)
	assert.Equal(t, seatPrice, p.Amount)
	require.NotNil(t, p.MethodID)
	assert.Equal(t, method, *p.MethodID)
	assert.NotEmpty(t, p.Reference)

	assert.Equal(t, model.SeatStateOccupied, h.store.seats[1].state)
	assert.True(t, h.store.bookings[b.ID].paid)
}

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seedSeat(1, model.SeatStateAvailable)
	b, err := h.ledger.Reserve(ctx, 1, 77)
	require.NoError(t, err)

	first, err := h.ledger.ConfirmPayment(ctx, b.ID, 77, nil)
	require.NoError(t, err)
	second, err := h.ledger.ConfirmPayment(ctx, b.ID, 77, nil)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Reference, second.Reference)
	assert.Len(t, h.store.payments, 1)
}

func TestConfirmPaymentOwnerOnly(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seedSeat(1, model.SeatStateAvailable)
	b, err := h.ledger.Reserve(ctx, 1, 77)
	require.NoError(t, err)

	_, err = h.ledger.ConfirmPayment(ctx, b.ID, 99, nil)
	assert.ErrorIs(t, err, repository.ErrForbidden)

	assert.Equal(t, model.SeatStateReserved, h.store.seats[1].state)
	assert.False(t, h.store.bookings[b.ID].paid)
	assert.Empty(t, h.store.payments)
}

func TestConfirmPaymentAfterHoldLapses(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seedSeat(1, model.SeatStateAvailable)
	b, err := h.ledger.Reserve(ctx, 1, 77)
	require.NoError(t, err)

	h.now = h.now.Add(16 * time.Minute)
	_, err = h.ledger.ConfirmPayment(ctx, b.ID, 77, nil)
	assert.ErrorIs(t, err, ErrHoldExpired)

	assert.Equal(t, model.BookingCancelled, h.store.bookings[b.ID].status)
	assert.Equal(t, model.SeatStateAvailable, h.store.seats[1].state)
	assert.Empty(t, h.store.payments)
}

func TestCancelByOwnerFreesSeat(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seedSeat(1, model.SeatStateAvailable)
	b, err := h.ledger.Reserve(ctx, 1, 77)
	require.NoError(t, err)

	got, err := h.ledger.Cancel(ctx, b.ID, 77)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, got.Status)
	assert.Equal(t, model.BookingCancelled, h.store.bookings[b.ID].status)
	assert.Equal(t, model.SeatStateAvailable, h.store.seats[1].state)
}

func TestCancelByCompanyMember(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seedSeat(1, model.SeatStateAvailable)
	b, err := h.ledger.Reserve(ctx, 1, 77)
	require.NoError(t, err)
	h.store.members[[2]uint64{55, 9}] = true

	_, err = h.ledger.Cancel(ctx, b.ID, 55)
	require.NoError(t, err)
	assert.Equal(t, model.SeatStateAvailable, h.store.seats[1].state)
}

func TestCancelForbiddenForStrangers(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seedSeat(1, model.SeatStateAvailable)
	b, err := h.ledger.Reserve(ctx, 1, 77)
	require.NoError(t, err)

	_, err = h.ledger.Cancel(ctx, b.ID, 99)
	assert.ErrorIs(t, err, repository.ErrForbidden)
	assert.Equal(t, model.BookingActive, h.store.bookings[b.ID].status)
	assert.Equal(t, model.SeatStateReserved, h.store.seats[1].state)
}

func TestCancelPaidBooking(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seedSeat(1, model.SeatStateAvailable)
	b, err := h.ledger.Reserve(ctx, 1, 77)
	require.NoError(t, err)
	_, err = h.ledger.ConfirmPayment(ctx, b.ID, 77, nil)
	require.NoError(t, err)

	_, err = h.ledger.Cancel(ctx, b.ID, 77)
	assert.ErrorIs(t, err, ErrAlreadyPaid)
	assert.Equal(t, model.SeatStateOccupied, h.store.seats[1].state)
	assert.True(t, h.store.bookings[b.ID].paid)
}

func TestCancelTwiceIsNoop(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seedSeat(1, model.SeatStateAvailable)
	b, err := h.ledger.Reserve(ctx, 1, 77)
	require.NoError(t, err)
	_, err = h.ledger.Cancel(ctx, b.ID, 77)
	require.NoError(t, err)

	got, err := h.ledger.Cancel(ctx, b.ID, 77)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, got.Status)
	assert.Equal(t, model.SeatStateAvailable, h.store.seats[1].state)
}

func TestExpireDueSweep(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seedSeat(1, model.SeatStateReserved)
	h.seedSeat(2, model.SeatStateReserved)
	h.seedSeat(3, model.SeatStateReserved)
	h.seedBooking(1, 1, 41, false, h.now.Add(-2*time.Minute))
	h.seedBooking(2, 2, 42, false, h.now.Add(-time.Minute))
	h.seedBooking(3, 3, 43, false, h.now.Add(10*time.Minute))

	n, err := h.ledger.ExpireDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, model.SeatStateAvailable, h.store.seats[1].state)
	assert.Equal(t, model.SeatStateAvailable, h.store.seats[2].state)
	assert.Equal(t, model.SeatStateReserved, h.store.seats[3].state)
	assert.Equal(t, model.BookingCancelled, h.store.bookings[1].status)
	assert.Equal(t, model.BookingCancelled, h.store.bookings[2].status)
	assert.Equal(t, model.BookingActive, h.store.bookings[3].status)
}

func TestExpireOneRechecksUnderLock(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seedSeat(1, model.SeatStateOccupied)
	h.seedBooking(1, 1, 41, true, h.now.Add(-time.Minute))

	require.NoError(t, h.ledger.expireOne(ctx, 1))
	assert.Equal(t, model.BookingActive, h.store.bookings[1].status)
	assert.True(t, h.store.bookings[1].paid)
	assert.Equal(t, model.SeatStateOccupied, h.store.seats[1].state)
}
