// Package ledger implements the seat reservation ledger: every trip seat
// state change goes through one of its operations, inside a transaction
// that locks the seat row first. Concurrent requests for the same seat
// serialize on that lock, so at most one active booking can hold a seat.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/marcrz/naviera-booking/internal/model"
	"github.com/marcrz/naviera-booking/internal/repository"
)

var (
	// ErrSeatUnavailable means the seat is not in 'disponible' and its
	// hold, if any, has not lapsed.
	ErrSeatUnavailable = errors.New("seat unavailable")
	// ErrInvalidState means the operation does not apply to the current
	// booking or seat state.
	ErrInvalidState = errors.New("invalid state transition")
	// ErrHoldExpired means the booking's hold lapsed before payment.
	ErrHoldExpired = errors.New("reservation hold expired")
	// ErrAlreadyPaid means a paid booking cannot be cancelled.
	ErrAlreadyPaid = errors.New("booking already paid")
)

// CanTransition reports whether a trip seat may move between two states.
// Reserve takes disponible to reservado, payment takes reservado to
// ocupado, and cancellation or expiry releases either back to disponible.
func CanTransition(from, to string) bool {
	switch from {
	case model.SeatStateAvailable:
		return to == model.SeatStateReserved
	case model.SeatStateReserved:
		return to == model.SeatStateOccupied || to == model.SeatStateAvailable
	case model.SeatStateOccupied:
		return to == model.SeatStateAvailable
	}
	return false
}

// holdLapsed reports whether an unpaid active booking's hold deadline has
// passed. Paid and cancelled bookings never lapse.
func holdLapsed(b *model.Booking, now time.Time) bool {
	return b.Status == model.BookingActive && !b.Paid && now.After(b.ExpiresAt)
}

// Ledger coordinates trip seats, bookings and payments.
type Ledger struct {
	tripSeats *repository.TripSeatRepo
	bookings  *repository.BookingRepo
	payments  *repository.PaymentRepo
	members   *repository.UserCompanyRepo
	holdTTL   time.Duration
	now       func() time.Time
}

func New(tripSeats *repository.TripSeatRepo, bookings *repository.BookingRepo,
	payments *repository.PaymentRepo, members *repository.UserCompanyRepo,
	holdTTL time.Duration) *Ledger {
	return &Ledger{
		tripSeats: tripSeats,
		bookings:  bookings,
		payments:  payments,
		members:   members,
		holdTTL:   holdTTL,
		now:       time.Now,
	}
}

// Reserve places a hold on a trip seat for a user. The seat must be
// 'disponible', or 'reservado' under a hold that has already lapsed (the
// stale hold is expired in the same transaction). Returns the new active
// booking with a fresh reference and deadline.
func (l *Ledger) Reserve(ctx context.Context, tripSeatID, userID uint64) (*model.Booking, error) {
	tx, err := l.bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	seat, err := l.tripSeats.GetForUpdateTx(ctx, tx, tripSeatID)
	if err != nil {
		return nil, err
	}

	now := l.now().UTC()
	switch seat.State {
	case model.SeatStateAvailable:
	case model.SeatStateReserved:
		prev, err := l.bookings.GetActiveByTripSeatTx(ctx, tx, tripSeatID)
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			// orphaned hold, release it below
		case err != nil:
			return nil, err
		case !holdLapsed(prev, now):
			return nil, ErrSeatUnavailable
		default:
			if err := l.bookings.CancelTx(ctx, tx, prev.ID); err != nil {
				return nil, err
			}
		}
		// MySQL counts changed rows, so a reservado->reservado CAS would
		// affect nothing; release the seat first under the row lock and
		// re-claim it from disponible like any other reserve
		if err := l.tripSeats.SetStateTx(ctx, tx, tripSeatID, model.SeatStateAvailable); err != nil {
			return nil, err
		}
	default:
		return nil, ErrSeatUnavailable
	}

	ok, err := l.tripSeats.CompareAndSetStateTx(ctx, tx, tripSeatID,
		model.SeatStateAvailable, model.SeatStateReserved)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSeatUnavailable
	}

	booking := &model.Booking{
		TripSeatID: tripSeatID,
		UserID:     userID,
		Reference:  uuid.NewString(),
		Paid:       false,
		Status:     model.BookingActive,
		ExpiresAt:  now.Add(l.holdTTL),
	}
	if err := l.bookings.CreateTx(ctx, tx, booking); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return booking, nil
}

// ConfirmPayment settles an active booking. Only the booking owner may
// pay. The call is idempotent: paying an already-paid booking returns the
// existing payment unchanged. A lapsed hold is expired instead of paid.
// The charged amount is the trip base price plus the seat type surcharge,
// computed inside the transaction.
func (l *Ledger) ConfirmPayment(ctx context.Context, bookingID, userID uint64, methodID *uint64) (*model.Payment, error) {
	// trip_seat_id never changes on a booking, so an unlocked read is
	// enough to know which seat row to lock
	peek, err := l.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	tx, err := l.bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// lock order across all ledger operations: trip seat, then booking
	if _, err := l.tripSeats.GetForUpdateTx(ctx, tx, peek.TripSeatID); err != nil {
		return nil, err
	}
	booking, err := l.bookings.GetForUpdateTx(ctx, tx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, repository.ErrForbidden
	}
	if booking.Paid {
		payment, err := l.payments.GetByBookingTx(ctx, tx, bookingID)
		if err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		committed = true
		return payment, nil
	}
	if booking.Status != model.BookingActive {
		return nil, ErrInvalidState
	}

	if holdLapsed(booking, l.now().UTC()) {
		if err := l.expireTx(ctx, tx, booking); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		committed = true
		return nil, ErrHoldExpired
	}

	ok, err := l.tripSeats.CompareAndSetStateTx(ctx, tx, booking.TripSeatID,
		model.SeatStateReserved, model.SeatStateOccupied)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidState
	}
	if err := l.bookings.MarkPaidTx(ctx, tx, bookingID); err != nil {
		return nil, err
	}

	amount, err := l.tripSeats.PriceTx(ctx, tx, booking.TripSeatID)
	if err != nil {
		return nil, err
	}
	payment := &model.Payment{
		MethodID:  methodID,
		BookingID: bookingID,
		Reference: uuid.NewString(),
		Amount:    amount,
	}
	if err := l.payments.CreateTx(ctx, tx, payment); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return payment, nil
}

// Cancel releases a booking and returns its seat to 'disponible'. The
// booking owner may always cancel; so may any member of the company
// operating the sailing. Paid bookings cannot be cancelled (refunds are
// out of scope). Cancelling an already cancelled booking is a no-op and
// returns the booking unchanged.
func (l *Ledger) Cancel(ctx context.Context, bookingID, userID uint64) (*model.Booking, error) {
	peek, err := l.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	tx, err := l.bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// lock order across all ledger operations: trip seat, then booking
	if _, err := l.tripSeats.GetForUpdateTx(ctx, tx, peek.TripSeatID); err != nil {
		return nil, err
	}
	booking, err := l.bookings.GetForUpdateTx(ctx, tx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		companyID, err := l.tripSeats.CompanyTx(ctx, tx, booking.TripSeatID)
		if err != nil {
			return nil, err
		}
		member, err := l.members.IsMember(ctx, userID, companyID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, repository.ErrForbidden
		}
	}
	if booking.Status == model.BookingCancelled {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		committed = true
		return booking, nil
	}
	if booking.Paid {
		return nil, ErrAlreadyPaid
	}

	if err := l.bookings.CancelTx(ctx, tx, booking.ID); err != nil {
		return nil, err
	}
	if _, err := l.tripSeats.CompareAndSetStateTx(ctx, tx, booking.TripSeatID,
		model.SeatStateReserved, model.SeatStateAvailable); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	booking.Status = model.BookingCancelled
	return booking, nil
}

// ExpireDue cancels every active unpaid booking whose hold deadline has
// passed, releasing the seats. Each booking is expired in its own
// transaction so one failure does not block the rest. Returns how many
// bookings were expired.
func (l *Ledger) ExpireDue(ctx context.Context) (int, error) {
	ids, err := l.bookings.ListDueIDs(ctx, l.now(), 500)
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, id := range ids {
		if err := l.expireOne(ctx, id); err != nil {
			return expired, err
		}
		expired++
	}
	return expired, nil
}

func (l *Ledger) expireOne(ctx context.Context, bookingID uint64) error {
	peek, err := l.bookings.GetByID(ctx, bookingID)
	if errors.Is(err, repository.ErrBookingNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	tx, err := l.bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// lock order across all ledger operations: trip seat, then booking
	if _, err := l.tripSeats.GetForUpdateTx(ctx, tx, peek.TripSeatID); err != nil {
		if errors.Is(err, repository.ErrTripSeatNotFound) {
			return nil
		}
		return err
	}
	booking, err := l.bookings.GetForUpdateTx(ctx, tx, bookingID)
	if errors.Is(err, repository.ErrBookingNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	// re-check under the lock, the booking may have been paid or
	// cancelled since the sweep listed it
	if !holdLapsed(booking, l.now().UTC()) {
		return nil
	}
	if err := l.expireTx(ctx, tx, booking); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (l *Ledger) expireTx(ctx context.Context, tx *sql.Tx, booking *model.Booking) error {
	if err := l.bookings.CancelTx(ctx, tx, booking.ID); err != nil {
		return err
	}
	_, err := l.tripSeats.CompareAndSetStateTx(ctx, tx, booking.TripSeatID,
		model.SeatStateReserved, model.SeatStateAvailable)
	return err
}
