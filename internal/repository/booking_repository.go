package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/marcrz/naviera-booking/internal/model"
)

// BookingRepo stores seat claims. Bookings are created and mutated only
// through the reservation ledger, always inside a transaction together
// with the trip seat state change.
type BookingRepo struct {
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

func (r *BookingRepo) DB() *sql.DB { return r.db }

type BookingFilter struct {
	ID         *uint64
	UserID     *uint64
	Username   *string // substring
	TripID     *uint64
	TripSeatID *uint64
	SeatNumber *int
	CompanyID  *uint64
	Origin     *string // substring
	Destiny    *string // substring
	Paid       *bool
	Status     *string
	Reference  *string
	Created    TimeRange
}

// CreateTx inserts a booking inside the caller's transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO bookings (trip_seat_id, user_id, reference, paid, status, expires_at) VALUES (?,?,?,?,?,?)",
		b.TripSeatID, b.UserID, b.Reference, b.Paid, b.Status, b.ExpiresAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return tx.QueryRowContext(ctx, "SELECT created_at, updated_at FROM bookings WHERE id=?", b.ID).
		Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	return scanBooking(r.db.QueryRowContext(ctx, selectBooking+" WHERE id=?", id))
}

// GetForUpdateTx loads a booking with a row lock inside the caller's
// transaction.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
	return scanBooking(tx.QueryRowContext(ctx, selectBooking+" WHERE id=? FOR UPDATE", id))
}

// GetActiveByTripSeatTx returns the active booking holding a trip seat, if
// any, locked for update.
func (r *BookingRepo) GetActiveByTripSeatTx(ctx context.Context, tx *sql.Tx, tripSeatID uint64) (*model.Booking, error) {
	return scanBooking(tx.QueryRowContext(ctx,
		selectBooking+" WHERE trip_seat_id=? AND status=? FOR UPDATE", tripSeatID, model.BookingActive))
}

const selectBooking = "SELECT id, trip_seat_id, user_id, reference, paid, status, expires_at, created_at, updated_at FROM bookings"

func scanBooking(row *sql.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.TripSeatID, &b.UserID, &b.Reference, &b.Paid, &b.Status,
		&b.ExpiresAt, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// MarkPaidTx flips the booking to paid.
func (r *BookingRepo) MarkPaidTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, "UPDATE bookings SET paid=1 WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// CancelTx marks the booking cancelled.
func (r *BookingRepo) CancelTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, "UPDATE bookings SET status=? WHERE id=?", model.BookingCancelled, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// ListDueIDs returns bookings whose hold has lapsed: active, unpaid, and
// past their deadline. The sweep expires them one transaction each.
func (r *BookingRepo) ListDueIDs(ctx context.Context, now time.Time, limit int) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id FROM bookings WHERE status=? AND paid=0 AND expires_at <= ? ORDER BY expires_at LIMIT ?",
		model.BookingActive, now.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type BookingDetail struct {
	ID            uint64    `json:"id"`
	TripSeatID    uint64    `json:"tripSeat_id"`
	TripID        uint64    `json:"trip_id"`
	SeatNumber    int       `json:"seat_number"`
	Origin        string    `json:"origin"`
	Destiny       string    `json:"destiny"`
	DateDeparture time.Time `json:"dateDeparture"`
	UserID        uint64    `json:"user_id"`
	Username      string    `json:"user_username"`
	Reference     string    `json:"reference"`
	Paid          bool      `json:"paid"`
	Status        string    `json:"status"`
	ExpiresAt     time.Time `json:"expires_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func selectBookings(f BookingFilter) sq.SelectBuilder {
	b := sq.Select("b.id", "b.trip_seat_id", "ts.trip_id", "se.number",
		"ro.origin", "ro.destiny", "t.date_departure",
		"b.user_id", "u.username", "b.reference", "b.paid", "b.status",
		"b.expires_at", "b.created_at", "b.updated_at").
		From("bookings b").
		Join("trip_seats ts ON ts.id = b.trip_seat_id").
		Join("trips t ON t.id = ts.trip_id").
		Join("routes ro ON ro.id = t.route_id").
		Join("seats se ON se.id = ts.seat_id").
		Join("users u ON u.id = b.user_id")
	if f.ID != nil {
		b = b.Where(sq.Eq{"b.id": *f.ID})
	}
	if f.UserID != nil {
		b = b.Where(sq.Eq{"b.user_id": *f.UserID})
	}
	if f.Username != nil {
		b = b.Where(sq.Like{"u.username": contains(*f.Username)})
	}
	if f.TripID != nil {
		b = b.Where(sq.Eq{"ts.trip_id": *f.TripID})
	}
	if f.TripSeatID != nil {
		b = b.Where(sq.Eq{"b.trip_seat_id": *f.TripSeatID})
	}
	if f.SeatNumber != nil {
		b = b.Where(sq.Eq{"se.number": *f.SeatNumber})
	}
	if f.CompanyID != nil {
		b = b.Where(sq.Eq{"ro.company_id": *f.CompanyID})
	}
	if f.Origin != nil {
		b = b.Where(sq.Like{"ro.origin": contains(*f.Origin)})
	}
	if f.Destiny != nil {
		b = b.Where(sq.Like{"ro.destiny": contains(*f.Destiny)})
	}
	if f.Paid != nil {
		b = b.Where(sq.Eq{"b.paid": *f.Paid})
	}
	if f.Status != nil {
		b = b.Where(sq.Eq{"b.status": *f.Status})
	}
	if f.Reference != nil {
		b = b.Where(sq.Eq{"b.reference": *f.Reference})
	}
	b = f.Created.apply(b, "b.created_at")
	return b.OrderBy("b.id")
}

func (r *BookingRepo) List(ctx context.Context, f BookingFilter) ([]BookingDetail, error) {
	query, args, err := selectBookings(f).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		if err := rows.Scan(&d.ID, &d.TripSeatID, &d.TripID, &d.SeatNumber,
			&d.Origin, &d.Destiny, &d.DateDeparture,
			&d.UserID, &d.Username, &d.Reference, &d.Paid, &d.Status,
			&d.ExpiresAt, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
