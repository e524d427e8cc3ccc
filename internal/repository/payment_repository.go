package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/marcrz/naviera-booking/internal/model"
)

// PaymentRepo stores settlements. A booking has at most one payment
// (unique key on booking_id); the ledger inserts it in the same
// transaction that marks the booking paid.
type PaymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

type PaymentFilter struct {
	ID        *uint64
	BookingID *uint64
	UserID    *uint64
	MethodID  *uint64
	TripID    *uint64
	CompanyID *uint64
	HasMethod *bool
	Reference *string
	Amount    FloatBound
	Created   TimeRange
}

// CreateTx inserts a payment inside the caller's transaction.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO payments (method_id, booking_id, reference, amount) VALUES (?,?,?,?)",
		p.MethodID, p.BookingID, p.Reference, p.Amount)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return tx.QueryRowContext(ctx, "SELECT created_at, updated_at FROM payments WHERE id=?", p.ID).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	return scanPayment(r.db.QueryRowContext(ctx, selectPayment+" WHERE id=?", id))
}

// GetByBookingTx returns the settlement of a booking, if one exists.
func (r *PaymentRepo) GetByBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (*model.Payment, error) {
	return scanPayment(tx.QueryRowContext(ctx, selectPayment+" WHERE booking_id=?", bookingID))
}

const selectPayment = "SELECT id, method_id, booking_id, reference, amount, created_at, updated_at FROM payments"

func scanPayment(row *sql.Row) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(&p.ID, &p.MethodID, &p.BookingID, &p.Reference, &p.Amount, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

type PaymentDetail struct {
	ID               uint64    `json:"id"`
	MethodID         *uint64   `json:"method_id"`
	MethodName       *string   `json:"method_name"`
	BookingID        uint64    `json:"booking_id"`
	BookingReference string    `json:"booking_reference"`
	UserID           uint64    `json:"user_id"`
	Username         string    `json:"user_username"`
	Reference        string    `json:"reference"`
	Amount           float64   `json:"amount"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func selectPayments(f PaymentFilter) sq.SelectBuilder {
	b := sq.Select("p.id", "p.method_id", "pm.name", "p.booking_id", "b.reference",
		"b.user_id", "u.username", "p.reference", "p.amount", "p.created_at", "p.updated_at").
		From("payments p").
		LeftJoin("payment_methods pm ON pm.id = p.method_id").
		Join("bookings b ON b.id = p.booking_id").
		Join("users u ON u.id = b.user_id").
		Join("trip_seats ts ON ts.id = b.trip_seat_id").
		Join("trips t ON t.id = ts.trip_id").
		Join("routes ro ON ro.id = t.route_id")
	if f.ID != nil {
		b = b.Where(sq.Eq{"p.id": *f.ID})
	}
	if f.BookingID != nil {
		b = b.Where(sq.Eq{"p.booking_id": *f.BookingID})
	}
	if f.UserID != nil {
		b = b.Where(sq.Eq{"b.user_id": *f.UserID})
	}
	if f.MethodID != nil {
		b = b.Where(sq.Eq{"p.method_id": *f.MethodID})
	}
	if f.TripID != nil {
		b = b.Where(sq.Eq{"ts.trip_id": *f.TripID})
	}
	if f.CompanyID != nil {
		b = b.Where(sq.Eq{"ro.company_id": *f.CompanyID})
	}
	if f.HasMethod != nil {
		if *f.HasMethod {
			b = b.Where(sq.NotEq{"p.method_id": nil})
		} else {
			b = b.Where(sq.Eq{"p.method_id": nil})
		}
	}
	if f.Reference != nil {
		b = b.Where(sq.Eq{"p.reference": *f.Reference})
	}
	b = f.Amount.apply(b, "p.amount")
	b = f.Created.apply(b, "p.created_at")
	return b.OrderBy("p.id")
}

func (r *PaymentRepo) List(ctx context.Context, f PaymentFilter) ([]PaymentDetail, error) {
	query, args, err := selectPayments(f).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]PaymentDetail, 0)
	for rows.Next() {
		var d PaymentDetail
		if err := rows.Scan(&d.ID, &d.MethodID, &d.MethodName, &d.BookingID, &d.BookingReference,
			&d.UserID, &d.Username, &d.Reference, &d.Amount, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
