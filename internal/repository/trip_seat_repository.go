package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/marcrz/naviera-booking/internal/model"
)

// TripSeatRepo reads the per-sailing seat inventory. Rows are created by
// TripRepo.Create and their state only moves through the reservation
// ledger, so there is no free-form state update here.
type TripSeatRepo struct {
	db *sql.DB
}

func NewTripSeatRepo(db *sql.DB) *TripSeatRepo { return &TripSeatRepo{db: db} }

func (r *TripSeatRepo) DB() *sql.DB { return r.db }

type TripSeatFilter struct {
	ID         *uint64
	TripID     *uint64
	SeatID     *uint64
	SeatNumber *int
	ShipID     *uint64
	CompanyID  *uint64
	State      *string
	Available  *bool // state == disponible shortcut
	Origin     *string
	Destiny    *string
}

func (r *TripSeatRepo) GetByID(ctx context.Context, id uint64) (*model.TripSeat, error) {
	var ts model.TripSeat
	err := r.db.QueryRowContext(ctx,
		"SELECT id, trip_id, seat_id, state, created_at, updated_at FROM trip_seats WHERE id=?", id).
		Scan(&ts.ID, &ts.TripID, &ts.SeatID, &ts.State, &ts.CreatedAt, &ts.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTripSeatNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// GetForUpdateTx loads a trip seat inside the caller's transaction with a
// row lock, serializing concurrent reservation attempts on the same seat.
func (r *TripSeatRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.TripSeat, error) {
	var ts model.TripSeat
	err := tx.QueryRowContext(ctx,
		"SELECT id, trip_id, seat_id, state, created_at, updated_at FROM trip_seats WHERE id=? FOR UPDATE", id).
		Scan(&ts.ID, &ts.TripID, &ts.SeatID, &ts.State, &ts.CreatedAt, &ts.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTripSeatNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// CompareAndSetStateTx moves a trip seat from one state to another only if
// it is still in the expected state. Returns false when another writer got
// there first.
func (r *TripSeatRepo) CompareAndSetStateTx(ctx context.Context, tx *sql.Tx, id uint64, from, to string) (bool, error) {
	res, err := tx.ExecContext(ctx,
		"UPDATE trip_seats SET state=? WHERE id=? AND state=?", to, id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// SetStateTx overwrites the state unconditionally. Reserved for ledger
// paths that already hold the row lock and are changing the value: MySQL
// reports changed rows, so writing the current state back would look like
// a missing row.
func (r *TripSeatRepo) SetStateTx(ctx context.Context, tx *sql.Tx, id uint64, state string) error {
	res, err := tx.ExecContext(ctx, "UPDATE trip_seats SET state=? WHERE id=?", state, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTripSeatNotFound
	}
	return nil
}

/// PriceTx computes the effective price of a trip seat: the trip base
// price plus the seat type surcharge.
func (r *TripSeatRepo) PriceTx(ctx context.Context, tx *sql.Tx, id uint64) (float64, error) {
	var price float64
	err := tx.QueryRowContext(ctx,
		`SELECT t.base_price + st.additional_price
		 FROM trip_seats ts
		 JOIN trips t ON t.id = ts.trip_id
		 JOIN seats se ON se.id = ts.seat_id
		 JOIN seat_types st ON st.id = se.seat_type_id
		 WHERE ts.id = ?`, id).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrTripSeatNotFound
	}
	return price, err
}

// CompanyTx resolves the company operating the sailing a trip seat
// belongs to.
func (r *TripSeatRepo) CompanyTx(ctx context.Context, tx *sql.Tx, id uint64) (uint64, error) {
	var companyID uint64
	err := tx.QueryRowContext(ctx,
		`SELECT ro.company_id
		 FROM trip_seats ts
		 JOIN trips t ON t.id = ts.trip_id
		 JOIN routes ro ON ro.id = t.route_id
		 WHERE ts.id = ?`, id).Scan(&companyID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrTripSeatNotFound
	}
	return companyID, err
}

func (r *TripSeatRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM trip_seats WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTripSeatNotFound
	}
	return nil
}

type TripSeatDetail struct {
	ID            uint64    `json:"id"`
	TripID        uint64    `json:"trip_id"`
	SeatID        uint64    `json:"seat_id"`
	SeatNumber    int       `json:"seat_number"`
	State         string    `json:"state"`
	Origin        string    `json:"origin"`
	Destiny       string    `json:"destiny"`
	BasePrice     float64   `json:"basePrice"`
	TotalPrice    float64   `json:"total_price"`
	DateDeparture time.Time `json:"dateDeparture"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func selectTripSeats(f TripSeatFilter) sq.SelectBuilder {
	b := sq.Select("ts.id", "ts.trip_id", "ts.seat_id", "se.number", "ts.state",
		"ro.origin", "ro.destiny", "t.base_price", "t.base_price + st.additional_price",
		"t.date_departure", "ts.created_at", "ts.updated_at").
		From("trip_seats ts").
		Join("trips t ON t.id = ts.trip_id").
		Join("routes ro ON ro.id = t.route_id").
		Join("seats se ON se.id = ts.seat_id").
		Join("seat_types st ON st.id = se.seat_type_id")
	if f.ID != nil {
		b = b.Where(sq.Eq{"ts.id": *f.ID})
	}
	if f.TripID != nil {
		b = b.Where(sq.Eq{"ts.trip_id": *f.TripID})
	}
	if f.SeatID != nil {
		b = b.Where(sq.Eq{"ts.seat_id": *f.SeatID})
	}
	if f.SeatNumber != nil {
		b = b.Where(sq.Eq{"se.number": *f.SeatNumber})
	}
	if f.ShipID != nil {
		b = b.Where(sq.Eq{"st.ship_id": *f.ShipID})
	}
	if f.CompanyID != nil {
		b = b.Where(sq.Eq{"ro.company_id": *f.CompanyID})
	}
	if f.State != nil {
		b = b.Where(sq.Eq{"ts.state": *f.State})
	}
	if f.Available != nil {
		if *f.Available {
			b = b.Where(sq.Eq{"ts.state": model.SeatStateAvailable})
		} else {
			b = b.Where(sq.NotEq{"ts.state": model.SeatStateAvailable})
		}
	}
	if f.Origin != nil {
		b = b.Where(sq.Like{"ro.origin": contains(*f.Origin)})
	}
	if f.Destiny != nil {
		b = b.Where(sq.Like{"ro.destiny": contains(*f.Destiny)})
	}
	return b.OrderBy("ts.id")
}

// List returns trip seats with their sailing context and effective price
// (trip base price plus the seat type surcharge).
func (r *TripSeatRepo) List(ctx context.Context, f TripSeatFilter) ([]TripSeatDetail, error) {
	query, args, err := selectTripSeats(f).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]TripSeatDetail, 0)
	for rows.Next() {
		var d TripSeatDetail
		if err := rows.Scan(&d.ID, &d.TripID, &d.SeatID, &d.SeatNumber, &d.State,
			&d.Origin, &d.Destiny, &d.BasePrice, &d.TotalPrice,
			&d.DateDeparture, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
