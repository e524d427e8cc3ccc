package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/marcrz/naviera-booking/internal/model"
)

// TripRepo manages scheduled sailings. Creating a trip also materializes
// its bookable trip seats: one row per seat of the ship the trip's seat
// template belongs to, all starting in 'disponible'. Both inserts happen
// in one transaction so a sailing is never visible half-populated.
type TripRepo struct {
	db    *sql.DB
	seats *SeatRepo
}

func NewTripRepo(db *sql.DB, seats *SeatRepo) *TripRepo { return &TripRepo{db: db, seats: seats} }

func (r *TripRepo) DB() *sql.DB { return r.db }

type TripFilter struct {
	ID          *uint64
	RouteID     *uint64
	Origin      *string // substring on route origin
	Destiny     *string // substring on route destiny
	CompanyID   *uint64
	CompanyName *string // substring
	SeatID      *uint64
	SeatNumber  *int
	ShipID      *uint64
	BasePrice   FloatBound
	Departure   TimeRange
	DepartureAt *time.Time // exact departure
}

// Create schedules a sailing and its trip seats.
func (r *TripRepo) Create(ctx context.Context, t *model.Trip) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO trips (route_id, seat_id, base_price, date_departure) VALUES (?,?,?,?)",
		t.RouteID, t.SeatID, t.BasePrice, t.DateDeparture.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)

	shipID, err := r.seats.GetShipBySeatTx(ctx, tx, t.SeatID)
	if err != nil {
		return err
	}

	seatIDs, err := r.seats.ListIDsByShipTx(ctx, tx, shipID)
	if err != nil {
		return err
	}
	if len(seatIDs) > 0 {
		query := "INSERT INTO trip_seats (trip_id, seat_id, state) VALUES "
		args := make([]interface{}, 0, len(seatIDs)*3)
		placeholders := make([]string, 0, len(seatIDs))
		for _, sid := range seatIDs {
			placeholders = append(placeholders, "(?, ?, ?)")
			args = append(args, t.ID, sid, model.SeatStateAvailable)
		}
		if _, err := tx.ExecContext(ctx, query+strings.Join(placeholders, ","), args...); err != nil {
			return err
		}
	}

	if err := tx.QueryRowContext(ctx, "SELECT created_at, updated_at FROM trips WHERE id=?", t.ID).
		Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r *TripRepo) GetByID(ctx context.Context, id uint64) (*model.Trip, error) {
	var t model.Trip
	err := r.db.QueryRowContext(ctx,
		"SELECT id, route_id, seat_id, base_price, date_departure, created_at, updated_at FROM trips WHERE id=?", id).
		Scan(&t.ID, &t.RouteID, &t.SeatID, &t.BasePrice, &t.DateDeparture, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTripNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TripRepo) Update(ctx context.Context, t *model.Trip) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE trips SET route_id=?, seat_id=?, base_price=?, date_departure=? WHERE id=?",
		t.RouteID, t.SeatID, t.BasePrice, t.DateDeparture.UTC(), t.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, t.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *TripRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM trips WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTripNotFound
	}
	return nil
}

type TripDetail struct {
	ID            uint64    `json:"id"`
	RouteID       uint64    `json:"route_id"`
	Origin        string    `json:"origin"`
	Destiny       string    `json:"destiny"`
	CompanyID     uint64    `json:"company_id"`
	CompanyName   string    `json:"company_name"`
	SeatID        uint64    `json:"seat_id"`
	SeatNumber    int       `json:"seat_number"`
	BasePrice     float64   `json:"basePrice"`
	DateDeparture time.Time `json:"dateDeparture"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (r *TripRepo) List(ctx context.Context, f TripFilter) ([]TripDetail, error) {
	b := sq.Select("t.id", "t.route_id", "ro.origin", "ro.destiny", "ro.company_id", "c.name",
		"t.seat_id", "se.number", "t.base_price", "t.date_departure", "t.created_at", "t.updated_at").
		From("trips t").
		Join("routes ro ON ro.id = t.route_id").
		Join("companies c ON c.id = ro.company_id").
		Join("seats se ON se.id = t.seat_id").
		Join("seat_types st ON st.id = se.seat_type_id")
	if f.ID != nil {
		b = b.Where(sq.Eq{"t.id": *f.ID})
	}
	if f.RouteID != nil {
		b = b.Where(sq.Eq{"t.route_id": *f.RouteID})
	}
	if f.Origin != nil {
		b = b.Where(sq.Like{"ro.origin": contains(*f.Origin)})
	}
	if f.Destiny != nil {
		b = b.Where(sq.Like{"ro.destiny": contains(*f.Destiny)})
	}
	if f.CompanyID != nil {
		b = b.Where(sq.Eq{"ro.company_id": *f.CompanyID})
	}
	if f.CompanyName != nil {
		b = b.Where(sq.Like{"c.name": contains(*f.CompanyName)})
	}
	if f.SeatID != nil {
		b = b.Where(sq.Eq{"t.seat_id": *f.SeatID})
	}
	if f.SeatNumber != nil {
		b = b.Where(sq.Eq{"se.number": *f.SeatNumber})
	}
	if f.ShipID != nil {
		b = b.Where(sq.Eq{"st.ship_id": *f.ShipID})
	}
	b = f.BasePrice.apply(b, "t.base_price")
	b = f.Departure.apply(b, "t.date_departure")
	if f.DepartureAt != nil {
		b = b.Where(sq.Eq{"t.date_departure": f.DepartureAt.UTC()})
	}

	query, args, err := b.OrderBy("t.id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]TripDetail, 0)
	for rows.Next() {
		var d TripDetail
		if err := rows.Scan(&d.ID, &d.RouteID, &d.Origin, &d.Destiny, &d.CompanyID, &d.CompanyName,
			&d.SeatID, &d.SeatNumber, &d.BasePrice, &d.DateDeparture, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
