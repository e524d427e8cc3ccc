package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/marcrz/naviera-booking/internal/model"
)

// SeatTypeRepo manages seat classes of a ship and their surcharges.
type SeatTypeRepo struct {
	db *sql.DB
}

func NewSeatTypeRepo(db *sql.DB) *SeatTypeRepo { return &SeatTypeRepo{db: db} }

type SeatTypeFilter struct {
	ID          *uint64
	ShipID      *uint64
	ShipName    *string // substring
	ShipCompany *uint64
	Price       FloatBound
	IsFree      *bool // price == 0 shortcut
}

func (r *SeatTypeRepo) Create(ctx context.Context, st *model.SeatType) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO seat_types (ship_id, additional_price) VALUES (?,?)",
		st.ShipID, st.AdditionalPrice)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	st.ID = uint64(id)
	return r.db.QueryRowContext(ctx, "SELECT created_at, updated_at FROM seat_types WHERE id=?", st.ID).
		Scan(&st.CreatedAt, &st.UpdatedAt)
}

func (r *SeatTypeRepo) GetByID(ctx context.Context, id uint64) (*model.SeatType, error) {
	var st model.SeatType
	err := r.db.QueryRowContext(ctx,
		"SELECT id, ship_id, additional_price, created_at, updated_at FROM seat_types WHERE id=?", id).
		Scan(&st.ID, &st.ShipID, &st.AdditionalPrice, &st.CreatedAt, &st.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSeatTypeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *SeatTypeRepo) Update(ctx context.Context, st *model.SeatType) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE seat_types SET ship_id=?, additional_price=? WHERE id=?",
		st.ShipID, st.AdditionalPrice, st.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, st.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *SeatTypeRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM seat_types WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSeatTypeNotFound
	}
	return nil
}

type SeatTypeDetail struct {
	ID              uint64    `json:"id"`
	ShipID          uint64    `json:"ship_id"`
	ShipName        string    `json:"ship_name"`
	CompanyID       uint64    `json:"company_id"`
	AdditionalPrice float64   `json:"aditionalPrice"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (r *SeatTypeRepo) List(ctx context.Context, f SeatTypeFilter) ([]SeatTypeDetail, error) {
	b := sq.Select("st.id", "st.ship_id", "s.name", "s.company_id", "st.additional_price", "st.created_at", "st.updated_at").
		From("seat_types st").
		Join("ships s ON s.id = st.ship_id")
	if f.ID != nil {
		b = b.Where(sq.Eq{"st.id": *f.ID})
	}
	if f.ShipID != nil {
		b = b.Where(sq.Eq{"st.ship_id": *f.ShipID})
	}
	if f.ShipName != nil {
		b = b.Where(sq.Like{"s.name": contains(*f.ShipName)})
	}
	if f.ShipCompany != nil {
		b = b.Where(sq.Eq{"s.company_id": *f.ShipCompany})
	}
	b = f.Price.apply(b, "st.additional_price")
	if f.IsFree != nil {
		if *f.IsFree {
			b = b.Where(sq.Eq{"st.additional_price": 0})
		} else {
			b = b.Where(sq.NotEq{"st.additional_price": 0})
		}
	}

	query, args, err := b.OrderBy("st.id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]SeatTypeDetail, 0)
	for rows.Next() {
		var d SeatTypeDetail
		if err := rows.Scan(&d.ID, &d.ShipID, &d.ShipName, &d.CompanyID, &d.AdditionalPrice, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
