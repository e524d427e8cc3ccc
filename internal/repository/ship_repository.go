package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/marcrz/naviera-booking/internal/model"
)

// ShipRepo manages the ships of a company.
type ShipRepo struct {
	db *sql.DB
}

func NewShipRepo(db *sql.DB) *ShipRepo { return &ShipRepo{db: db} }

type ShipFilter struct {
	ID          *uint64
	CompanyID   *uint64
	CompanyName *string // substring
	Name        *string // substring
	Year        IntBound
}

func (r *ShipRepo) Create(ctx context.Context, s *model.Ship) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO ships (company_id, name, construction_year) VALUES (?,?,?)",
		s.CompanyID, s.Name, s.ConstructionYear)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return r.db.QueryRowContext(ctx, "SELECT created_at, updated_at FROM ships WHERE id=?", s.ID).
		Scan(&s.CreatedAt, &s.UpdatedAt)
}

func (r *ShipRepo) GetByID(ctx context.Context, id uint64) (*model.Ship, error) {
	var s model.Ship
	err := r.db.QueryRowContext(ctx,
		"SELECT id, company_id, name, construction_year, created_at, updated_at FROM ships WHERE id=?", id).
		Scan(&s.ID, &s.CompanyID, &s.Name, &s.ConstructionYear, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShipNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ShipRepo) Update(ctx context.Context, s *model.Ship) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE ships SET company_id=?, name=?, construction_year=? WHERE id=?",
		s.CompanyID, s.Name, s.ConstructionYear, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, s.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *ShipRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM ships WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShipNotFound
	}
	return nil
}

type ShipDetail struct {
	ID               uint64    `json:"id"`
	CompanyID        uint64    `json:"company_id"`
	CompanyName      string    `json:"company_name"`
	Name             string    `json:"name"`
	ConstructionYear int       `json:"construction_year"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (r *ShipRepo) List(ctx context.Context, f ShipFilter) ([]ShipDetail, error) {
	b := sq.Select("s.id", "s.company_id", "c.name", "s.name", "s.construction_year", "s.created_at", "s.updated_at").
		From("ships s").
		Join("companies c ON c.id = s.company_id")
	if f.ID != nil {
		b = b.Where(sq.Eq{"s.id": *f.ID})
	}
	if f.CompanyID != nil {
		b = b.Where(sq.Eq{"s.company_id": *f.CompanyID})
	}
	if f.CompanyName != nil {
		b = b.Where(sq.Like{"c.name": contains(*f.CompanyName)})
	}
	if f.Name != nil {
		b = b.Where(sq.Like{"s.name": contains(*f.Name)})
	}
	b = f.Year.apply(b, "s.construction_year")

	query, args, err := b.OrderBy("s.id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]ShipDetail, 0)
	for rows.Next() {
		var d ShipDetail
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.CompanyName, &d.Name, &d.ConstructionYear, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
