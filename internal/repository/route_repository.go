package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/marcrz/naviera-booking/internal/model"
)

// RouteRepo manages sailing corridors.
type RouteRepo struct {
	db *sql.DB
}

func NewRouteRepo(db *sql.DB) *RouteRepo { return &RouteRepo{db: db} }

type RouteFilter struct {
	ID           *uint64
	CompanyID    *uint64
	CompanyName  *string // substring
	Origin       *string // substring
	Destiny      *string // substring
	OriginExact  *string
	DestinyExact *string
	Search       *string // substring against origin OR destiny
}

func (r *RouteRepo) Create(ctx context.Context, m *model.Route) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO routes (company_id, origin, destiny) VALUES (?,?,?)",
		m.CompanyID, m.Origin, m.Destiny)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return r.db.QueryRowContext(ctx, "SELECT created_at, updated_at FROM routes WHERE id=?", m.ID).
		Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (r *RouteRepo) GetByID(ctx context.Context, id uint64) (*model.Route, error) {
	var m model.Route
	err := r.db.QueryRowContext(ctx,
		"SELECT id, company_id, origin, destiny, created_at, updated_at FROM routes WHERE id=?", id).
		Scan(&m.ID, &m.CompanyID, &m.Origin, &m.Destiny, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRouteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *RouteRepo) Update(ctx context.Context, m *model.Route) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE routes SET company_id=?, origin=?, destiny=? WHERE id=?",
		m.CompanyID, m.Origin, m.Destiny, m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, m.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *RouteRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM routes WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRouteNotFound
	}
	return nil
}

type RouteDetail struct {
	ID          uint64    `json:"id"`
	CompanyID   uint64    `json:"company_id"`
	CompanyName string    `json:"company_name"`
	Origin      string    `json:"origin"`
	Destiny     string    `json:"destiny"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (r *RouteRepo) List(ctx context.Context, f RouteFilter) ([]RouteDetail, error) {
	b := sq.Select("r.id", "r.company_id", "c.name", "r.origin", "r.destiny", "r.created_at", "r.updated_at").
		From("routes r").
		Join("companies c ON c.id = r.company_id")
	if f.ID != nil {
		b = b.Where(sq.Eq{"r.id": *f.ID})
	}
	if f.CompanyID != nil {
		b = b.Where(sq.Eq{"r.company_id": *f.CompanyID})
	}
	if f.CompanyName != nil {
		b = b.Where(sq.Like{"c.name": contains(*f.CompanyName)})
	}
	if f.Origin != nil {
		b = b.Where(sq.Like{"r.origin": contains(*f.Origin)})
	}
	if f.Destiny != nil {
		b = b.Where(sq.Like{"r.destiny": contains(*f.Destiny)})
	}
	if f.OriginExact != nil {
		b = b.Where(sq.Eq{"r.origin": *f.OriginExact})
	}
	if f.DestinyExact != nil {
		b = b.Where(sq.Eq{"r.destiny": *f.DestinyExact})
	}
	if f.Search != nil {
		needle := contains(*f.Search)
		b = b.Where(sq.Or{sq.Like{"r.origin": needle}, sq.Like{"r.destiny": needle}})
	}

	query, args, err := b.OrderBy("r.id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]RouteDetail, 0)
	for rows.Next() {
		var d RouteDetail
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.CompanyName, &d.Origin, &d.Destiny, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
