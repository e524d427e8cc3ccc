package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/marcrz/naviera-booking/internal/model"
)

// RolRepo manages the role catalogue referenced by company memberships.
type RolRepo struct {
	db *sql.DB
}

func NewRolRepo(db *sql.DB) *RolRepo { return &RolRepo{db: db} }

type RolFilter struct {
	Name    *string // substring
	Created TimeRange
}

func (r *RolRepo) Create(ctx context.Context, m *model.Rol) error {
	res, err := r.db.ExecContext(ctx, "INSERT INTO roles (name) VALUES (?)", m.Name)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return r.db.QueryRowContext(ctx, "SELECT created_at, updated_at FROM roles WHERE id=?", m.ID).
		Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (r *RolRepo) GetByID(ctx context.Context, id uint64) (*model.Rol, error) {
	var m model.Rol
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, created_at, updated_at FROM roles WHERE id=?", id).
		Scan(&m.ID, &m.Name, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRolNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *RolRepo) Update(ctx context.Context, m *model.Rol) error {
	res, err := r.db.ExecContext(ctx, "UPDATE roles SET name=? WHERE id=?", m.Name, m.ID)
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

func (r *RolRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM roles WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRolNotFound
	}
	return nil
}

type RolDetail struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *RolRepo) List(ctx context.Context, f RolFilter) ([]RolDetail, error) {
	b := sq.Select("id", "name", "created_at", "updated_at").From("roles")
	if f.Name != nil {
		b = b.Where(sq.Like{"name": contains(*f.Name)})
	}
	b = f.Created.apply(b, "created_at")

	query, args, err := b.OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]RolDetail, 0)
	for rows.Next() {
		var d RolDetail
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
