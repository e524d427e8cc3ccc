package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/marcrz/naviera-booking/internal/model"
)

// PaymentMethodRepo manages settlement channels.
type PaymentMethodRepo struct {
	db *sql.DB
}

func NewPaymentMethodRepo(db *sql.DB) *PaymentMethodRepo { return &PaymentMethodRepo{db: db} }

type PaymentMethodFilter struct {
	Name        *string // substring
	Description *string // substring
	Created     TimeRange
}

func (r *PaymentMethodRepo) Create(ctx context.Context, m *model.PaymentMethod) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO payment_methods (name, description) VALUES (?,?)",
		m.Name, m.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return r.db.QueryRowContext(ctx, "SELECT created_at, updated_at FROM payment_methods WHERE id=?", m.ID).
		Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (r *PaymentMethodRepo) GetByID(ctx context.Context, id uint64) (*model.PaymentMethod, error) {
	var m model.PaymentMethod
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, description, created_at, updated_at FROM payment_methods WHERE id=?", id).
		Scan(&m.ID, &m.Name, &m.Description, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentMethodNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PaymentMethodRepo) Update(ctx context.Context, m *model.PaymentMethod) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE payment_methods SET name=?, description=? WHERE id=?",
		m.Name, m.Description, m.ID)
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

func (r *PaymentMethodRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM payment_methods WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPaymentMethodNotFound
	}
	return nil
}

type PaymentMethodDetail struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func selectPaymentMethods(f PaymentMethodFilter) sq.SelectBuilder {
	b := sq.Select("id", "name", "description", "created_at", "updated_at").From("payment_methods")
	if f.Name != nil {
		b = b.Where(sq.Like{"name": contains(*f.Name)})
	}
	if f.Description != nil {
		b = b.Where(sq.Like{"description": contains(*f.Description)})
	}
	b = f.Created.apply(b, "created_at")
	return b.OrderBy("id")
}

func (r *PaymentMethodRepo) List(ctx context.Context, f PaymentMethodFilter) ([]PaymentMethodDetail, error) {
	query, args, err := selectPaymentMethods(f).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]PaymentMethodDetail, 0)
	for rows.Next() {
		var d PaymentMethodDetail
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
