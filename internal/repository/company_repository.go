// Package repository contains data access logic separated from HTTP
// handlers. Each repository wraps a *sql.DB and exposes typed CRUD plus a
// filtered List built with squirrel. List methods return flattened detail
// rows ready for JSON responses; create/update/get work on model structs.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/marcrz/naviera-booking/internal/model"
)

// CompanyRepo encapsulates all database queries related to companies.
type CompanyRepo struct {
	db *sql.DB
}

func NewCompanyRepo(db *sql.DB) *CompanyRepo { return &CompanyRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions that
// span multiple repositories.
func (r *CompanyRepo) DB() *sql.DB { return r.db }

// CompanyFilter is the conjunction of optional list predicates.
type CompanyFilter struct {
	Name        *string // substring
	Email       *string // substring
	Address     *string // substring
	PhoneNumber *string // substring
	Description *string // substring
	HasLogo     *bool
	Created     TimeRange
}

// Create inserts a company and reads back the generated ID and timestamps.
func (r *CompanyRepo) Create(ctx context.Context, c *model.Company) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO companies (name, email, address, phone_number, logo, description) VALUES (?,?,?,?,?,?)",
		c.Name, c.Email, c.Address, c.PhoneNumber, c.Logo, c.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM companies WHERE id=?", c.ID).
		Scan(&c.CreatedAt, &c.UpdatedAt)
}

// GetByID returns a company or ErrCompanyNotFound.
func (r *CompanyRepo) GetByID(ctx context.Context, id uint64) (*model.Company, error) {
	var c model.Company
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, email, address, phone_number, logo, description, created_at, updated_at FROM companies WHERE id=?",
		id).Scan(&c.ID, &c.Name, &c.Email, &c.Address, &c.PhoneNumber, &c.Logo, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCompanyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Update overwrites the mutable columns of a company.
func (r *CompanyRepo) Update(ctx context.Context, c *model.Company) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE companies SET name=?, email=?, address=?, phone_number=?, logo=?, description=? WHERE id=?",
		c.Name, c.Email, c.Address, c.PhoneNumber, c.Logo, c.Description, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is 0 both for a missing row and a no-op update, so
		// double-check existence before reporting not found.
		if _, err := r.GetByID(ctx, c.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a company. Ships, routes and everything scheduled on them
// cascade at the schema level.
func (r *CompanyRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM companies WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

// CompanyDetail is the list/read projection of a company.
type CompanyDetail struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Email       *string   `json:"email"`
	Address     string    `json:"address"`
	PhoneNumber string    `json:"phoneNumber"`
	Logo        *string   `json:"logo"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// List returns companies matching the filter, ordered by id.
func (r *CompanyRepo) List(ctx context.Context, f CompanyFilter) ([]CompanyDetail, error) {
	b := sq.Select("id", "name", "email", "address", "phone_number", "logo", "description", "created_at", "updated_at").
		From("companies")
	if f.Name != nil {
		b = b.Where(sq.Like{"name": contains(*f.Name)})
	}
	if f.Email != nil {
		b = b.Where(sq.Like{"email": contains(*f.Email)})
	}
	if f.Address != nil {
		b = b.Where(sq.Like{"address": contains(*f.Address)})
	}
	if f.PhoneNumber != nil {
		b = b.Where(sq.Like{"phone_number": contains(*f.PhoneNumber)})
	}
	if f.Description != nil {
		b = b.Where(sq.Like{"description": contains(*f.Description)})
	}
	if f.HasLogo != nil {
		if *f.HasLogo {
			b = b.Where(sq.And{sq.NotEq{"logo": nil}, sq.NotEq{"logo": ""}})
		} else {
			b = b.Where(sq.Or{sq.Eq{"logo": nil}, sq.Eq{"logo": ""}})
		}
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

	items := make([]CompanyDetail, 0)
	for rows.Next() {
		var d CompanyDetail
		if err := rows.Scan(&d.ID, &d.Name, &d.Email, &d.Address, &d.PhoneNumber, &d.Logo, &d.Description, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
