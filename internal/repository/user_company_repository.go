package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/marcrz/naviera-booking/internal/model"
)

// UserCompanyRepo manages company memberships. Membership is what makes a
// user a company operator for the reservation ledger's cancel checks.
type UserCompanyRepo struct {
	db *sql.DB
}

func NewUserCompanyRepo(db *sql.DB) *UserCompanyRepo { return &UserCompanyRepo{db: db} }

type UserCompanyFilter struct {
	ID          *uint64
	CompanyID   *uint64
	CompanyName *string // substring
	UserID      *uint64
	Username    *string // substring
	UserEmail   *string // substring
	RolID       *uint64
	RolName     *string // substring
	HasRol      *bool
}

func (r *UserCompanyRepo) Create(ctx context.Context, m *model.UserCompany) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO user_companies (company_id, user_id, rol_id) VALUES (?,?,?)",
		m.CompanyID, m.UserID, m.RolID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return r.db.QueryRowContext(ctx, "SELECT created_at, updated_at FROM user_companies WHERE id=?", m.ID).
		Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (r *UserCompanyRepo) GetByID(ctx context.Context, id uint64) (*model.UserCompany, error) {
	var m model.UserCompany
	err := r.db.QueryRowContext(ctx,
		"SELECT id, company_id, user_id, rol_id, created_at, updated_at FROM user_companies WHERE id=?", id).
		Scan(&m.ID, &m.CompanyID, &m.UserID, &m.RolID, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserCompanyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *UserCompanyRepo) Update(ctx context.Context, m *model.UserCompany) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE user_companies SET company_id=?, user_id=?, rol_id=? WHERE id=?",
		m.CompanyID, m.UserID, m.RolID, m.ID)
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

func (r *UserCompanyRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM user_companies WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserCompanyNotFound
	}
	return nil
}

// IsMember reports whether the user has any membership row in the company.
// Used by the ledger to decide operator cancellations.
func (r *UserCompanyRepo) IsMember(ctx context.Context, userID, companyID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM user_companies WHERE user_id=? AND company_id=? LIMIT 1",
		userID, companyID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

type UserCompanyDetail struct {
	ID          uint64    `json:"id"`
	CompanyID   uint64    `json:"empresa_id"`
	CompanyName string    `json:"empresa_name"`
	UserID      uint64    `json:"user_id"`
	Username    string    `json:"user_username"`
	UserEmail   string    `json:"user_email"`
	RolID       *uint64   `json:"rol_id"`
	RolName     *string   `json:"rol_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (r *UserCompanyRepo) List(ctx context.Context, f UserCompanyFilter) ([]UserCompanyDetail, error) {
	b := sq.Select("uc.id", "uc.company_id", "c.name", "uc.user_id", "u.username", "u.email",
		"uc.rol_id", "ro.name", "uc.created_at", "uc.updated_at").
		From("user_companies uc").
		Join("companies c ON c.id = uc.company_id").
		Join("users u ON u.id = uc.user_id").
		LeftJoin("roles ro ON ro.id = uc.rol_id")
	if f.ID != nil {
		b = b.Where(sq.Eq{"uc.id": *f.ID})
	}
	if f.CompanyID != nil {
		b = b.Where(sq.Eq{"uc.company_id": *f.CompanyID})
	}
	if f.CompanyName != nil {
		b = b.Where(sq.Like{"c.name": contains(*f.CompanyName)})
	}
	if f.UserID != nil {
		b = b.Where(sq.Eq{"uc.user_id": *f.UserID})
	}
	if f.Username != nil {
		b = b.Where(sq.Like{"u.username": contains(*f.Username)})
	}
	if f.UserEmail != nil {
		b = b.Where(sq.Like{"u.email": contains(*f.UserEmail)})
	}
	if f.RolID != nil {
		b = b.Where(sq.Eq{"uc.rol_id": *f.RolID})
	}
	if f.RolName != nil {
		b = b.Where(sq.Like{"ro.name": contains(*f.RolName)})
	}
	if f.HasRol != nil {
		if *f.HasRol {
			b = b.Where(sq.NotEq{"uc.rol_id": nil})
		} else {
			b = b.Where(sq.Eq{"uc.rol_id": nil})
		}
	}

	query, args, err := b.OrderBy("uc.id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]UserCompanyDetail, 0)
	for rows.Next() {
		var d UserCompanyDetail
		var rolName sql.NullString
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.CompanyName, &d.UserID, &d.Username, &d.UserEmail,
			&d.RolID, &rolName, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		if rolName.Valid {
			v := rolName.String
			d.RolName = &v
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
