package model

import "time"

// Company is a maritime transport operator. A company owns ships and
// routes; deleting a company cascades to both (enforced by the schema).
type Company struct {
	ID          uint64    // companies.id
	Name        string    // companies.name
	Email       *string   // companies.email (nullable)
	Address     string    // companies.address
	PhoneNumber string    // companies.phone_number (max 15 chars)
	Logo        *string   // companies.logo (nullable path/URL)
	Description string    // companies.description
	CreatedAt   time.Time // companies.created_at
	UpdatedAt   time.Time // companies.updated_at
}

// Rol names a role a user can hold within a company (e.g. operator).
type Rol struct {
	ID        uint64    // roles.id
	Name      string    // roles.name
	CreatedAt time.Time // roles.created_at
	UpdatedAt time.Time // roles.updated_at
}

// UserCompany is the membership of a user in a company with an optional
// role. The role reference survives role deletion as NULL.
type UserCompany struct {
	ID        uint64    // user_companies.id
	CompanyID uint64    // user_companies.company_id
	UserID    uint64    // user_companies.user_id
	RolID     *uint64   // user_companies.rol_id (nullable)
	CreatedAt time.Time // user_companies.created_at
	UpdatedAt time.Time // user_companies.updated_at
}
