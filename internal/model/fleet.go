package model

import "time"

// Ship belongs to a company. Construction year is validated to be between
// 1800 and the current year.
type Ship struct {
	ID               uint64    // ships.id
	CompanyID        uint64    // ships.company_id
	Name             string    // ships.name
	ConstructionYear int       // ships.construction_year
	CreatedAt        time.Time // ships.created_at
	UpdatedAt        time.Time // ships.updated_at
}

// SeatType groups seats of a ship under a price surcharge. The surcharge
// is added on top of a trip's base price.
type SeatType struct {
	ID              uint64    // seat_types.id
	ShipID          uint64    // seat_types.ship_id
	AdditionalPrice float64   // seat_types.additional_price (>= 0)
	CreatedAt       time.Time // seat_types.created_at
	UpdatedAt       time.Time // seat_types.updated_at
}

// Seat is a numbered physical seat of a seat type.
type Seat struct {
	ID         uint64    // seats.id
	SeatTypeID uint64    // seats.seat_type_id
	Number     int       // seats.number (> 0)
	CreatedAt  time.Time // seats.created_at
	UpdatedAt  time.Time // seats.updated_at
}

// Route is a sailing corridor of a company between two different ports.
type Route struct {
	ID        uint64    // routes.id
	CompanyID uint64    // routes.company_id
	Origin    string    // routes.origin
	Destiny   string    // routes.destiny
	CreatedAt time.Time // routes.created_at
	UpdatedAt time.Time // routes.updated_at
}
