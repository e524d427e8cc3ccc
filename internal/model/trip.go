package model

import "time"

// TripSeat states. The names are part of the public API and follow the
// original wire format.
const (
	SeatStateAvailable = "disponible"
	SeatStateOccupied  = "ocupado"
	SeatStateReserved  = "reservado"
)

// Booking statuses.
const (
	BookingActive    = "ACTIVE"
	BookingCancelled = "CANCELLED"
)

// Trip is a scheduled sailing along a route using one seat template. When
// a trip is created, one TripSeat per seat of the template's ship is
// materialized alongside it.
type Trip struct {
	ID            uint64    // trips.id
	RouteID       uint64    // trips.route_id
	SeatID        uint64    // trips.seat_id
	BasePrice     float64   // trips.base_price (>= 0)
	DateDeparture time.Time // trips.date_departure
	CreatedAt     time.Time // trips.created_at
	UpdatedAt     time.Time // trips.updated_at
}

// TripSeat is the bookable unit: one seat on one specific sailing. Its
// state is the authoritative availability record and only changes through
// the reservation ledger.
type TripSeat struct {
	ID        uint64    // trip_seats.id
	TripID    uint64    // trip_seats.trip_id
	SeatID    uint64    // trip_seats.seat_id
	State     string    // trip_seats.state (disponible|ocupado|reservado)
	CreatedAt time.Time // trip_seats.created_at
	UpdatedAt time.Time // trip_seats.updated_at
}

// Booking claims one trip seat for one user. An unpaid active booking
// holds the seat until ExpiresAt; after that the sweep cancels it and the
// seat returns to disponible.
type Booking struct {
	ID         uint64    // bookings.id
	TripSeatID uint64    // bookings.trip_seat_id
	UserID     uint64    // bookings.user_id
	Reference  string    // bookings.reference (uuid)
	Paid       bool      // bookings.paid
	Status     string    // bookings.status (ACTIVE|CANCELLED)
	ExpiresAt  time.Time // bookings.expires_at (hold deadline)
	CreatedAt  time.Time // bookings.created_at
	UpdatedAt  time.Time // bookings.updated_at
}

// PaymentMethod is a named settlement channel.
type PaymentMethod struct {
	ID          uint64    // payment_methods.id
	Name        string    // payment_methods.name
	Description string    // payment_methods.description
	CreatedAt   time.Time // payment_methods.created_at
	UpdatedAt   time.Time // payment_methods.updated_at
}

// Payment records the settlement of a booking. The method reference is
// nullable so payments survive method deletion.
type Payment struct {
	ID        uint64    // payments.id
	MethodID  *uint64   // payments.method_id (nullable)
	BookingID uint64    // payments.booking_id
	Reference string    // payments.reference (uuid)
	Amount    float64   // payments.amount
	CreatedAt time.Time // payments.created_at
	UpdatedAt time.Time // payments.updated_at
}
