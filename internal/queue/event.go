// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingReservedEvent is published when a seat hold is placed. Consumers
// have enough context to notify the passenger without touching the primary
// database.
type BookingReservedEvent struct {
	BookingID     uint64  `json:"booking_id"`
	Reference     string  `json:"reference"`
	UserID        uint64  `json:"user_id"`
	TripID        uint64  `json:"trip_id"`
	TripSeatID    uint64  `json:"trip_seat_id"`
	SeatNumber    int     `json:"seat_number"`
	Origin        string  `json:"origin"`
	Destiny       string  `json:"destiny"`
	DateDeparture string  `json:"dateDeparture"`
	TotalPrice    float64 `json:"total_price"`
	ExpiresAt     string  `json:"expires_at"`
}

// PaymentSettledEvent is published when a booking is paid and its seat
// becomes occupied.
type PaymentSettledEvent struct {
	PaymentID        uint64  `json:"payment_id"`
	Reference        string  `json:"reference"`
	BookingID        uint64  `json:"booking_id"`
	BookingReference string  `json:"booking_reference"`
	UserID           uint64  `json:"user_id"`
	Amount           float64 `json:"amount"`
	SettledAt        string  `json:"settled_at"`
}
