package repository

import "errors"

// Sentinel errors returned by repositories. Handlers compare with
// errors.Is and map them to HTTP statuses.
var (
	ErrForbidden = errors.New("forbidden")

	ErrUsernameExists = errors.New("username already exists")

	ErrNotificationNotFound  = errors.New("notification not found")
	ErrCompanyNotFound       = errors.New("company not found")
	ErrRolNotFound           = errors.New("rol not found")
	ErrUserCompanyNotFound   = errors.New("user company not found")
	ErrShipNotFound          = errors.New("ship not found")
	ErrSeatTypeNotFound      = errors.New("seat type not found")
	ErrSeatNotFound          = errors.New("seat not found")
	ErrRouteNotFound         = errors.New("route not found")
	ErrTripNotFound          = errors.New("trip not found")
	ErrTripSeatNotFound      = errors.New("trip seat not found")
	ErrBookingNotFound       = errors.New("booking not found")
	ErrPaymentMethodNotFound = errors.New("payment method not found")
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrUserNotFound          = errors.New("user not found")
)
