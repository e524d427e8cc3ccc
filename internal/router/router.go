// Package router wires HTTP routes to handlers. Reads on the public
// catalogue (companies, fleet, routes, trips, seat inventory, payment
// methods) are unauthenticated; every write and everything touching a
// user's data requires a Bearer token.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/marcrz/naviera-booking/internal/config"
	"github.com/marcrz/naviera-booking/internal/handler"
	"github.com/marcrz/naviera-booking/internal/middleware"
	"github.com/marcrz/naviera-booking/internal/repository"
)

// Handlers collects every handler the router registers.
type Handlers struct {
	Auth           *handler.AuthHandler
	Companies      *handler.CompanyHandler
	Roles          *handler.RolHandler
	Memberships    *handler.UserCompanyHandler
	Notifications  *handler.NotificationHandler
	Ships          *handler.ShipHandler
	SeatTypes      *handler.SeatTypeHandler
	Seats          *handler.SeatHandler
	Routes         *handler.RouteHandler
	Trips          *handler.TripHandler
	TripSeats      *handler.TripSeatHandler
	Bookings       *handler.BookingHandler
	PaymentMethods *handler.PaymentMethodHandler
	Payments       *handler.PaymentHandler
}

// Register sets up middleware and all routes on the Echo instance.
func Register(e *echo.Echo, cfg config.Config, h Handlers, members *repository.UserCompanyRepo, rdb *redis.Client) {
	e.Use(middleware.Metrics())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	e.GET("/healthz", handler.Health)
	e.GET("/metrics", middleware.MetricsHandler())

	// identity
	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout, middleware.JWTAuth(cfg.JWTSecret))

	// public catalogue reads, cached when redis is up
	pub := e.Group("/v1")
	pub.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	pub.GET("/companies", h.Companies.List)
	pub.GET("/companies/:id", h.Companies.Get)
	pub.GET("/ships", h.Ships.List)
	pub.GET("/ships/:id", h.Ships.Get)
	pub.GET("/seat-types", h.SeatTypes.List)
	pub.GET("/seat-types/:id", h.SeatTypes.Get)
	pub.GET("/seats", h.Seats.List)
	pub.GET("/seats/:id", h.Seats.Get)
	pub.GET("/routes", h.Routes.List)
	pub.GET("/routes/:id", h.Routes.Get)
	pub.GET("/trips", h.Trips.List)
	pub.GET("/trips/:id", h.Trips.Get)
	pub.GET("/trip-seats", h.TripSeats.List)
	pub.GET("/trip-seats/:id", h.TripSeats.Get)
	pub.GET("/payment-methods", h.PaymentMethods.List)
	pub.GET("/payment-methods/:id", h.PaymentMethods.Get)

	// everything below needs a valid access token
	priv := e.Group("/v1")
	priv.Use(middleware.JWTAuth(cfg.JWTSecret))

	priv.POST("/companies", h.Companies.Create)
	priv.PUT("/companies/:id", h.Companies.Update, middleware.RequireCompanyMember(members, "id"))
	priv.DELETE("/companies/:id", h.Companies.Delete, middleware.RequireCompanyMember(members, "id"))

	priv.GET("/roles", h.Roles.List)
	priv.GET("/roles/:id", h.Roles.Get)
	priv.POST("/roles", h.Roles.Create)
	priv.PUT("/roles/:id", h.Roles.Update)
	priv.DELETE("/roles/:id", h.Roles.Delete)

	priv.GET("/user-companies", h.Memberships.List)
	priv.GET("/user-companies/:id", h.Memberships.Get)
	priv.POST("/user-companies", h.Memberships.Create)
	priv.PUT("/user-companies/:id", h.Memberships.Update)
	priv.DELETE("/user-companies/:id", h.Memberships.Delete)

	priv.GET("/notifications", h.Notifications.List)
	priv.GET("/notifications/:id", h.Notifications.Get)
	priv.POST("/notifications", h.Notifications.Create)
	priv.PUT("/notifications/:id", h.Notifications.Update)
	priv.DELETE("/notifications/:id", h.Notifications.Delete)

	priv.POST("/ships", h.Ships.Create)
	priv.PUT("/ships/:id", h.Ships.Update)
	priv.DELETE("/ships/:id", h.Ships.Delete)

	priv.POST("/seat-types", h.SeatTypes.Create)
	priv.PUT("/seat-types/:id", h.SeatTypes.Update)
	priv.DELETE("/seat-types/:id", h.SeatTypes.Delete)

	priv.POST("/seats", h.Seats.Create)
	priv.PUT("/seats/:id", h.Seats.Update)
	priv.DELETE("/seats/:id", h.Seats.Delete)

	priv.POST("/routes", h.Routes.Create)
	priv.PUT("/routes/:id", h.Routes.Update)
	priv.DELETE("/routes/:id", h.Routes.Delete)

	priv.POST("/trips", h.Trips.Create)
	priv.PUT("/trips/:id", h.Trips.Update)
	priv.DELETE("/trips/:id", h.Trips.Delete)

	// trip seat states move only through the reservation endpoints
	priv.DELETE("/trip-seats/:id", h.TripSeats.Delete)
	priv.POST("/trip-seats/:id/reserve", h.Bookings.Reserve)

	priv.GET("/bookings", h.Bookings.List)
	priv.GET("/bookings/:id", h.Bookings.Get)
	priv.POST("/bookings/:id/pay", h.Bookings.Pay)
	priv.POST("/bookings/:id/cancel", h.Bookings.Cancel)

	priv.POST("/payment-methods", h.PaymentMethods.Create)
	priv.PUT("/payment-methods/:id", h.PaymentMethods.Update)
	priv.DELETE("/payment-methods/:id", h.PaymentMethods.Delete)

	priv.GET("/payments", h.Payments.List)
	priv.GET("/payments/:id", h.Payments.Get)
}
