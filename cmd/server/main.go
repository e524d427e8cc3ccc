package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/marcrz/naviera-booking/internal/config"
	"github.com/marcrz/naviera-booking/internal/database"
	"github.com/marcrz/naviera-booking/internal/handler"
	"github.com/marcrz/naviera-booking/internal/ledger"
	"github.com/marcrz/naviera-booking/internal/queue"
	"github.com/marcrz/naviera-booking/internal/repository"
	"github.com/marcrz/naviera-booking/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional, real env wins

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	companies := repository.NewCompanyRepo(db)
	roles := repository.NewRolRepo(db)
	memberships := repository.NewUserCompanyRepo(db)
	notifications := repository.NewNotificationRepo(db)
	ships := repository.NewShipRepo(db)
	seatTypes := repository.NewSeatTypeRepo(db)
	seats := repository.NewSeatRepo(db)
	routes := repository.NewRouteRepo(db)
	trips := repository.NewTripRepo(db, seats)
	tripSeats := repository.NewTripSeatRepo(db)
	bookings := repository.NewBookingRepo(db)
	payments := repository.NewPaymentRepo(db)

	holdTTL := time.Duration(cfg.HoldTTLMin) * time.Minute
	ledg := ledger.New(tripSeats, bookings, payments, memberships, holdTTL)

	h := router.Handlers{
		Auth:           handler.NewAuthHandler(cfg, users, tokens),
		Companies:      handler.NewCompanyHandler(companies),
		Roles:          handler.NewRolHandler(roles),
		Memberships:    handler.NewUserCompanyHandler(memberships),
		Notifications:  handler.NewNotificationHandler(notifications),
		Ships:          handler.NewShipHandler(ships),
		SeatTypes:      handler.NewSeatTypeHandler(seatTypes),
		Seats:          handler.NewSeatHandler(seats),
		Routes:         handler.NewRouteHandler(routes),
		Trips:          handler.NewTripHandler(trips),
		TripSeats:      handler.NewTripSeatHandler(tripSeats),
		Bookings:       handler.NewBookingHandler(ledg, bookings, tripSeats, payments),
		PaymentMethods: handler.NewPaymentMethodHandler(repository.NewPaymentMethodRepo(db)),
		Payments:       handler.NewPaymentHandler(payments),
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, cache and rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, h, memberships, rdb)

	// background consumer: events -> notification rows
	go func() {
		if err := queue.NewNotificationConsumer(notifications).Start(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	// hold expiry sweep
	go func() {
		interval := time.Duration(cfg.SweepEverySec) * time.Second
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			n, err := ledg.ExpireDue(ctx)
			cancel()
			if err != nil {
				log.Printf("expiry sweep: %v", err)
			}
			if n > 0 {
				log.Printf("expiry sweep: released %d lapsed holds", n)
			}
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
