package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/viyahe/corptravel/config"
	"github.com/viyahe/corptravel/internal/bootstrap"
	"github.com/viyahe/corptravel/internal/cache"
	"github.com/viyahe/corptravel/internal/draft"
	"github.com/viyahe/corptravel/internal/kafka"
	"github.com/viyahe/corptravel/internal/pricing"
	"github.com/viyahe/corptravel/internal/repository"
	"github.com/viyahe/corptravel/internal/service/booking"
	"github.com/viyahe/corptravel/internal/service/flights"
	"github.com/viyahe/corptravel/internal/service/flow"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	draftStore := draft.NewStore(cache.NewRedisStorage(cfg.Redis))
	bookingRepo := repository.NewBookingRepository(pool)
	passengerRepo := repository.NewSavedPassengerRepository(pool)

	markup := cfg.Booking.MarkupPercent
	if markup == 0 {
		markup = pricing.DefaultMarkupPercent
	}
	var provider flights.Provider
	if cfg.Booking.UseMockFlights {
		provider = flights.NewMockProvider(markup)
	} else {
		provider = flights.NewHTTPProvider(cfg.Booking.FlightAPIURL)
	}
	flightService := flights.NewFlightService(provider)

	bookingService := booking.NewBookingService(
		bookingRepo,
		producer,
		cfg.Kafka.BookingEventsTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	flowService := flow.NewService(draftStore, flightService, bookingService, passengerRepo)

	if err := bootstrap.Run(ctx, cfg, flowService, bookingService, passengerRepo); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
