package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/viyahe/corptravel/config"
	"github.com/viyahe/corptravel/internal/cache"
	"github.com/viyahe/corptravel/internal/draft"
	"github.com/viyahe/corptravel/internal/email"
	"github.com/viyahe/corptravel/internal/kafka"
	"github.com/viyahe/corptravel/internal/reconciler"
	"github.com/viyahe/corptravel/internal/repository"
	"github.com/viyahe/corptravel/internal/service/booking"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	draftStore := draft.NewStore(cache.NewRedisStorage(cfg.Redis))
	bookingRepo := repository.NewBookingRepository(pool)
	bookingService := booking.NewBookingService(bookingRepo, nil, "")

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("decode event error: %v", err)
				return nil
			}
			return emailSender.Send(ctx, event)
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	rec := reconciler.New(draftStore, bookingService, time.Duration(cfg.Worker.ReconcileIntervalSeconds)*time.Second)
	if err := rec.Start(ctx); err != nil {
		log.Fatalf("start reconciler: %v", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	log.Printf("received signal %v, shutting down", s)

	if err := rec.Stop(); err != nil {
		log.Printf("stop reconciler: %v", err)
	}
}
