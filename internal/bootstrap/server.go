// Package bootstrap assembles the HTTP server and blocks until shutdown.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/viyahe/corptravel/api"
	"github.com/viyahe/corptravel/config"
	"github.com/viyahe/corptravel/internal/repository"
	"github.com/viyahe/corptravel/internal/service/booking"
	"github.com/viyahe/corptravel/internal/service/flow"
)

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, flowSvc flow.UseCase, bookingSvc booking.BookingUseCase, passengerRepo repository.SavedPassengerRepository) error {
	router := NewRouter(flowSvc, bookingSvc, passengerRepo)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// NewRouter wires all handlers under /api.
func NewRouter(flowSvc flow.UseCase, bookingSvc booking.BookingUseCase, passengerRepo repository.SavedPassengerRepository) *gin.Engine {
	router := gin.Default()

	root := router.Group("/api")
	api.NewDraftHandler(flowSvc).Register(root.Group("/drafts"))
	api.NewFlightHandler(flowSvc).Register(root.Group("/flights"))
	api.NewBookingHandler(bookingSvc).Register(root.Group("/bookings"))
	api.NewPassengerHandler(passengerRepo).Register(root.Group("/passengers"))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
