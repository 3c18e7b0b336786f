// Package reconciler keeps the serverStatus cached on submitted drafts in
// sync with the booking store. It copies status only; every other draft
// field belongs to the client.
package reconciler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/viyahe/corptravel/internal/domain"
	"github.com/viyahe/corptravel/internal/draft"
	"github.com/viyahe/corptravel/internal/errs"
)

// DraftStore is the slice of the draft store the reconciler needs.
type DraftStore interface {
	Clients(ctx context.Context) ([]string, error)
	State(ctx context.Context, clientID string) (draft.State, error)
	SetServerStatus(ctx context.Context, clientID, draftID string, status domain.BookingStatus) error
}

// BookingSource resolves current booking statuses.
type BookingSource interface {
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
}

type Reconciler struct {
	drafts    DraftStore
	bookings  BookingSource
	interval  time.Duration
	scheduler gocron.Scheduler
}

func New(drafts DraftStore, bookings BookingSource, interval time.Duration) *Reconciler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Reconciler{
		drafts:   drafts,
		bookings: bookings,
		interval: interval,
	}
}

// Start schedules periodic reconciliation runs until Stop is called.
func (r *Reconciler) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return errs.Wrap(err, "create scheduler")
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(func() {
			if err := r.RunOnce(ctx); err != nil {
				log.Printf("WARNING: reconcile run failed: %v", err)
			}
		}),
	)
	if err != nil {
		return errs.Wrap(err, "schedule reconcile job")
	}
	r.scheduler = scheduler
	scheduler.Start()
	return nil
}

func (r *Reconciler) Stop() error {
	if r.scheduler == nil {
		return nil
	}
	return r.scheduler.Shutdown()
}

// RunOnce walks every client's submitted drafts and refreshes stale cached
// statuses. Drafts whose cached status is already terminal are skipped;
// they can never change again.
func (r *Reconciler) RunOnce(ctx context.Context) error {
	clients, err := r.drafts.Clients(ctx)
	if err != nil {
		return errs.Wrap(err, "list draft clients")
	}

	for _, clientID := range clients {
		if err := r.reconcileClient(ctx, clientID); err != nil {
			log.Printf("WARNING: reconcile client %s: %v", clientID, err)
		}
	}
	return nil
}

func (r *Reconciler) reconcileClient(ctx context.Context, clientID string) error {
	state, err := r.drafts.State(ctx, clientID)
	if err != nil {
		return err
	}

	for _, d := range state.Bookings {
		if d.Status != domain.DraftStatusSubmitted || d.ServerBookingID == "" {
			continue
		}
		if d.ServerStatus.Terminal() {
			continue
		}

		b, err := r.bookings.GetBooking(ctx, d.ServerBookingID)
		if err != nil {
			// The draft may outlive its booking record; leave the
			// cached status as-is rather than failing the run.
			if errs.Is(err, errs.ErrBookingNotFound) {
				continue
			}
			return err
		}
		if b.Status == d.ServerStatus {
			continue
		}
		if err := r.drafts.SetServerStatus(ctx, clientID, d.ID, b.Status); err != nil {
			return err
		}
		log.Printf("reconciled draft %s: booking %s is now %s", d.ID, b.ID, b.Status)
	}
	return nil
}
