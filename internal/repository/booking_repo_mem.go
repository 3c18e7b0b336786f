package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/viyahe/corptravel/internal/domain"
	"github.com/viyahe/corptravel/internal/errs"
)

// MemoryBookingRepository is the in-memory booking store used by tests and
// mock mode. Bookings are copied on the way in and out so callers can never
// mutate the stored record directly.
type MemoryBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]domain.Booking
}

func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{bookings: make(map[string]domain.Booking)}
}

func (r *MemoryBookingRepository) Create(_ context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[booking.ID]; ok {
		return errs.ErrDuplicateBooking
	}
	r.bookings[booking.ID] = cloneBooking(*booking)
	return nil
}

func (r *MemoryBookingRepository) List(_ context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		if status != "" && b.Status != status {
			continue
		}
		result = append(result, cloneBooking(b))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *MemoryBookingRepository) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, errs.ErrBookingNotFound
	}
	clone := cloneBooking(b)
	return &clone, nil
}

func (r *MemoryBookingRepository) Update(_ context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.bookings[booking.ID]
	if !ok {
		return errs.ErrBookingNotFound
	}
	updated := cloneBooking(*booking)
	// Documents are managed through AddDocument/RemoveDocument only.
	updated.Documents = current.Documents
	r.bookings[booking.ID] = updated
	return nil
}

func (r *MemoryBookingRepository) AddDocument(_ context.Context, doc *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[doc.BookingID]
	if !ok {
		return errs.ErrBookingNotFound
	}
	b.Documents = append(b.Documents, *doc)
	r.bookings[doc.BookingID] = b
	return nil
}

func (r *MemoryBookingRepository) RemoveDocument(_ context.Context, bookingID, documentID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return false, errs.ErrBookingNotFound
	}
	kept := make([]domain.Document, 0, len(b.Documents))
	removed := false
	for _, d := range b.Documents {
		if d.ID == documentID {
			removed = true
			continue
		}
		kept = append(kept, d)
	}
	b.Documents = kept
	r.bookings[bookingID] = b
	return removed, nil
}

func cloneBooking(b domain.Booking) domain.Booking {
	clone := b
	clone.Documents = append([]domain.Document{}, b.Documents...)
	clone.Request.Passengers = append([]domain.Passenger{}, b.Request.Passengers...)
	return clone
}

var _ BookingRepository = (*MemoryBookingRepository)(nil)
