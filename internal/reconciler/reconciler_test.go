package reconciler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/viyahe/corptravel/internal/domain"
	"github.com/viyahe/corptravel/internal/draft"
	"github.com/viyahe/corptravel/internal/errs"
)

type MockBookingSource struct {
	mock.Mock
}

func (m *MockBookingSource) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func submittedDraft(t *testing.T, store *draft.Store, clientID, bookingID string) domain.DraftBooking {
	t.Helper()
	ctx := context.Background()
	d, err := store.CreateDraft(ctx, clientID)
	assert.NoError(t, err)
	assert.NoError(t, store.LinkBooking(ctx, clientID, d.ID, bookingID, domain.BookingStatusRequested))
	got, err := store.Get(ctx, clientID, d.ID)
	assert.NoError(t, err)
	return got
}

func TestReconciler_RunOnce_CopiesStatus(t *testing.T) {
	store := draft.NewStore(draft.NewMemoryStorage())
	source := &MockBookingSource{}
	ctx := context.Background()

	d := submittedDraft(t, store, "client1", "bk1")

	source.On("GetBooking", ctx, "bk1").Return(&domain.Booking{ID: "bk1", Status: domain.BookingStatusConfirmed}, nil).Once()

	rec := New(store, source, 0)
	assert.NoError(t, rec.RunOnce(ctx))

	got, err := store.Get(ctx, "client1", d.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, got.ServerStatus)

	// only serverStatus may change
	assert.Equal(t, d.Status, got.Status)
	assert.Equal(t, d.ServerBookingID, got.ServerBookingID)
	assert.Equal(t, d.Passengers, got.Passengers)
	source.AssertExpectations(t)
}

func TestReconciler_RunOnce_SkipsUnsubmittedDrafts(t *testing.T) {
	store := draft.NewStore(draft.NewMemoryStorage())
	source := &MockBookingSource{}
	ctx := context.Background()

	_, err := store.CreateDraft(ctx, "client1")
	assert.NoError(t, err)

	rec := New(store, source, 0)
	assert.NoError(t, rec.RunOnce(ctx))
	source.AssertNotCalled(t, "GetBooking")
}

func TestReconciler_RunOnce_SkipsTerminalCachedStatus(t *testing.T) {
	store := draft.NewStore(draft.NewMemoryStorage())
	source := &MockBookingSource{}
	ctx := context.Background()

	d := submittedDraft(t, store, "client1", "bk1")
	assert.NoError(t, store.SetServerStatus(ctx, "client1", d.ID, domain.BookingStatusRejected))

	rec := New(store, source, 0)
	assert.NoError(t, rec.RunOnce(ctx))
	source.AssertNotCalled(t, "GetBooking")
}

func TestReconciler_RunOnce_NoChangeNoWrite(t *testing.T) {
	store := draft.NewStore(draft.NewMemoryStorage())
	source := &MockBookingSource{}
	ctx := context.Background()

	d := submittedDraft(t, store, "client1", "bk1")
	before, _ := store.Get(ctx, "client1", d.ID)

	source.On("GetBooking", ctx, "bk1").Return(&domain.Booking{ID: "bk1", Status: domain.BookingStatusRequested}, nil).Once()

	rec := New(store, source, 0)
	assert.NoError(t, rec.RunOnce(ctx))

	after, _ := store.Get(ctx, "client1", d.ID)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
}

func TestReconciler_RunOnce_ToleratesMissingBooking(t *testing.T) {
	store := draft.NewStore(draft.NewMemoryStorage())
	source := &MockBookingSource{}
	ctx := context.Background()

	d := submittedDraft(t, store, "client1", "bk-gone")
	source.On("GetBooking", ctx, "bk-gone").Return(nil, errs.ErrBookingNotFound).Once()

	rec := New(store, source, 0)
	assert.NoError(t, rec.RunOnce(ctx))

	got, _ := store.Get(ctx, "client1", d.ID)
	assert.Equal(t, domain.BookingStatusRequested, got.ServerStatus)
}

func TestReconciler_RunOnce_MultipleClients(t *testing.T) {
	store := draft.NewStore(draft.NewMemoryStorage())
	source := &MockBookingSource{}
	ctx := context.Background()

	d1 := submittedDraft(t, store, "client1", "bk1")
	d2 := submittedDraft(t, store, "client2", "bk2")

	source.On("GetBooking", ctx, "bk1").Return(&domain.Booking{ID: "bk1", Status: domain.BookingStatusConfirmed}, nil).Once()
	source.On("GetBooking", ctx, "bk2").Return(&domain.Booking{ID: "bk2", Status: domain.BookingStatusRejected}, nil).Once()

	rec := New(store, source, 0)
	assert.NoError(t, rec.RunOnce(ctx))

	got1, _ := store.Get(ctx, "client1", d1.ID)
	got2, _ := store.Get(ctx, "client2", d2.ID)
	assert.Equal(t, domain.BookingStatusConfirmed, got1.ServerStatus)
	assert.Equal(t, domain.BookingStatusRejected, got2.ServerStatus)
}
