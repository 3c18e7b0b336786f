package draft

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/viyahe/corptravel/internal/domain"
	"github.com/viyahe/corptravel/internal/errs"
)

func newTestStore() *Store {
	n := 0
	return NewStore(NewMemoryStorage(),
		WithClock(func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("draft-%d", n) }),
	)
}

func TestStore_CreateAndRoundTrip(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	d, err := store.CreateDraft(ctx, "client1")
	assert.NoError(t, err)
	assert.Equal(t, "draft-1", d.ID)
	assert.Equal(t, domain.DraftStatusSearching, d.Status)

	state, err := store.State(ctx, "client1")
	assert.NoError(t, err)
	assert.Len(t, state.Bookings, 1)
	assert.Equal(t, "draft-1", state.ActiveBookingID)

	// another client sees nothing
	other, err := store.State(ctx, "client2")
	assert.NoError(t, err)
	assert.Empty(t, other.Bookings)
}

func TestStore_VersionMismatchDiscardsState(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	stale := StoredState{
		Bookings:        []domain.DraftBooking{{ID: "old"}},
		ActiveBookingID: "old",
		Version:         StorageVersion + 1,
	}
	assert.NoError(t, storage.Save(ctx, "client1", stale))

	store := NewStore(storage)
	state, err := store.State(ctx, "client1")
	assert.NoError(t, err)
	assert.Empty(t, state.Bookings)
	assert.Equal(t, "", state.ActiveBookingID)

	// the stale blob stays until a mutation writes a fresh collection
	d, err := store.CreateDraft(ctx, "client1")
	assert.NoError(t, err)

	saved, ok, err := storage.Load(ctx, "client1")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, StorageVersion, saved.Version)
	assert.Len(t, saved.Bookings, 1)
	assert.Equal(t, d.ID, saved.Bookings[0].ID)
}

func TestStore_GetUnknownDraft(t *testing.T) {
	store := newTestStore()
	_, err := store.Get(context.Background(), "client1", "nope")
	assert.ErrorIs(t, err, errs.ErrDraftNotFound)
}

func TestStore_SetSelectedFlightClearsPassengers(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	d, err := store.CreateDraft(ctx, "client1")
	assert.NoError(t, err)

	passengers := []domain.DraftPassenger{{ID: "p1", Form: domain.PassengerForm{FirstName: "Ada"}}}
	assert.NoError(t, store.SetPassengers(ctx, "client1", d.ID, passengers))

	assert.NoError(t, store.SetSelectedFlight(ctx, "client1", d.ID, domain.FlightOffer{ID: "offer1"}))

	got, err := store.Get(ctx, "client1", d.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.DraftStatusFilling, got.Status)
	assert.Equal(t, "offer1", got.SelectedFlight.ID)
	assert.Empty(t, got.Passengers, "passengers entered for a previous flight must be cleared")
}

func TestStore_ClearSelectedFlight(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	d, _ := store.CreateDraft(ctx, "client1")
	assert.NoError(t, store.SetSelectedFlight(ctx, "client1", d.ID, domain.FlightOffer{ID: "offer1"}))
	assert.NoError(t, store.ClearSelectedFlight(ctx, "client1", d.ID))

	got, err := store.Get(ctx, "client1", d.ID)
	assert.NoError(t, err)
	assert.Nil(t, got.SelectedFlight)
	assert.Empty(t, got.Passengers)
	assert.Equal(t, domain.DraftStatusSearching, got.Status)
}

func TestStore_LinkBooking(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	d, _ := store.CreateDraft(ctx, "client1")
	assert.NoError(t, store.LinkBooking(ctx, "client1", d.ID, "bk-42", domain.BookingStatusRequested))

	got, err := store.Get(ctx, "client1", d.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.DraftStatusSubmitted, got.Status)
	assert.Equal(t, "bk-42", got.ServerBookingID)
	assert.Equal(t, domain.BookingStatusRequested, got.ServerStatus)
}

func TestStore_SetServerStatusTouchesNothingElse(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	d, _ := store.CreateDraft(ctx, "client1")
	params := domain.FlightSearchParams{
		TripType: domain.TripTypeOneWay, Origin: "JFK", Destination: "LAX",
		DepartureDate: "2026-09-01", Passengers: 1, CabinClass: domain.CabinEconomy,
	}
	assert.NoError(t, store.SetSearchParams(ctx, "client1", d.ID, params))
	assert.NoError(t, store.SetSelectedFlight(ctx, "client1", d.ID, domain.FlightOffer{ID: "offer1"}))
	assert.NoError(t, store.LinkBooking(ctx, "client1", d.ID, "bk-42", domain.BookingStatusRequested))

	before, _ := store.Get(ctx, "client1", d.ID)
	assert.NoError(t, store.SetServerStatus(ctx, "client1", d.ID, domain.BookingStatusConfirmed))
	after, _ := store.Get(ctx, "client1", d.ID)

	assert.Equal(t, domain.BookingStatusConfirmed, after.ServerStatus)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.ServerBookingID, after.ServerBookingID)
	assert.Equal(t, before.SelectedFlight.ID, after.SelectedFlight.ID)
	assert.Equal(t, before.SearchParams, after.SearchParams)
}

func TestStore_SetSearchParamsRewindsToSearching(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	d, _ := store.CreateDraft(ctx, "client1")
	assert.NoError(t, store.SetSelectedFlight(ctx, "client1", d.ID, domain.FlightOffer{ID: "offer1"}))

	params := domain.FlightSearchParams{
		TripType: domain.TripTypeOneWay, Origin: "SFO", Destination: "SEA",
		DepartureDate: "2026-09-10", Passengers: 2, CabinClass: domain.CabinBusiness,
	}
	assert.NoError(t, store.SetSearchParams(ctx, "client1", d.ID, params))

	got, _ := store.Get(ctx, "client1", d.ID)
	assert.Equal(t, domain.DraftStatusSearching, got.Status)
	assert.Equal(t, "SFO", got.SearchParams.Origin)
}

func TestStore_Clients(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	_, _ = store.CreateDraft(ctx, "beta")
	_, _ = store.CreateDraft(ctx, "alpha")

	clients, err := store.Clients(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, clients)
}
