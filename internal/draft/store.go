package draft

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/viyahe/corptravel/internal/domain"
	"github.com/viyahe/corptravel/internal/errs"
)

// Storage persists one draft collection per client. Load reports whether a
// collection was present at all.
type Storage interface {
	Load(ctx context.Context, clientID string) (StoredState, bool, error)
	Save(ctx context.Context, clientID string, state StoredState) error
	Clients(ctx context.Context) ([]string, error)
}

// Store wraps the pure reducer with durable persistence: every mutation is
// a load-reduce-save cycle under a per-client lock, so concurrent callers
// (handlers and the reconciler) always work from the latest snapshot.
type Store struct {
	storage Storage
	now     func() time.Time
	newID   func() string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

type StoreOption func(*Store)

func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(newID func() string) StoreOption {
	return func(s *Store) { s.newID = newID }
}

func NewStore(storage Storage, opts ...StoreOption) *Store {
	s := &Store{
		storage: storage,
		now:     time.Now,
		newID:   uuid.NewString,
		locks:   make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) clientLock(clientID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[clientID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[clientID] = lock
	}
	return lock
}

// load reads the persisted collection, discarding it on a version
// mismatch. The discarded state is not overwritten here; the next mutation
// persists the fresh collection.
func (s *Store) load(ctx context.Context, clientID string) (State, error) {
	stored, ok, err := s.storage.Load(ctx, clientID)
	if err != nil {
		return State{}, errs.Wrap(err, "load draft state")
	}
	if !ok || stored.Version != StorageVersion {
		return State{Bookings: []domain.DraftBooking{}}, nil
	}
	return State{Bookings: stored.Bookings, ActiveBookingID: stored.ActiveBookingID}, nil
}

// apply runs actions through the reducer and persists the result before
// returning.
func (s *Store) apply(ctx context.Context, clientID string, actions ...Action) (State, error) {
	lock := s.clientLock(clientID)
	lock.Lock()
	defer lock.Unlock()

	state, err := s.load(ctx, clientID)
	if err != nil {
		return State{}, err
	}
	for _, action := range actions {
		state = Reduce(state, action)
	}
	if err := s.storage.Save(ctx, clientID, state.stored()); err != nil {
		return State{}, errs.Wrap(err, "save draft state")
	}
	return state, nil
}

// State returns the client's current collection.
func (s *Store) State(ctx context.Context, clientID string) (State, error) {
	lock := s.clientLock(clientID)
	lock.Lock()
	defer lock.Unlock()
	return s.load(ctx, clientID)
}

// Get returns a single draft.
func (s *Store) Get(ctx context.Context, clientID, id string) (domain.DraftBooking, error) {
	state, err := s.State(ctx, clientID)
	if err != nil {
		return domain.DraftBooking{}, err
	}
	b, ok := state.Find(id)
	if !ok {
		return domain.DraftBooking{}, errs.ErrDraftNotFound
	}
	return b, nil
}

// Clients enumerates client ids with persisted collections.
func (s *Store) Clients(ctx context.Context) ([]string, error) {
	return s.storage.Clients(ctx)
}

// CreateDraft appends a new draft in the searching stage and makes it the
// active draft.
func (s *Store) CreateDraft(ctx context.Context, clientID string) (domain.DraftBooking, error) {
	d := domain.NewDraftBooking(s.newID(), s.now())
	if _, err := s.apply(ctx, clientID, Create{Draft: d}); err != nil {
		return domain.DraftBooking{}, err
	}
	return d, nil
}

// UpdateDraft merges a partial update into the draft. A missing id is a
// no-op, not an error.
func (s *Store) UpdateDraft(ctx context.Context, clientID, id string, patch Patch) error {
	_, err := s.apply(ctx, clientID, Update{ID: id, Patch: patch, Now: s.now()})
	return err
}

// SetActive moves the active pointer; empty id clears it.
func (s *Store) SetActive(ctx context.Context, clientID, id string) error {
	_, err := s.apply(ctx, clientID, SetActive{ID: id})
	return err
}

// RemoveDraft deletes the draft, reassigning the active pointer if needed.
func (s *Store) RemoveDraft(ctx context.Context, clientID, id string) error {
	_, err := s.apply(ctx, clientID, Remove{ID: id})
	return err
}

// SetSearchParams stores new search criteria and rewinds the draft to the
// searching stage.
func (s *Store) SetSearchParams(ctx context.Context, clientID, id string, params domain.FlightSearchParams) error {
	status := domain.DraftStatusSearching
	return s.UpdateDraft(ctx, clientID, id, Patch{Status: &status, SearchParams: &params})
}

// SetSelectedFlight records the chosen offer. Any passengers entered for a
// previously selected flight are stale and cleared.
func (s *Store) SetSelectedFlight(ctx context.Context, clientID, id string, offer domain.FlightOffer) error {
	status := domain.DraftStatusFilling
	empty := []domain.DraftPassenger{}
	return s.UpdateDraft(ctx, clientID, id, Patch{Status: &status, SelectedFlight: &offer, Passengers: &empty})
}

// ClearSelectedFlight drops the offer and passengers and returns the draft
// to the searching stage.
func (s *Store) ClearSelectedFlight(ctx context.Context, clientID, id string) error {
	status := domain.DraftStatusSearching
	empty := []domain.DraftPassenger{}
	return s.UpdateDraft(ctx, clientID, id, Patch{Status: &status, ClearSelectedFlight: true, Passengers: &empty})
}

// SetPassengers replaces the draft's passenger list.
func (s *Store) SetPassengers(ctx context.Context, clientID, id string, passengers []domain.DraftPassenger) error {
	return s.UpdateDraft(ctx, clientID, id, Patch{Passengers: &passengers})
}

// SetStatus overrides the draft stage directly.
func (s *Store) SetStatus(ctx context.Context, clientID, id string, status domain.DraftStatus) error {
	return s.UpdateDraft(ctx, clientID, id, Patch{Status: &status})
}

// LinkBooking ties the draft to its submitted booking record and caches the
// booking's initial status.
func (s *Store) LinkBooking(ctx context.Context, clientID, id, bookingID string, status domain.BookingStatus) error {
	draftStatus := domain.DraftStatusSubmitted
	return s.UpdateDraft(ctx, clientID, id, Patch{
		Status:          &draftStatus,
		ServerBookingID: &bookingID,
		ServerStatus:    &status,
	})
}

// SetServerStatus refreshes only the cached booking status. Used by the
// reconciler, which must not touch any other draft field.
func (s *Store) SetServerStatus(ctx context.Context, clientID, id string, status domain.BookingStatus) error {
	return s.UpdateDraft(ctx, clientID, id, Patch{ServerStatus: &status})
}
