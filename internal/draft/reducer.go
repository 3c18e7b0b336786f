package draft

import (
	"time"

	"github.com/viyahe/corptravel/internal/domain"
)

// StorageVersion is bumped on incompatible schema changes. A stored
// collection with a different version is discarded on load.
const StorageVersion = 1

// State is one client's draft collection plus the active pointer. An empty
// ActiveBookingID means no draft is active.
type State struct {
	Bookings        []domain.DraftBooking `json:"bookings"`
	ActiveBookingID string                `json:"activeBookingId"`
}

// StoredState is the persisted form of State.
type StoredState struct {
	Bookings        []domain.DraftBooking `json:"bookings"`
	ActiveBookingID string                `json:"activeBookingId"`
	Version         int                   `json:"version"`
}

func (s State) stored() StoredState {
	return StoredState{Bookings: s.Bookings, ActiveBookingID: s.ActiveBookingID, Version: StorageVersion}
}

// Find returns the draft with the given id, if present.
func (s State) Find(id string) (domain.DraftBooking, bool) {
	for _, b := range s.Bookings {
		if b.ID == id {
			return b, true
		}
	}
	return domain.DraftBooking{}, false
}

// Active returns the active draft, if any.
func (s State) Active() (domain.DraftBooking, bool) {
	if s.ActiveBookingID == "" {
		return domain.DraftBooking{}, false
	}
	return s.Find(s.ActiveBookingID)
}

// Action is a reducer input. The reducer is pure; the Store wrapper
// persists after each transition.
type Action interface {
	isAction()
}

// Create appends a draft and makes it active.
type Create struct {
	Draft domain.DraftBooking
}

// Update merges Patch into the draft with the given id and refreshes its
// UpdatedAt. Missing ids are a no-op.
type Update struct {
	ID    string
	Patch Patch
	Now   time.Time
}

// SetActive moves the active pointer. An empty id clears it; ids that do
// not reference an existing draft are ignored so the pointer can never
// dangle.
type SetActive struct {
	ID string
}

// Remove deletes a draft. If it was active, the pointer falls back to the
// first remaining draft or clears.
type Remove struct {
	ID string
}

func (Create) isAction()    {}
func (Update) isAction()    {}
func (SetActive) isAction() {}
func (Remove) isAction()    {}

// Patch is a partial draft update. Nil fields are left untouched. Clearing
// the selected flight is a distinct flag because a nil pointer already
// means "no change".
type Patch struct {
	Status              *domain.DraftStatus
	SearchParams        *domain.FlightSearchParams
	SelectedFlight      *domain.FlightOffer
	ClearSelectedFlight bool
	Passengers          *[]domain.DraftPassenger
	DiscountCode        *string
	SpecialRequests     *string
	ServerBookingID     *string
	ServerStatus        *domain.BookingStatus
}

func (p Patch) apply(b domain.DraftBooking, now time.Time) domain.DraftBooking {
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.SearchParams != nil {
		params := *p.SearchParams
		b.SearchParams = &params
	}
	if p.SelectedFlight != nil {
		offer := *p.SelectedFlight
		b.SelectedFlight = &offer
	}
	if p.ClearSelectedFlight {
		b.SelectedFlight = nil
	}
	if p.Passengers != nil {
		b.Passengers = append([]domain.DraftPassenger{}, (*p.Passengers)...)
	}
	if p.DiscountCode != nil {
		b.DiscountCode = *p.DiscountCode
	}
	if p.SpecialRequests != nil {
		b.SpecialRequests = *p.SpecialRequests
	}
	if p.ServerBookingID != nil {
		b.ServerBookingID = *p.ServerBookingID
	}
	if p.ServerStatus != nil {
		b.ServerStatus = *p.ServerStatus
	}
	b.UpdatedAt = now
	return b
}

// Reduce applies an action to a state and returns the next state. The input
// state is never mutated.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case Create:
		next := State{
			Bookings:        append(append([]domain.DraftBooking{}, state.Bookings...), a.Draft),
			ActiveBookingID: a.Draft.ID,
		}
		return next

	case Update:
		next := State{ActiveBookingID: state.ActiveBookingID}
		next.Bookings = make([]domain.DraftBooking, len(state.Bookings))
		for i, b := range state.Bookings {
			if b.ID == a.ID {
				next.Bookings[i] = a.Patch.apply(b, a.Now)
			} else {
				next.Bookings[i] = b
			}
		}
		return next

	case SetActive:
		if a.ID != "" {
			if _, ok := state.Find(a.ID); !ok {
				return state
			}
		}
		return State{Bookings: state.Bookings, ActiveBookingID: a.ID}

	case Remove:
		remaining := make([]domain.DraftBooking, 0, len(state.Bookings))
		for _, b := range state.Bookings {
			if b.ID != a.ID {
				remaining = append(remaining, b)
			}
		}
		active := state.ActiveBookingID
		if active == a.ID {
			if len(remaining) > 0 {
				active = remaining[0].ID
			} else {
				active = ""
			}
		}
		return State{Bookings: remaining, ActiveBookingID: active}

	default:
		return state
	}
}
