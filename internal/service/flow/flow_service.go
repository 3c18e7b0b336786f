package flow

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/viyahe/corptravel/internal/domain"
	"github.com/viyahe/corptravel/internal/draft"
	"github.com/viyahe/corptravel/internal/errs"
	"github.com/viyahe/corptravel/internal/pricing"
	"github.com/viyahe/corptravel/internal/repository"
	"github.com/viyahe/corptravel/internal/service/booking"
	"github.com/viyahe/corptravel/internal/service/flights"
)

// UseCase drives a booking from search through submission on behalf of one
// client. Every method is scoped by clientID; drafts of other clients are
// never visible.
type UseCase interface {
	CreateDraft(ctx context.Context, clientID string) (domain.DraftBooking, error)
	Drafts(ctx context.Context, clientID string) (draft.State, error)
	GetDraft(ctx context.Context, clientID, draftID string) (domain.DraftBooking, error)
	ActivateDraft(ctx context.Context, clientID, draftID string) error
	RemoveDraft(ctx context.Context, clientID, draftID string) error

	StartSearch(ctx context.Context, clientID string, params domain.FlightSearchParams) (domain.DraftBooking, []domain.FlightOffer, error)
	SearchLeg(ctx context.Context, clientID, draftID string, leg int) ([]domain.FlightOffer, error)
	SelectOffer(ctx context.Context, clientID, draftID string, offer domain.FlightOffer) error
	SelectLegOffers(ctx context.Context, clientID, draftID string, offers []domain.FlightOffer) (domain.FlightOffer, error)
	ClearOffer(ctx context.Context, clientID, draftID string) error

	AddPassenger(ctx context.Context, clientID, draftID string, form domain.PassengerForm) (domain.DraftPassenger, error)
	AddSavedPassenger(ctx context.Context, clientID, draftID, savedPassengerID string) (domain.DraftPassenger, error)
	UpdatePassenger(ctx context.Context, clientID, draftID, passengerID string, form domain.PassengerForm) error
	RemovePassenger(ctx context.Context, clientID, draftID, passengerID string) error

	Submit(ctx context.Context, clientID, draftID string, input SubmitInput) (*SubmitResult, error)
	Confirmation(ctx context.Context, clientID, draftID string) (*ConfirmationView, error)
}

type SubmitInput struct {
	DiscountCode    string `json:"discountCode"`
	SpecialRequests string `json:"specialRequests"`
}

// SubmitResult carries the created booking plus any passenger forms worth
// offering to save into the directory: brand-new entries and saved entries
// the user edited during filling.
type SubmitResult struct {
	Booking          *domain.Booking        `json:"booking"`
	PassengersToSave []domain.PassengerForm `json:"passengersToSave"`
}

// ConfirmationView is the post-submission summary: the submitted draft and,
// when it can be loaded, the live booking record.
type ConfirmationView struct {
	Draft   domain.DraftBooking `json:"draft"`
	Booking *domain.Booking     `json:"booking,omitempty"`
}

type Service struct {
	drafts     *draft.Store
	flights    flights.FlightUseCase
	bookings   booking.BookingUseCase
	passengers repository.SavedPassengerRepository
	validate   *validator.Validate
	now        func() time.Time
	newID      func() string
}

type ServiceOption func(*Service)

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(newID func() string) ServiceOption {
	return func(s *Service) { s.newID = newID }
}

func NewService(drafts *draft.Store, flightSvc flights.FlightUseCase, bookings booking.BookingUseCase, passengers repository.SavedPassengerRepository, opts ...ServiceOption) *Service {
	s := &Service{
		drafts:     drafts,
		flights:    flightSvc,
		bookings:   bookings,
		passengers: passengers,
		validate:   newValidator(),
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var dateDigitsRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func newValidator() *validator.Validate {
	v := validator.New()
	// dates travel as plain YYYY-MM-DD strings end to end
	_ = v.RegisterValidation("datedigits", func(fl validator.FieldLevel) bool {
		return dateDigitsRe.MatchString(fl.Field().String())
	})
	return v
}

func (s *Service) CreateDraft(ctx context.Context, clientID string) (domain.DraftBooking, error) {
	return s.drafts.CreateDraft(ctx, clientID)
}

func (s *Service) Drafts(ctx context.Context, clientID string) (draft.State, error) {
	return s.drafts.State(ctx, clientID)
}

func (s *Service) GetDraft(ctx context.Context, clientID, draftID string) (domain.DraftBooking, error) {
	return s.drafts.Get(ctx, clientID, draftID)
}

func (s *Service) ActivateDraft(ctx context.Context, clientID, draftID string) error {
	if _, err := s.drafts.Get(ctx, clientID, draftID); err != nil {
		return err
	}
	return s.drafts.SetActive(ctx, clientID, draftID)
}

func (s *Service) RemoveDraft(ctx context.Context, clientID, draftID string) error {
	return s.drafts.RemoveDraft(ctx, clientID, draftID)
}

// StartSearch runs a search against the active draft, creating one when the
// client has none. The draft moves to selecting once results are in hand.
func (s *Service) StartSearch(ctx context.Context, clientID string, params domain.FlightSearchParams) (domain.DraftBooking, []domain.FlightOffer, error) {
	state, err := s.drafts.State(ctx, clientID)
	if err != nil {
		return domain.DraftBooking{}, nil, err
	}

	active, ok := state.Active()
	if !ok || active.Status == domain.DraftStatusSubmitted {
		active, err = s.drafts.CreateDraft(ctx, clientID)
		if err != nil {
			return domain.DraftBooking{}, nil, err
		}
	}

	offers, err := s.flights.Search(ctx, params)
	if err != nil {
		return domain.DraftBooking{}, nil, err
	}

	if err := s.drafts.SetSearchParams(ctx, clientID, active.ID, params); err != nil {
		return domain.DraftBooking{}, nil, err
	}
	if err := s.drafts.SetStatus(ctx, clientID, active.ID, domain.DraftStatusSelecting); err != nil {
		return domain.DraftBooking{}, nil, err
	}

	updated, err := s.drafts.Get(ctx, clientID, active.ID)
	if err != nil {
		return domain.DraftBooking{}, nil, err
	}
	return updated, offers, nil
}

// SearchLeg re-searches one leg of the draft's stored multi-city params.
func (s *Service) SearchLeg(ctx context.Context, clientID, draftID string, leg int) ([]domain.FlightOffer, error) {
	d, err := s.drafts.Get(ctx, clientID, draftID)
	if err != nil {
		return nil, err
	}
	if d.SearchParams == nil {
		return nil, errs.Mark(errs.Newf("draft has no search params"), errs.ErrValidation)
	}
	return s.flights.SearchLeg(ctx, *d.SearchParams, leg)
}

func (s *Service) SelectOffer(ctx context.Context, clientID, draftID string, offer domain.FlightOffer) error {
	d, err := s.drafts.Get(ctx, clientID, draftID)
	if err != nil {
		return err
	}
	if d.Status == domain.DraftStatusSubmitted {
		return errs.ErrDraftSubmitted
	}
	return s.drafts.SetSelectedFlight(ctx, clientID, draftID, offer)
}

// SelectLegOffers merges one chosen offer per leg into a single combined
// offer: slices concatenated in leg order, prices summed, refundable only
// when every leg is.
func (s *Service) SelectLegOffers(ctx context.Context, clientID, draftID string, offers []domain.FlightOffer) (domain.FlightOffer, error) {
	d, err := s.drafts.Get(ctx, clientID, draftID)
	if err != nil {
		return domain.FlightOffer{}, err
	}
	if d.Status == domain.DraftStatusSubmitted {
		return domain.FlightOffer{}, errs.ErrDraftSubmitted
	}
	if d.SearchParams == nil || d.SearchParams.TripType != domain.TripTypeMultiCity {
		return domain.FlightOffer{}, errs.Mark(errs.Newf("draft is not a multi-city search"), errs.ErrValidation)
	}
	if want := len(d.SearchParams.Legs()); len(offers) != want {
		return domain.FlightOffer{}, errs.Mark(errs.Newf("expected %d leg selections, got %d", want, len(offers)), errs.ErrValidation)
	}

	combined := CombineLegOffers(offers, *d.SearchParams, s.now())
	if err := s.drafts.SetSelectedFlight(ctx, clientID, draftID, combined); err != nil {
		return domain.FlightOffer{}, err
	}
	return combined, nil
}

// CombineLegOffers builds the single offer representing a full multi-city
// itinerary from per-leg selections.
func CombineLegOffers(offers []domain.FlightOffer, params domain.FlightSearchParams, now time.Time) domain.FlightOffer {
	var slices []domain.FlightSlice
	var base, taxes, total, withMarkup int64
	refundable := true
	for _, o := range offers {
		slices = append(slices, o.Slices...)
		base += o.BasePrice.Amount
		taxes += o.TaxesAndFees.Amount
		total += o.TotalPrice.Amount
		withMarkup += o.PriceWithMarkup.Amount
		refundable = refundable && o.Refundable
	}

	currency := "USD"
	if len(offers) > 0 && offers[0].TotalPrice.Currency != "" {
		currency = offers[0].TotalPrice.Currency
	}
	var fareRules []string
	if len(offers) > 0 {
		fareRules = offers[0].FareRules
	}

	return domain.FlightOffer{
		ID:              fmt.Sprintf("combined_%d", now.UnixMilli()),
		Slices:          slices,
		TotalPrice:      pricing.NewPrice(total, currency),
		BasePrice:       pricing.NewPrice(base, currency),
		TaxesAndFees:    pricing.NewPrice(taxes, currency),
		PriceWithMarkup: pricing.NewPrice(withMarkup, currency),
		Passengers:      params.Passengers,
		CabinClass:      params.CabinClass,
		Refundable:      refundable,
		FareRules:       fareRules,
		ExpiresAt:       now.Add(30 * time.Minute),
	}
}

func (s *Service) ClearOffer(ctx context.Context, clientID, draftID string) error {
	d, err := s.drafts.Get(ctx, clientID, draftID)
	if err != nil {
		return err
	}
	if d.Status == domain.DraftStatusSubmitted {
		return errs.ErrDraftSubmitted
	}
	return s.drafts.ClearSelectedFlight(ctx, clientID, draftID)
}

// AddPassenger appends a manually entered passenger slot, capped at the
// passenger count of the search.
func (s *Service) AddPassenger(ctx context.Context, clientID, draftID string, form domain.PassengerForm) (domain.DraftPassenger, error) {
	return s.addPassenger(ctx, clientID, draftID, domain.DraftPassenger{
		ID:   s.newID(),
		Form: form,
	})
}

// AddSavedPassenger pre-fills a slot from the directory. The slot keeps a
// link to the directory entry and starts unmodified.
func (s *Service) AddSavedPassenger(ctx context.Context, clientID, draftID, savedPassengerID string) (domain.DraftPassenger, error) {
	saved, err := s.passengers.GetByID(ctx, savedPassengerID)
	if err != nil {
		return domain.DraftPassenger{}, err
	}
	return s.addPassenger(ctx, clientID, draftID, domain.DraftPassenger{
		ID:               s.newID(),
		SavedPassengerID: saved.ID,
		Form:             saved.Form(),
	})
}

func (s *Service) addPassenger(ctx context.Context, clientID, draftID string, p domain.DraftPassenger) (domain.DraftPassenger, error) {
	d, err := s.drafts.Get(ctx, clientID, draftID)
	if err != nil {
		return domain.DraftPassenger{}, err
	}
	if d.Status == domain.DraftStatusSubmitted {
		return domain.DraftPassenger{}, errs.ErrDraftSubmitted
	}
	limit := 1
	if d.SearchParams != nil {
		limit = d.SearchParams.Passengers
	}
	if len(d.Passengers) >= limit {
		return domain.DraftPassenger{}, errs.ErrPassengerLimit
	}

	passengers := append(append([]domain.DraftPassenger{}, d.Passengers...), p)
	if err := s.drafts.SetPassengers(ctx, clientID, draftID, passengers); err != nil {
		return domain.DraftPassenger{}, err
	}
	return p, nil
}

// UpdatePassenger replaces a slot's form data. Slots sourced from the
// directory are flagged as modified so submission can offer to re-save them.
func (s *Service) UpdatePassenger(ctx context.Context, clientID, draftID, passengerID string, form domain.PassengerForm) error {
	d, err := s.drafts.Get(ctx, clientID, draftID)
	if err != nil {
		return err
	}
	if d.Status == domain.DraftStatusSubmitted {
		return errs.ErrDraftSubmitted
	}

	passengers := append([]domain.DraftPassenger{}, d.Passengers...)
	found := false
	for i := range passengers {
		if passengers[i].ID == passengerID {
			passengers[i].Form = form
			passengers[i].Modified = true
			found = true
			break
		}
	}
	if !found {
		return errs.ErrPassengerNotFound
	}
	return s.drafts.SetPassengers(ctx, clientID, draftID, passengers)
}

func (s *Service) RemovePassenger(ctx context.Context, clientID, draftID, passengerID string) error {
	d, err := s.drafts.Get(ctx, clientID, draftID)
	if err != nil {
		return err
	}
	if d.Status == domain.DraftStatusSubmitted {
		return errs.ErrDraftSubmitted
	}

	passengers := make([]domain.DraftPassenger, 0, len(d.Passengers))
	found := false
	for _, p := range d.Passengers {
		if p.ID == passengerID {
			found = true
			continue
		}
		passengers = append(passengers, p)
	}
	if !found {
		return errs.ErrPassengerNotFound
	}
	return s.drafts.SetPassengers(ctx, clientID, draftID, passengers)
}

// Submit freezes the draft into an immutable booking request, saves the
// booking, and links the draft to it. The passenger forms are fully
// validated here; partial data is fine up to this point.
func (s *Service) Submit(ctx context.Context, clientID, draftID string, input SubmitInput) (*SubmitResult, error) {
	d, err := s.drafts.Get(ctx, clientID, draftID)
	if err != nil {
		return nil, err
	}
	if d.Status == domain.DraftStatusSubmitted {
		return nil, errs.ErrDraftSubmitted
	}
	if d.SelectedFlight == nil || d.SearchParams == nil {
		return nil, errs.Mark(errs.Newf("no flight selected"), errs.ErrValidation)
	}
	if len(d.Passengers) < d.SearchParams.Passengers {
		return nil, errs.Mark(errs.Newf("need %d passengers, have %d", d.SearchParams.Passengers, len(d.Passengers)), errs.ErrValidation)
	}

	passengerList := make([]domain.Passenger, 0, len(d.Passengers))
	for i, p := range d.Passengers {
		if err := s.validateForm(p.Form); err != nil {
			return nil, errs.Wrap(err, fmt.Sprintf("passenger %d", i+1))
		}
		passengerList = append(passengerList, passengerFromForm(s.newID(), p.Form))
	}

	// Deep-copy the offer and params so later draft edits can never reach
	// into the frozen request.
	var offerCopy domain.FlightOffer
	if err := copier.CopyWithOption(&offerCopy, d.SelectedFlight, copier.Option{DeepCopy: true}); err != nil {
		return nil, errs.Wrap(err, "snapshot flight offer")
	}
	var paramsCopy domain.FlightSearchParams
	if err := copier.CopyWithOption(&paramsCopy, d.SearchParams, copier.Option{DeepCopy: true}); err != nil {
		return nil, errs.Wrap(err, "snapshot search params")
	}

	now := s.now()
	request := domain.BookingRequest{
		ID:              s.newID(),
		FlightOffer:     offerCopy,
		SearchParams:    paramsCopy,
		Passengers:      passengerList,
		DiscountCode:    input.DiscountCode,
		SpecialRequests: input.SpecialRequests,
		ContactEmail:    passengerList[0].Email,
		ContactPhone:    passengerList[0].Phone,
		CreatedAt:       now,
	}
	b := &domain.Booking{
		ID:            s.newID(),
		Request:       request,
		Status:        domain.BookingStatusRequested,
		OriginalPrice: offerCopy.TotalPrice.Amount,
		FinalPrice:    offerCopy.PriceWithMarkup.Amount,
		Currency:      offerCopy.PriceWithMarkup.Currency,
		CreatedAt:     now,
	}

	if err := s.bookings.SaveBooking(ctx, b); err != nil {
		return nil, err
	}

	// The booking exists server-side at this point. A failure to update
	// the draft must not look like a failed submission; the reconciler
	// has nothing to fix here, so just log it.
	if err := s.drafts.LinkBooking(ctx, clientID, draftID, b.ID, b.Status); err != nil {
		log.Printf("WARNING: booking %s saved but draft %s not linked: %v", b.ID, draftID, err)
	}

	var toSave []domain.PassengerForm
	for _, p := range d.Passengers {
		if p.SavedPassengerID == "" || p.Modified {
			toSave = append(toSave, p.Form)
		}
	}

	return &SubmitResult{Booking: b, PassengersToSave: toSave}, nil
}

// Confirmation loads the post-submission view. The booking half is best
// effort: a missing record still renders the draft summary.
func (s *Service) Confirmation(ctx context.Context, clientID, draftID string) (*ConfirmationView, error) {
	d, err := s.drafts.Get(ctx, clientID, draftID)
	if err != nil {
		return nil, err
	}
	view := &ConfirmationView{Draft: d}
	if d.ServerBookingID != "" {
		b, err := s.bookings.GetBooking(ctx, d.ServerBookingID)
		if err == nil {
			view.Booking = b
		} else if !errs.Is(err, errs.ErrBookingNotFound) {
			return nil, err
		}
	}
	return view, nil
}

func (s *Service) validateForm(form domain.PassengerForm) error {
	if err := s.validate.Struct(form); err != nil {
		return errs.Mark(err, errs.ErrValidation)
	}
	if form.DocumentType != "" && form.DocumentNumber == "" {
		return errs.Mark(errs.Newf("document number required when document type is set"), errs.ErrValidation)
	}
	return nil
}

func passengerFromForm(id string, f domain.PassengerForm) domain.Passenger {
	p := domain.Passenger{
		ID:          id,
		Type:        "adult",
		Title:       f.Title,
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		MiddleName:  f.MiddleName,
		DateOfBirth: f.DateOfBirth,
		Gender:      f.Gender,
		Email:       f.Email,
		Phone:       f.Phone,
		Nationality: f.Nationality,
	}
	if f.DocumentType != "" {
		p.IdentityDocument = &domain.IdentityDocument{
			Type:           f.DocumentType,
			Number:         f.DocumentNumber,
			IssuingCountry: f.DocumentIssuingCountry,
			ExpiryDate:     f.DocumentExpiryDate,
		}
	}
	return p
}

var _ UseCase = (*Service)(nil)
