package flights

import (
	"context"
	"regexp"
	"sort"

	"github.com/viyahe/corptravel/internal/domain"
	"github.com/viyahe/corptravel/internal/errs"
)

type FlightUseCase interface {
	Search(ctx context.Context, params domain.FlightSearchParams) ([]domain.FlightOffer, error)
	SearchLeg(ctx context.Context, params domain.FlightSearchParams, leg int) ([]domain.FlightOffer, error)
}

// Provider produces offers for validated search params. The mock provider
// generates them locally; the HTTP provider calls a configured backend.
type Provider interface {
	Search(ctx context.Context, params domain.FlightSearchParams) ([]domain.FlightOffer, error)
}

type FlightService struct {
	provider Provider
}

func NewFlightService(provider Provider) *FlightService {
	return &FlightService{provider: provider}
}

func (s *FlightService) Search(ctx context.Context, params domain.FlightSearchParams) ([]domain.FlightOffer, error) {
	if err := ValidateSearchParams(params); err != nil {
		return nil, err
	}
	return s.provider.Search(ctx, params)
}

// SearchLeg searches one leg of a multi-city itinerary as a one-way trip,
// so the selection stage can offer per-leg choices.
func (s *FlightService) SearchLeg(ctx context.Context, params domain.FlightSearchParams, leg int) ([]domain.FlightOffer, error) {
	if err := ValidateSearchParams(params); err != nil {
		return nil, err
	}
	legs := params.Legs()
	if leg < 0 || leg >= len(legs) {
		return nil, errs.Mark(errs.Newf("leg %d out of range", leg), errs.ErrValidation)
	}
	legParams := domain.FlightSearchParams{
		TripType:      domain.TripTypeOneWay,
		Origin:        legs[leg].Origin,
		Destination:   legs[leg].Destination,
		DepartureDate: legs[leg].Date,
		Passengers:    params.Passengers,
		CabinClass:    params.CabinClass,
	}
	return s.provider.Search(ctx, legParams)
}

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
var iataRe = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateSearchParams applies the same rules as the booking form: IATA
// codes, date formats, 1..9 passengers, a return date for round trips and
// distinct origin/destination per leg.
func ValidateSearchParams(p domain.FlightSearchParams) error {
	fail := func(msg string) error { return errs.Mark(errs.Newf("%s", msg), errs.ErrValidation) }

	switch p.TripType {
	case domain.TripTypeOneWay, domain.TripTypeRoundTrip, domain.TripTypeMultiCity:
	default:
		return fail("invalid trip type")
	}
	switch p.CabinClass {
	case domain.CabinEconomy, domain.CabinPremiumEconomy, domain.CabinBusiness, domain.CabinFirst:
	default:
		return fail("invalid cabin class")
	}
	if p.Passengers < 1 {
		return fail("at least 1 passenger required")
	}
	if p.Passengers > 9 {
		return fail("maximum 9 passengers")
	}
	if p.TripType == domain.TripTypeRoundTrip {
		if p.ReturnDate == "" {
			return fail("return date is required for round-trip flights")
		}
		if !dateRe.MatchString(p.ReturnDate) {
			return fail("invalid return date format")
		}
	}
	for _, leg := range p.Legs() {
		if !iataRe.MatchString(leg.Origin) || !iataRe.MatchString(leg.Destination) {
			return fail("airport codes must be 3 letters")
		}
		if leg.Origin == leg.Destination {
			return fail("origin and destination must be different")
		}
		if !dateRe.MatchString(leg.Date) {
			return fail("invalid date format")
		}
	}
	return nil
}

// Filters narrows a result set; zero values mean "no constraint" except
// MaxStops, where -1 means any.
type Filters struct {
	MaxPrice    int64
	MaxStops    int
	MaxDuration int
	Airlines    []string
}

func Filter(offers []domain.FlightOffer, f Filters) []domain.FlightOffer {
	result := make([]domain.FlightOffer, 0, len(offers))
	for _, offer := range offers {
		if f.MaxPrice > 0 && offer.PriceWithMarkup.Amount > f.MaxPrice {
			continue
		}
		if f.MaxStops >= 0 && maxStops(offer) > f.MaxStops {
			continue
		}
		if f.MaxDuration > 0 && maxDuration(offer) > f.MaxDuration {
			continue
		}
		if len(f.Airlines) > 0 && !hasAnyAirline(offer, f.Airlines) {
			continue
		}
		result = append(result, offer)
	}
	return result
}

func maxStops(offer domain.FlightOffer) int {
	stops := 0
	for _, s := range offer.Slices {
		if s.Stops > stops {
			stops = s.Stops
		}
	}
	return stops
}

func maxDuration(offer domain.FlightOffer) int {
	d := 0
	for _, s := range offer.Slices {
		if s.Duration > d {
			d = s.Duration
		}
	}
	return d
}

func totalDuration(offer domain.FlightOffer) int {
	d := 0
	for _, s := range offer.Slices {
		d += s.Duration
	}
	return d
}

func hasAnyAirline(offer domain.FlightOffer, codes []string) bool {
	for _, s := range offer.Slices {
		for _, seg := range s.Segments {
			for _, code := range codes {
				if seg.Airline.IATACode == code {
					return true
				}
			}
		}
	}
	return false
}

type SortOption string

const (
	SortBestValue      SortOption = "best_value"
	SortPriceLow       SortOption = "price_low"
	SortPriceHigh      SortOption = "price_high"
	SortDurationShort  SortOption = "duration_short"
	SortDurationLong   SortOption = "duration_long"
	SortDepartureEarly SortOption = "departure_early"
	SortDepartureLate  SortOption = "departure_late"
)

// Sort orders offers in place and returns them. Best value weighs price
// (in whole currency units) against total duration in minutes.
func Sort(offers []domain.FlightOffer, option SortOption) []domain.FlightOffer {
	less := func(a, b domain.FlightOffer) bool {
		score := func(o domain.FlightOffer) float64 {
			return float64(o.PriceWithMarkup.Amount)/100 + float64(totalDuration(o))
		}
		return score(a) < score(b)
	}
	switch option {
	case SortPriceLow:
		less = func(a, b domain.FlightOffer) bool { return a.PriceWithMarkup.Amount < b.PriceWithMarkup.Amount }
	case SortPriceHigh:
		less = func(a, b domain.FlightOffer) bool { return a.PriceWithMarkup.Amount > b.PriceWithMarkup.Amount }
	case SortDurationShort:
		less = func(a, b domain.FlightOffer) bool { return totalDuration(a) < totalDuration(b) }
	case SortDurationLong:
		less = func(a, b domain.FlightOffer) bool { return totalDuration(a) > totalDuration(b) }
	case SortDepartureEarly:
		less = func(a, b domain.FlightOffer) bool {
			return a.Slices[0].DepartureTime.Before(b.Slices[0].DepartureTime)
		}
	case SortDepartureLate:
		less = func(a, b domain.FlightOffer) bool {
			return a.Slices[0].DepartureTime.After(b.Slices[0].DepartureTime)
		}
	}
	sort.SliceStable(offers, func(i, j int) bool { return less(offers[i], offers[j]) })
	return offers
}

var _ FlightUseCase = (*FlightService)(nil)
