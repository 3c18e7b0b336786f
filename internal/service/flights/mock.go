package flights

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/viyahe/corptravel/internal/domain"
	"github.com/viyahe/corptravel/internal/pricing"
)

var domesticAirports = map[string]bool{
	"JFK": true, "LAX": true, "ORD": true, "DFW": true, "DEN": true,
	"SFO": true, "SEA": true, "ATL": true, "MIA": true, "BOS": true,
}

var aircraftTypes = []string{"Boeing 737", "Boeing 777", "Airbus A320", "Airbus A350"}

// MockProvider generates plausible offers without calling a real GDS.
// Prices and durations follow simple route heuristics with random
// variation, so repeated searches differ the way a live feed would.
type MockProvider struct {
	rng           *rand.Rand
	markupPercent float64
	now           func() time.Time
}

type MockProviderOption func(*MockProvider)

// WithSeed makes the generator deterministic, for tests.
func WithSeed(seed int64) MockProviderOption {
	return func(p *MockProvider) { p.rng = rand.New(rand.NewSource(seed)) }
}

func WithMockClock(now func() time.Time) MockProviderOption {
	return func(p *MockProvider) { p.now = now }
}

func NewMockProvider(markupPercent float64, opts ...MockProviderOption) *MockProvider {
	p := &MockProvider{
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		markupPercent: markupPercent,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *MockProvider) Search(_ context.Context, params domain.FlightSearchParams) ([]domain.FlightOffer, error) {
	numOffers := 8 + p.rng.Intn(8)
	offers := make([]domain.FlightOffer, 0, numOffers)

	stopChoices := []int{0, 0, 0, 1, 1, 2}
	returnStopChoices := []int{0, 0, 1, 1}

	for i := 0; i < numOffers; i++ {
		stops := stopChoices[p.rng.Intn(len(stopChoices))]
		slices := []domain.FlightSlice{
			p.generateSlice(params.Origin, params.Destination, params.DepartureDate, params.CabinClass, stops, i),
		}
		if params.TripType == domain.TripTypeRoundTrip && params.ReturnDate != "" {
			returnStops := returnStopChoices[p.rng.Intn(len(returnStopChoices))]
			slices = append(slices, p.generateSlice(params.Destination, params.Origin, params.ReturnDate, params.CabinClass, returnStops, i+10))
		}

		basePerPax := p.basePrice(params.Origin, params.Destination, params.CabinClass, stops)
		totalBase := basePerPax * int64(params.Passengers) * int64(len(slices))
		taxes := int64(math.Round(float64(totalBase) * 0.15))
		total := totalBase + taxes
		withMarkup := pricing.ApplyMarkup(total, p.markupPercent)

		fareRules := []string{
			"Non-refundable ticket",
			"Changes allowed with fee",
			"Seat selection available at check-in",
		}
		if params.CabinClass != domain.CabinEconomy {
			fareRules = append(fareRules, "Priority boarding included", "Lounge access included")
		}
		if p.rng.Float64() > 0.7 {
			fareRules[0] = "Fully refundable within 24 hours"
		}

		offers = append(offers, domain.FlightOffer{
			ID:              p.newID(),
			Slices:          slices,
			TotalPrice:      pricing.NewPrice(total, "USD"),
			BasePrice:       pricing.NewPrice(totalBase, "USD"),
			TaxesAndFees:    pricing.NewPrice(taxes, "USD"),
			PriceWithMarkup: pricing.NewPrice(withMarkup, "USD"),
			Passengers:      params.Passengers,
			CabinClass:      params.CabinClass,
			Refundable:      p.rng.Float64() > 0.7,
			FareRules:       fareRules,
			ExpiresAt:       p.now().Add(30 * time.Minute),
		})
	}

	return Sort(offers, SortPriceLow), nil
}

var classMultipliers = map[domain.CabinClass]float64{
	domain.CabinEconomy:        1,
	domain.CabinPremiumEconomy: 1.8,
	domain.CabinBusiness:       3.5,
	domain.CabinFirst:          6,
}

// basePrice returns the per-passenger base fare in cents. Domestic routes
// start at $150, international at $450; direct flights cost 20% more and
// every fare gets a ±30% spread.
func (p *MockProvider) basePrice(origin, destination string, class domain.CabinClass, stops int) int64 {
	base := 45000.0
	if domesticAirports[origin] && domesticAirports[destination] {
		base = 15000.0
	}
	base *= classMultipliers[class]
	if stops == 0 {
		base *= 1.2
	}
	base *= 0.7 + p.rng.Float64()*0.6
	return int64(math.Round(base))
}

// duration estimates flight time in minutes: 3h domestic, 8h international,
// 5.5h transcontinental JFK-LAX, plus 1.5h per stop and a ±30min jitter.
func (p *MockProvider) duration(origin, destination string, stops int) int {
	base := 480
	if domesticAirports[origin] && domesticAirports[destination] {
		base = 180
	}
	if (origin == "JFK" && destination == "LAX") || (origin == "LAX" && destination == "JFK") {
		base = 330
	}
	base += stops * 90
	base += p.rng.Intn(60) - 30
	if base < 60 {
		base = 60
	}
	return base
}

func (p *MockProvider) generateSlice(origin, destination, date string, class domain.CabinClass, stops, index int) domain.FlightSlice {
	departure := p.departureTime(date, index)
	var segments []domain.FlightSegment

	if stops == 0 {
		segments = append(segments, p.generateSegment(origin, destination, departure, class))
	} else {
		var connections []string
		for _, c := range []string{"ORD", "DFW", "ATL", "DEN"} {
			if c != origin && c != destination {
				connections = append(connections, c)
			}
		}
		connection := connections[p.rng.Intn(len(connections))]

		first := p.generateSegment(origin, connection, departure, class)
		segments = append(segments, first)

		layover := time.Duration(60+p.rng.Intn(120)) * time.Minute
		segments = append(segments, p.generateSegment(connection, destination, first.ArrivalTime.Add(layover), class))
	}

	totalDuration := 0
	for _, seg := range segments {
		totalDuration += seg.Duration
	}
	totalDuration += stops * 90

	return domain.FlightSlice{
		ID:            p.newID(),
		Origin:        p.airport(origin),
		Destination:   p.airport(destination),
		DepartureTime: segments[0].DepartureTime,
		ArrivalTime:   segments[len(segments)-1].ArrivalTime,
		Duration:      totalDuration,
		Segments:      segments,
		Stops:         stops,
	}
}

func (p *MockProvider) generateSegment(origin, destination string, departure time.Time, class domain.CabinClass) domain.FlightSegment {
	airline := Airlines[p.rng.Intn(len(Airlines))]
	duration := p.duration(origin, destination, 0)

	return domain.FlightSegment{
		ID:            p.newID(),
		Origin:        p.airport(origin),
		Destination:   p.airport(destination),
		DepartureTime: departure,
		ArrivalTime:   departure.Add(time.Duration(duration) * time.Minute),
		Duration:      duration,
		FlightNumber:  fmt.Sprintf("%s%d", airline.IATACode, 100+p.rng.Intn(9000)),
		Airline:       airline,
		Aircraft:      aircraftTypes[p.rng.Intn(len(aircraftTypes))],
		CabinClass:    class,
	}
}

// departureTime spreads departures through the day starting at 06:00.
func (p *MockProvider) departureTime(date string, index int) time.Time {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		day = p.now().Truncate(24 * time.Hour)
	}
	hour := 6 + (index*3)%18
	minute := []int{0, 15, 30, 45}[p.rng.Intn(4)]
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func (p *MockProvider) airport(code string) domain.Airport {
	if a, ok := AirportByCode(code); ok {
		return a
	}
	return domain.Airport{IATACode: code, Name: code, City: code}
}

func (p *MockProvider) newID() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 13)
	for i := range b {
		b[i] = alphabet[p.rng.Intn(len(alphabet))]
	}
	return string(b)
}

var _ Provider = (*MockProvider)(nil)
