package domain

import "time"

type TripType string

const (
	TripTypeOneWay    TripType = "one_way"
	TripTypeRoundTrip TripType = "round_trip"
	TripTypeMultiCity TripType = "multi_city"
)

type CabinClass string

const (
	CabinEconomy        CabinClass = "economy"
	CabinPremiumEconomy CabinClass = "premium_economy"
	CabinBusiness       CabinClass = "business"
	CabinFirst          CabinClass = "first"
)

type Airport struct {
	IATACode string `json:"iataCode"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

type Airline struct {
	IATACode string `json:"iataCode"`
	Name     string `json:"name"`
	LogoURL  string `json:"logoUrl,omitempty"`
}

// Price holds an amount in the smallest currency unit (cents).
type Price struct {
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	DisplayAmount string `json:"displayAmount"`
}

// FlightSegment is a single flight between two airports.
type FlightSegment struct {
	ID            string     `json:"id"`
	Origin        Airport    `json:"origin"`
	Destination   Airport    `json:"destination"`
	DepartureTime time.Time  `json:"departureTime"`
	ArrivalTime   time.Time  `json:"arrivalTime"`
	Duration      int        `json:"duration"` // minutes
	FlightNumber  string     `json:"flightNumber"`
	Airline       Airline    `json:"airline"`
	Aircraft      string     `json:"aircraft"`
	CabinClass    CabinClass `json:"cabinClass"`
}

// FlightSlice is one directional portion of a journey, possibly with
// connections.
type FlightSlice struct {
	ID            string          `json:"id"`
	Origin        Airport         `json:"origin"`
	Destination   Airport         `json:"destination"`
	DepartureTime time.Time       `json:"departureTime"`
	ArrivalTime   time.Time       `json:"arrivalTime"`
	Duration      int             `json:"duration"` // total minutes including layovers
	Segments      []FlightSegment `json:"segments"`
	Stops         int             `json:"stops"`
}

// FlightOffer is a complete bookable option with pricing.
type FlightOffer struct {
	ID              string        `json:"id"`
	Slices          []FlightSlice `json:"slices"`
	TotalPrice      Price         `json:"totalPrice"`
	BasePrice       Price         `json:"basePrice"`
	TaxesAndFees    Price         `json:"taxesAndFees"`
	PriceWithMarkup Price         `json:"priceWithMarkup"`
	Passengers      int           `json:"passengers"`
	CabinClass      CabinClass    `json:"cabinClass"`
	Refundable      bool          `json:"refundable"`
	FareRules       []string      `json:"fareRules"`
	ExpiresAt       time.Time     `json:"expiresAt"`
}

// FlightLeg is one origin/destination pair of a multi-city itinerary.
type FlightLeg struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"` // YYYY-MM-DD
}

type FlightSearchParams struct {
	TripType       TripType    `json:"tripType"`
	Origin         string      `json:"origin"`
	Destination    string      `json:"destination"`
	DepartureDate  string      `json:"departureDate"` // YYYY-MM-DD
	ReturnDate     string      `json:"returnDate,omitempty"`
	Passengers     int         `json:"passengers"`
	CabinClass     CabinClass  `json:"cabinClass"`
	AdditionalLegs []FlightLeg `json:"additionalLegs,omitempty"`
}

// Legs expands the params into the full ordered leg list: the primary
// origin/destination pair followed by any additional multi-city legs.
func (p FlightSearchParams) Legs() []FlightLeg {
	legs := []FlightLeg{{Origin: p.Origin, Destination: p.Destination, Date: p.DepartureDate}}
	return append(legs, p.AdditionalLegs...)
}
