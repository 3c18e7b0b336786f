package flights

import (
	"strings"

	"github.com/viyahe/corptravel/internal/domain"
)

// Reference data served by the airport lookup endpoint and used by the
// mock provider. A production deployment would load these from the GDS.
var Airports = []domain.Airport{
	{IATACode: "JFK", Name: "John F. Kennedy International", City: "New York", Country: "United States"},
	{IATACode: "LAX", Name: "Los Angeles International", City: "Los Angeles", Country: "United States"},
	{IATACode: "ORD", Name: "O'Hare International", City: "Chicago", Country: "United States"},
	{IATACode: "DFW", Name: "Dallas/Fort Worth International", City: "Dallas", Country: "United States"},
	{IATACode: "DEN", Name: "Denver International", City: "Denver", Country: "United States"},
	{IATACode: "SFO", Name: "San Francisco International", City: "San Francisco", Country: "United States"},
	{IATACode: "SEA", Name: "Seattle-Tacoma International", City: "Seattle", Country: "United States"},
	{IATACode: "ATL", Name: "Hartsfield-Jackson Atlanta International", City: "Atlanta", Country: "United States"},
	{IATACode: "MIA", Name: "Miami International", City: "Miami", Country: "United States"},
	{IATACode: "BOS", Name: "Boston Logan International", City: "Boston", Country: "United States"},
	{IATACode: "LAS", Name: "Harry Reid International", City: "Las Vegas", Country: "United States"},
	{IATACode: "PHX", Name: "Phoenix Sky Harbor International", City: "Phoenix", Country: "United States"},
	{IATACode: "LHR", Name: "Heathrow Airport", City: "London", Country: "United Kingdom"},
	{IATACode: "CDG", Name: "Charles de Gaulle Airport", City: "Paris", Country: "France"},
	{IATACode: "FRA", Name: "Frankfurt Airport", City: "Frankfurt", Country: "Germany"},
	{IATACode: "AMS", Name: "Amsterdam Schiphol", City: "Amsterdam", Country: "Netherlands"},
	{IATACode: "MAD", Name: "Adolfo Suárez Madrid-Barajas", City: "Madrid", Country: "Spain"},
	{IATACode: "FCO", Name: "Leonardo da Vinci International", City: "Rome", Country: "Italy"},
	{IATACode: "NRT", Name: "Narita International", City: "Tokyo", Country: "Japan"},
	{IATACode: "HND", Name: "Haneda Airport", City: "Tokyo", Country: "Japan"},
	{IATACode: "ICN", Name: "Incheon International", City: "Seoul", Country: "South Korea"},
	{IATACode: "SIN", Name: "Singapore Changi", City: "Singapore", Country: "Singapore"},
	{IATACode: "HKG", Name: "Hong Kong International", City: "Hong Kong", Country: "China"},
	{IATACode: "BKK", Name: "Suvarnabhumi Airport", City: "Bangkok", Country: "Thailand"},
	{IATACode: "MNL", Name: "Ninoy Aquino International", City: "Manila", Country: "Philippines"},
	{IATACode: "DXB", Name: "Dubai International", City: "Dubai", Country: "United Arab Emirates"},
	{IATACode: "DOH", Name: "Hamad International", City: "Doha", Country: "Qatar"},
	{IATACode: "SYD", Name: "Sydney Kingsford Smith", City: "Sydney", Country: "Australia"},
	{IATACode: "MEL", Name: "Melbourne Airport", City: "Melbourne", Country: "Australia"},
	{IATACode: "YYZ", Name: "Toronto Pearson International", City: "Toronto", Country: "Canada"},
	{IATACode: "YVR", Name: "Vancouver International", City: "Vancouver", Country: "Canada"},
}

var Airlines = []domain.Airline{
	{IATACode: "AA", Name: "American Airlines"},
	{IATACode: "DL", Name: "Delta Air Lines"},
	{IATACode: "UA", Name: "United Airlines"},
	{IATACode: "WN", Name: "Southwest Airlines"},
	{IATACode: "B6", Name: "JetBlue Airways"},
	{IATACode: "AS", Name: "Alaska Airlines"},
	{IATACode: "NK", Name: "Spirit Airlines"},
	{IATACode: "F9", Name: "Frontier Airlines"},
	{IATACode: "BA", Name: "British Airways"},
	{IATACode: "LH", Name: "Lufthansa"},
	{IATACode: "AF", Name: "Air France"},
	{IATACode: "KL", Name: "KLM Royal Dutch Airlines"},
	{IATACode: "EK", Name: "Emirates"},
	{IATACode: "QR", Name: "Qatar Airways"},
	{IATACode: "SQ", Name: "Singapore Airlines"},
	{IATACode: "CX", Name: "Cathay Pacific"},
	{IATACode: "JL", Name: "Japan Airlines"},
	{IATACode: "NH", Name: "All Nippon Airways"},
	{IATACode: "QF", Name: "Qantas"},
	{IATACode: "AC", Name: "Air Canada"},
	{IATACode: "PR", Name: "Philippine Airlines"},
}

var airportMap = func() map[string]domain.Airport {
	m := make(map[string]domain.Airport, len(Airports))
	for _, a := range Airports {
		m[a.IATACode] = a
	}
	return m
}()

// AirportByCode looks up an airport by IATA code, case-insensitively.
func AirportByCode(code string) (domain.Airport, bool) {
	a, ok := airportMap[strings.ToUpper(code)]
	return a, ok
}

// SearchAirports matches code, name or city. Queries shorter than two
// characters return nothing to keep typeahead traffic cheap.
func SearchAirports(query string) []domain.Airport {
	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < 2 {
		return nil
	}
	var result []domain.Airport
	for _, a := range Airports {
		if strings.Contains(strings.ToLower(a.IATACode), q) ||
			strings.Contains(strings.ToLower(a.Name), q) ||
			strings.Contains(strings.ToLower(a.City), q) {
			result = append(result, a)
		}
	}
	return result
}
