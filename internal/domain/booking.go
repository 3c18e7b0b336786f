package domain

import "time"

type BookingStatus string

const (
	BookingStatusRequested BookingStatus = "BOOKING_REQUESTED"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusRejected  BookingStatus = "REJECTED"
	BookingStatusFulfilled BookingStatus = "FULFILLED"
)

// statusTransitions is the full booking state machine. REJECTED and
// FULFILLED are terminal.
var statusTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusRequested: {BookingStatusConfirmed, BookingStatusRejected},
	BookingStatusConfirmed: {BookingStatusFulfilled},
	BookingStatusRejected:  {},
	BookingStatusFulfilled: {},
}

func (s BookingStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

func (s BookingStatus) Terminal() bool {
	next, ok := statusTransitions[s]
	return ok && len(next) == 0
}

// CanTransition reports whether the state machine allows moving a booking
// from one status to another.
func CanTransition(from, to BookingStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type DocumentType string

const (
	DocumentTypeItinerary DocumentType = "itinerary"
	DocumentTypeETicket   DocumentType = "e_ticket"
	DocumentTypeInvoice   DocumentType = "invoice"
	DocumentTypeOther     DocumentType = "other"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypeItinerary, DocumentTypeETicket, DocumentTypeInvoice, DocumentTypeOther:
		return true
	}
	return false
}

// MaxDocumentSize is the upload cap for a single booking document.
const MaxDocumentSize = 5 * 1024 * 1024

// Document is a file an agent attached to a booking.
type Document struct {
	ID         string       `json:"id"`
	BookingID  string       `json:"bookingId"`
	Type       DocumentType `json:"type"`
	FileName   string       `json:"fileName"`
	FileSize   int64        `json:"fileSize"`
	MIMEType   string       `json:"mimeType"`
	DataURL    string       `json:"dataUrl"`
	UploadedAt time.Time    `json:"uploadedAt"`
	UploadedBy string       `json:"uploadedBy"`
}

type IdentityDocument struct {
	Type           string `json:"type"` // passport, national_id, drivers_license
	Number         string `json:"number"`
	IssuingCountry string `json:"issuingCountry"`
	ExpiryDate     string `json:"expiryDate"` // YYYY-MM-DD
}

// Passenger is the fully validated passenger record frozen into a
// booking request at submission time.
type Passenger struct {
	ID               string            `json:"id"`
	Type             string            `json:"type"` // adult, child, infant
	Title            string            `json:"title"`
	FirstName        string            `json:"firstName"`
	LastName         string            `json:"lastName"`
	MiddleName       string            `json:"middleName,omitempty"`
	DateOfBirth      string            `json:"dateOfBirth"`
	Gender           string            `json:"gender"`
	Email            string            `json:"email"`
	Phone            string            `json:"phone"`
	Nationality      string            `json:"nationality,omitempty"`
	IdentityDocument *IdentityDocument `json:"identityDocument,omitempty"`
}

// BookingRequest is an immutable snapshot of the draft at submission time.
type BookingRequest struct {
	ID              string             `json:"id"`
	FlightOffer     FlightOffer        `json:"flightOffer"`
	SearchParams    FlightSearchParams `json:"searchParams"`
	Passengers      []Passenger        `json:"passengers"`
	DiscountCode    string             `json:"discountCode,omitempty"`
	SpecialRequests string             `json:"specialRequests,omitempty"`
	ContactEmail    string             `json:"contactEmail"`
	ContactPhone    string             `json:"contactPhone"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// Booking is the agent-facing record of a submitted booking request.
type Booking struct {
	ID              string         `json:"id"`
	Request         BookingRequest `json:"request"`
	Status          BookingStatus  `json:"status"`
	OriginalPrice   int64          `json:"originalPrice"` // cents, before markup
	FinalPrice      int64          `json:"finalPrice"`    // cents, after markup
	Currency        string         `json:"currency"`
	Documents       []Document     `json:"documents"`
	AgentNotes      string         `json:"agentNotes,omitempty"`
	RejectionReason string         `json:"rejectionReason,omitempty"`
	AgentID         string         `json:"agentId,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	ConfirmedAt     *time.Time     `json:"confirmedAt,omitempty"`
	RejectedAt      *time.Time     `json:"rejectedAt,omitempty"`
	FulfilledAt     *time.Time     `json:"fulfilledAt,omitempty"`
}
