package domain

import "time"

type DraftStatus string

const (
	DraftStatusSearching DraftStatus = "searching"
	DraftStatusSelecting DraftStatus = "selecting"
	DraftStatusFilling   DraftStatus = "filling"
	DraftStatusSubmitted DraftStatus = "submitted"
)

func (s DraftStatus) Valid() bool {
	switch s {
	case DraftStatusSearching, DraftStatusSelecting, DraftStatusFilling, DraftStatusSubmitted:
		return true
	}
	return false
}

// PassengerForm is the editable passenger data entered during the filling
// stage. Gender and document type stay free-form strings here because the
// form may be partially filled; validation tightens them at submission.
type PassengerForm struct {
	Title                  string `json:"title" validate:"required"`
	FirstName              string `json:"firstName" validate:"required,max=50"`
	LastName               string `json:"lastName" validate:"required,max=50"`
	MiddleName             string `json:"middleName" validate:"max=50"`
	DateOfBirth            string `json:"dateOfBirth" validate:"required,datedigits"`
	Gender                 string `json:"gender" validate:"oneof=male female other"`
	Email                  string `json:"email" validate:"required,email"`
	Phone                  string `json:"phone" validate:"required,min=10"`
	Nationality            string `json:"nationality" validate:"omitempty,len=2"`
	DocumentType           string `json:"documentType" validate:"omitempty,oneof=passport national_id drivers_license"`
	DocumentNumber         string `json:"documentNumber"`
	DocumentIssuingCountry string `json:"documentIssuingCountry"`
	DocumentExpiryDate     string `json:"documentExpiryDate"`
}

// DraftPassenger tracks one passenger slot in a draft, including whether it
// was pre-filled from the saved-passenger directory and whether the user
// edited it afterwards.
type DraftPassenger struct {
	ID               string        `json:"id"`
	SavedPassengerID string        `json:"savedPassengerId,omitempty"`
	Form             PassengerForm `json:"data"`
	Modified         bool          `json:"isModified"`
}

// DraftBooking is a booking still being assembled by a client.
type DraftBooking struct {
	ID              string              `json:"id"`
	Status          DraftStatus         `json:"status"`
	SearchParams    *FlightSearchParams `json:"searchParams,omitempty"`
	SelectedFlight  *FlightOffer        `json:"selectedFlight,omitempty"`
	Passengers      []DraftPassenger    `json:"passengers"`
	DiscountCode    string              `json:"discountCode,omitempty"`
	SpecialRequests string              `json:"specialRequests,omitempty"`
	ServerBookingID string              `json:"serverBookingId,omitempty"`
	ServerStatus    BookingStatus       `json:"serverStatus,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// NewDraftBooking returns a fresh draft in the searching stage.
func NewDraftBooking(id string, now time.Time) DraftBooking {
	return DraftBooking{
		ID:         id,
		Status:     DraftStatusSearching,
		Passengers: []DraftPassenger{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
