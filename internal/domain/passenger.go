package domain

import (
	"strings"
	"time"
)

// SavedPassenger is a reusable passenger profile in the organization
// directory.
type SavedPassenger struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId"`

	Title       string `json:"title"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	MiddleName  string `json:"middleName,omitempty"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Nationality string `json:"nationality,omitempty"`

	DocumentType           string `json:"documentType,omitempty"`
	DocumentNumber         string `json:"documentNumber,omitempty"`
	DocumentIssuingCountry string `json:"documentIssuingCountry,omitempty"`
	DocumentExpiryDate     string `json:"documentExpiryDate,omitempty"`

	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Form converts a directory entry into form data for the filling stage.
func (p SavedPassenger) Form() PassengerForm {
	return PassengerForm{
		Title:                  p.Title,
		FirstName:              p.FirstName,
		LastName:               p.LastName,
		MiddleName:             p.MiddleName,
		DateOfBirth:            p.DateOfBirth,
		Gender:                 p.Gender,
		Email:                  p.Email,
		Phone:                  p.Phone,
		Nationality:            p.Nationality,
		DocumentType:           p.DocumentType,
		DocumentNumber:         p.DocumentNumber,
		DocumentIssuingCountry: p.DocumentIssuingCountry,
		DocumentExpiryDate:     p.DocumentExpiryDate,
	}
}

// DisplayName is the directory listing label.
func (p SavedPassenger) DisplayName() string {
	return strings.TrimSpace(p.Title + " " + p.FirstName + " " + p.LastName)
}

// SavedPassengerFromForm builds a directory entry from validated form data.
// Identity document fields carry over only when a document type is set.
func SavedPassengerFromForm(f PassengerForm) SavedPassenger {
	p := SavedPassenger{
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
		p.DocumentType = f.DocumentType
		p.DocumentNumber = f.DocumentNumber
		p.DocumentIssuingCountry = f.DocumentIssuingCountry
		p.DocumentExpiryDate = f.DocumentExpiryDate
	}
	return p
}
