// Package errs holds the sentinel errors shared across services and the
// API layer, which maps them to HTTP status codes.
package errs

import (
	cr "github.com/cockroachdb/errors"
)

var (
	ErrDraftNotFound     = cr.New("draft not found")
	ErrBookingNotFound   = cr.New("booking not found")
	ErrDocumentNotFound  = cr.New("document not found")
	ErrPassengerNotFound = cr.New("passenger not found")

	ErrDuplicateBooking = cr.New("booking id already exists")

	ErrInvalidTransition = cr.New("invalid status transition")
	ErrNoDocuments       = cr.New("cannot fulfill booking without documents")
	ErrUploadNotAllowed  = cr.New("documents can only be uploaded to confirmed bookings")

	ErrValidation     = cr.New("validation failed")
	ErrPassengerLimit = cr.New("passenger limit reached")
	ErrDraftSubmitted = cr.New("draft already submitted")
)

// Wrap annotates err with msg, passing nil through.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// Mark attaches a sentinel to err so errors.Is matches both.
func Mark(err error, mark error) error {
	if err == nil {
		return mark
	}
	return cr.Mark(err, mark)
}

// Newf builds a new error with formatting.
func Newf(format string, args ...interface{}) error {
	return cr.Newf(format, args...)
}

// Is reports whether err matches the sentinel.
func Is(err, sentinel error) bool {
	return cr.Is(err, sentinel)
}
