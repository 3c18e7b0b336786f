// Package api holds the gin handlers for the traveler booking flow, the
// agent console and the passenger directory.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/viyahe/corptravel/internal/errs"
)

// ClientIDHeader scopes draft state to one browser/device. Drafts saved
// under one client id are invisible to every other.
const ClientIDHeader = "X-Client-ID"

// RequireClientID rejects requests without a client id before they reach
// any draft-scoped handler.
func RequireClientID() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(ClientIDHeader) == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing " + ClientIDHeader + " header"})
			return
		}
		c.Next()
	}
}

func clientID(c *gin.Context) string {
	return c.GetHeader(ClientIDHeader)
}

// writeError maps service sentinels onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errs.Is(err, errs.ErrDraftNotFound),
		errs.Is(err, errs.ErrBookingNotFound),
		errs.Is(err, errs.ErrDocumentNotFound),
		errs.Is(err, errs.ErrPassengerNotFound):
		status = http.StatusNotFound
	case errs.Is(err, errs.ErrValidation),
		errs.Is(err, errs.ErrPassengerLimit):
		status = http.StatusBadRequest
	case errs.Is(err, errs.ErrDuplicateBooking),
		errs.Is(err, errs.ErrInvalidTransition),
		errs.Is(err, errs.ErrNoDocuments),
		errs.Is(err, errs.ErrUploadNotAllowed),
		errs.Is(err, errs.ErrDraftSubmitted):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
