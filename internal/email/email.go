package email

import (
	"context"
	"fmt"

	"github.com/viyahe/corptravel/internal/kafka"
)

// Sender delivers agent notifications for booking lifecycle events.
// TODO: replace the stdout stub with the agency's SMTP relay once the
// credentials land in config.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("send email to %s about %s: booking %s (%s -> %s on %s, %d pax) is %s\n",
		event.ContactEmail, event.Type, event.BookingID,
		event.Origin, event.Destination, event.DepartureDate,
		event.Passengers, event.Status)
	return nil
}
