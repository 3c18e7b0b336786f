package booking

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/viyahe/corptravel/internal/domain"
	"github.com/viyahe/corptravel/internal/errs"
	"github.com/viyahe/corptravel/internal/kafka"
	"github.com/viyahe/corptravel/internal/repository"
)

type BookingUseCase interface {
	SaveBooking(ctx context.Context, booking *domain.Booking) error
	ListBookings(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus, opts StatusUpdateOptions) (*domain.Booking, error)
	AddDocument(ctx context.Context, bookingID string, input DocumentInput) (*domain.Document, error)
	RemoveDocument(ctx context.Context, bookingID, documentID string) (bool, error)
}

type StatusUpdateOptions struct {
	AgentNotes      string
	RejectionReason string
	AgentID         string
}

type DocumentInput struct {
	Type       domain.DocumentType
	FileName   string
	FileSize   int64
	MIMEType   string
	DataURL    string
	UploadedBy string
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	repo               repository.BookingRepository
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	now                func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) { s.notificationsTopic = topic }
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) { s.now = now }
}

func NewBookingService(repo repository.BookingRepository, producer Producer, bookingTopic string, opts ...BookingServiceOption) *BookingService {
	s := &BookingService{
		repo:         repo,
		producer:     producer,
		bookingTopic: bookingTopic,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveBooking inserts a freshly submitted booking. The id must be unique
// across the store.
func (s *BookingService) SaveBooking(ctx context.Context, booking *domain.Booking) error {
	if booking.Status == "" {
		booking.Status = domain.BookingStatusRequested
	}
	if booking.Status != domain.BookingStatusRequested {
		return errs.Mark(errs.Newf("new bookings must start as %s", domain.BookingStatusRequested), errs.ErrValidation)
	}
	now := s.now()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now

	if err := s.repo.Create(ctx, booking); err != nil {
		return err
	}
	s.publish(ctx, "booking_submitted", booking)
	return nil
}

func (s *BookingService) ListBookings(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	if status != "" && !status.Valid() {
		return nil, errs.Mark(errs.Newf("unknown status %q", status), errs.ErrValidation)
	}
	return s.repo.List(ctx, status)
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateStatus validates the transition against the state machine, stamps
// the matching lifecycle timestamp exactly once and records optional agent
// notes or the rejection reason.
func (s *BookingService) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus, opts StatusUpdateOptions) (*domain.Booking, error) {
	if !status.Valid() {
		return nil, errs.Mark(errs.Newf("unknown status %q", status), errs.ErrValidation)
	}

	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(booking.Status, status) {
		return nil, errs.Mark(errs.Newf("invalid status transition from %s to %s", booking.Status, status), errs.ErrInvalidTransition)
	}
	if status == domain.BookingStatusFulfilled && len(booking.Documents) == 0 {
		return nil, errs.ErrNoDocuments
	}

	now := s.now()
	booking.Status = status
	booking.UpdatedAt = now
	if opts.AgentID != "" {
		booking.AgentID = opts.AgentID
	}
	switch status {
	case domain.BookingStatusConfirmed:
		booking.ConfirmedAt = &now
		if opts.AgentNotes != "" {
			booking.AgentNotes = opts.AgentNotes
		}
	case domain.BookingStatusRejected:
		booking.RejectedAt = &now
		if opts.RejectionReason != "" {
			booking.RejectionReason = opts.RejectionReason
		}
	case domain.BookingStatusFulfilled:
		booking.FulfilledAt = &now
	}

	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, err
	}
	s.publish(ctx, eventTypeFor(status), booking)
	return booking, nil
}

// AddDocument appends an upload to a booking. Uploads are only permitted
// while the booking is confirmed.
func (s *BookingService) AddDocument(ctx context.Context, bookingID string, input DocumentInput) (*domain.Document, error) {
	if !input.Type.Valid() {
		return nil, errs.Mark(errs.Newf("invalid document type %q", input.Type), errs.ErrValidation)
	}
	if input.FileName == "" || input.DataURL == "" {
		return nil, errs.Mark(errs.Newf("missing required document fields"), errs.ErrValidation)
	}
	if input.FileSize > domain.MaxDocumentSize {
		return nil, errs.Mark(errs.Newf("file size exceeds %d byte limit", domain.MaxDocumentSize), errs.ErrValidation)
	}

	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingStatusConfirmed {
		return nil, errs.ErrUploadNotAllowed
	}

	uploadedBy := input.UploadedBy
	if uploadedBy == "" {
		uploadedBy = "agent"
	}
	doc := &domain.Document{
		ID:         uuid.NewString(),
		BookingID:  bookingID,
		Type:       input.Type,
		FileName:   input.FileName,
		FileSize:   input.FileSize,
		MIMEType:   input.MIMEType,
		DataURL:    input.DataURL,
		UploadedAt: s.now(),
		UploadedBy: uploadedBy,
	}
	if err := s.repo.AddDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// RemoveDocument deletes a document by id and reports whether anything was
// actually removed.
func (s *BookingService) RemoveDocument(ctx context.Context, bookingID, documentID string) (bool, error) {
	return s.repo.RemoveDocument(ctx, bookingID, documentID)
}

func eventTypeFor(status domain.BookingStatus) string {
	switch status {
	case domain.BookingStatusConfirmed:
		return "booking_confirmed"
	case domain.BookingStatusRejected:
		return "booking_rejected"
	case domain.BookingStatusFulfilled:
		return "booking_fulfilled"
	default:
		return "booking_submitted"
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:          eventType,
		BookingID:     booking.ID,
		Status:        string(booking.Status),
		Origin:        booking.Request.SearchParams.Origin,
		Destination:   booking.Request.SearchParams.Destination,
		DepartureDate: booking.Request.SearchParams.DepartureDate,
		Passengers:    len(booking.Request.Passengers),
		FinalPrice:    booking.FinalPrice,
		Currency:      booking.Currency,
		ContactEmail:  booking.Request.ContactEmail,
		OccurredAt:    s.now(),
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.ID, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for booking %s: %v", eventType, booking.ID, err)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event); err != nil {
			log.Printf("WARNING: failed to publish %s notification for booking %s: %v", eventType, booking.ID, err)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
