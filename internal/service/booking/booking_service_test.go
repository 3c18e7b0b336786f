package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/viyahe/corptravel/internal/domain"
	"github.com/viyahe/corptravel/internal/errs"
	"github.com/viyahe/corptravel/internal/repository"
)

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func testClock() func() time.Time {
	return func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }
}

func newService(producer Producer) (*BookingService, repository.BookingRepository) {
	repo := repository.NewMemoryBookingRepository()
	svc := NewBookingService(repo, producer, "booking-events",
		WithNotificationsTopic("booking-notifications"),
		WithClock(testClock()),
	)
	return svc, repo
}

func sampleBooking(id string) *domain.Booking {
	return &domain.Booking{
		ID: id,
		Request: domain.BookingRequest{
			ID: "req-" + id,
			SearchParams: domain.FlightSearchParams{
				TripType: domain.TripTypeOneWay, Origin: "JFK", Destination: "LAX",
				DepartureDate: "2026-09-01", Passengers: 1, CabinClass: domain.CabinEconomy,
			},
			Passengers:   []domain.Passenger{{ID: "p1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "+12025550100"}},
			ContactEmail: "ada@example.com",
			ContactPhone: "+12025550100",
		},
		Status:        domain.BookingStatusRequested,
		OriginalPrice: 20000,
		FinalPrice:    22000,
		Currency:      "USD",
	}
}

func TestBookingService_SaveBooking(t *testing.T) {
	producer := &MockProducer{}
	svc, _ := newService(producer)
	ctx := context.Background()

	producer.On("Publish", ctx, "booking-events", "bk1", mock.Anything).Return(nil).Once()
	producer.On("Publish", ctx, "booking-notifications", "bk1", mock.Anything).Return(nil).Once()

	b := sampleBooking("bk1")
	assert.NoError(t, svc.SaveBooking(ctx, b))
	assert.Equal(t, domain.BookingStatusRequested, b.Status)
	assert.False(t, b.CreatedAt.IsZero())

	producer.AssertExpectations(t)
}

func TestBookingService_SaveBooking_DuplicateID(t *testing.T) {
	producer := &MockProducer{}
	svc, _ := newService(producer)
	ctx := context.Background()

	producer.On("Publish", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	assert.NoError(t, svc.SaveBooking(ctx, sampleBooking("bk1")))
	err := svc.SaveBooking(ctx, sampleBooking("bk1"))
	assert.ErrorIs(t, err, errs.ErrDuplicateBooking)
}

func TestBookingService_SaveBooking_RejectsNonInitialStatus(t *testing.T) {
	svc, _ := newService(nil)

	b := sampleBooking("bk1")
	b.Status = domain.BookingStatusConfirmed
	err := svc.SaveBooking(context.Background(), b)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestBookingService_UpdateStatus_Transitions(t *testing.T) {
	testCases := []struct {
		name    string
		from    domain.BookingStatus
		to      domain.BookingStatus
		allowed bool
	}{
		{"requested to confirmed", domain.BookingStatusRequested, domain.BookingStatusConfirmed, true},
		{"requested to rejected", domain.BookingStatusRequested, domain.BookingStatusRejected, true},
		{"requested to fulfilled", domain.BookingStatusRequested, domain.BookingStatusFulfilled, false},
		{"confirmed to fulfilled", domain.BookingStatusConfirmed, domain.BookingStatusFulfilled, true},
		{"confirmed to rejected", domain.BookingStatusConfirmed, domain.BookingStatusRejected, false},
		{"confirmed to requested", domain.BookingStatusConfirmed, domain.BookingStatusRequested, false},
		{"rejected to confirmed", domain.BookingStatusRejected, domain.BookingStatusConfirmed, false},
		{"rejected to fulfilled", domain.BookingStatusRejected, domain.BookingStatusFulfilled, false},
		{"fulfilled to rejected", domain.BookingStatusFulfilled, domain.BookingStatusRejected, false},
		{"confirmed to confirmed", domain.BookingStatusConfirmed, domain.BookingStatusConfirmed, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			producer := &MockProducer{}
			producer.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
			svc, repo := newService(producer)
			ctx := context.Background()

			b := sampleBooking("bk1")
			assert.NoError(t, svc.SaveBooking(ctx, b))

			// walk the booking into the starting state directly
			b.Status = tc.from
			assert.NoError(t, repo.Update(ctx, b))
			if tc.to == domain.BookingStatusFulfilled {
				assert.NoError(t, repo.AddDocument(ctx, &domain.Document{ID: "doc1", BookingID: "bk1", Type: domain.DocumentTypeETicket, FileName: "t.pdf", DataURL: "data:application/pdf;base64,x"}))
			}

			updated, err := svc.UpdateStatus(ctx, "bk1", tc.to, StatusUpdateOptions{})
			if tc.allowed {
				assert.NoError(t, err)
				assert.Equal(t, tc.to, updated.Status)
			} else {
				assert.ErrorIs(t, err, errs.ErrInvalidTransition)
			}
		})
	}
}

func TestBookingService_UpdateStatus_FulfillRequiresDocuments(t *testing.T) {
	producer := &MockProducer{}
	producer.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc, _ := newService(producer)
	ctx := context.Background()

	assert.NoError(t, svc.SaveBooking(ctx, sampleBooking("bk1")))
	_, err := svc.UpdateStatus(ctx, "bk1", domain.BookingStatusConfirmed, StatusUpdateOptions{})
	assert.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, "bk1", domain.BookingStatusFulfilled, StatusUpdateOptions{})
	assert.ErrorIs(t, err, errs.ErrNoDocuments)

	_, err = svc.AddDocument(ctx, "bk1", DocumentInput{
		Type: domain.DocumentTypeETicket, FileName: "ticket.pdf", FileSize: 1024,
		MIMEType: "application/pdf", DataURL: "data:application/pdf;base64,x",
	})
	assert.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, "bk1", domain.BookingStatusFulfilled, StatusUpdateOptions{})
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusFulfilled, updated.Status)
	assert.NotNil(t, updated.FulfilledAt)
}

func TestBookingService_UpdateStatus_StampsTimestampsAndNotes(t *testing.T) {
	producer := &MockProducer{}
	producer.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc, _ := newService(producer)
	ctx := context.Background()
	now := testClock()()

	assert.NoError(t, svc.SaveBooking(ctx, sampleBooking("bk1")))
	confirmed, err := svc.UpdateStatus(ctx, "bk1", domain.BookingStatusConfirmed, StatusUpdateOptions{
		AgentNotes: "seats together", AgentID: "agent-7",
	})
	assert.NoError(t, err)
	assert.Equal(t, now, *confirmed.ConfirmedAt)
	assert.Equal(t, "seats together", confirmed.AgentNotes)
	assert.Equal(t, "agent-7", confirmed.AgentID)
	assert.Nil(t, confirmed.RejectedAt)

	assert.NoError(t, svc.SaveBooking(ctx, sampleBooking("bk2")))
	rejected, err := svc.UpdateStatus(ctx, "bk2", domain.BookingStatusRejected, StatusUpdateOptions{
		RejectionReason: "fare no longer available",
	})
	assert.NoError(t, err)
	assert.Equal(t, now, *rejected.RejectedAt)
	assert.Equal(t, "fare no longer available", rejected.RejectionReason)
}

func TestBookingService_UpdateStatus_PublishesEvent(t *testing.T) {
	producer := &MockProducer{}
	svc, _ := newService(producer)
	ctx := context.Background()

	producer.On("Publish", ctx, "booking-events", "bk1", mock.MatchedBy(func(v interface{}) bool {
		return true
	})).Return(nil)
	producer.On("Publish", ctx, "booking-notifications", "bk1", mock.Anything).Return(nil)

	assert.NoError(t, svc.SaveBooking(ctx, sampleBooking("bk1")))
	_, err := svc.UpdateStatus(ctx, "bk1", domain.BookingStatusConfirmed, StatusUpdateOptions{})
	assert.NoError(t, err)

	producer.AssertNumberOfCalls(t, "Publish", 4)
}

func TestBookingService_AddDocument_OnlyWhileConfirmed(t *testing.T) {
	producer := &MockProducer{}
	producer.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc, _ := newService(producer)
	ctx := context.Background()

	input := DocumentInput{
		Type: domain.DocumentTypeItinerary, FileName: "itinerary.pdf", FileSize: 2048,
		MIMEType: "application/pdf", DataURL: "data:application/pdf;base64,x",
	}

	assert.NoError(t, svc.SaveBooking(ctx, sampleBooking("bk1")))
	_, err := svc.AddDocument(ctx, "bk1", input)
	assert.ErrorIs(t, err, errs.ErrUploadNotAllowed)

	_, err = svc.UpdateStatus(ctx, "bk1", domain.BookingStatusConfirmed, StatusUpdateOptions{})
	assert.NoError(t, err)

	doc, err := svc.AddDocument(ctx, "bk1", input)
	assert.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "agent", doc.UploadedBy)

	got, err := svc.GetBooking(ctx, "bk1")
	assert.NoError(t, err)
	assert.Len(t, got.Documents, 1)
}

func TestBookingService_AddDocument_Validation(t *testing.T) {
	producer := &MockProducer{}
	producer.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc, _ := newService(producer)
	ctx := context.Background()

	assert.NoError(t, svc.SaveBooking(ctx, sampleBooking("bk1")))
	_, err := svc.UpdateStatus(ctx, "bk1", domain.BookingStatusConfirmed, StatusUpdateOptions{})
	assert.NoError(t, err)

	testCases := []struct {
		name  string
		input DocumentInput
	}{
		{"unknown type", DocumentInput{Type: "receipt", FileName: "a.pdf", DataURL: "data:x"}},
		{"missing file name", DocumentInput{Type: domain.DocumentTypeInvoice, DataURL: "data:x"}},
		{"missing data", DocumentInput{Type: domain.DocumentTypeInvoice, FileName: "a.pdf"}},
		{"oversized", DocumentInput{Type: domain.DocumentTypeInvoice, FileName: "a.pdf", DataURL: "data:x", FileSize: domain.MaxDocumentSize + 1}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddDocument(ctx, "bk1", tc.input)
			assert.ErrorIs(t, err, errs.ErrValidation)
		})
	}
}

func TestBookingService_RemoveDocument(t *testing.T) {
	producer := &MockProducer{}
	producer.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc, _ := newService(producer)
	ctx := context.Background()

	assert.NoError(t, svc.SaveBooking(ctx, sampleBooking("bk1")))
	_, err := svc.UpdateStatus(ctx, "bk1", domain.BookingStatusConfirmed, StatusUpdateOptions{})
	assert.NoError(t, err)
	doc, err := svc.AddDocument(ctx, "bk1", DocumentInput{
		Type: domain.DocumentTypeOther, FileName: "note.txt", DataURL: "data:text/plain;base64,x",
	})
	assert.NoError(t, err)

	removed, err := svc.RemoveDocument(ctx, "bk1", doc.ID)
	assert.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.RemoveDocument(ctx, "bk1", doc.ID)
	assert.NoError(t, err)
	assert.False(t, removed)
}

func TestBookingService_ListBookings_FilterByStatus(t *testing.T) {
	producer := &MockProducer{}
	producer.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc, _ := newService(producer)
	ctx := context.Background()

	assert.NoError(t, svc.SaveBooking(ctx, sampleBooking("bk1")))
	assert.NoError(t, svc.SaveBooking(ctx, sampleBooking("bk2")))
	_, err := svc.UpdateStatus(ctx, "bk2", domain.BookingStatusConfirmed, StatusUpdateOptions{})
	assert.NoError(t, err)

	all, err := svc.ListBookings(ctx, "")
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	confirmed, err := svc.ListBookings(ctx, domain.BookingStatusConfirmed)
	assert.NoError(t, err)
	assert.Len(t, confirmed, 1)
	assert.Equal(t, "bk2", confirmed[0].ID)

	_, err = svc.ListBookings(ctx, "PENDING")
	assert.ErrorIs(t, err, errs.ErrValidation)
}
