package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	models "github.com/skritek/flightbook/internal"
	"github.com/skritek/flightbook/internal/ports"
)

const (
	referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referenceLength   = 8

	// maxReferenceAttempts bounds regeneration after reference collisions.
	// With 36^8 possible references the budget is effectively unreachable,
	// but a hard stop beats an unbounded loop.
	maxReferenceAttempts = 5

	EventBookingCreated   = "booking_created"
	EventBookingCancelled = "booking_cancelled"
	EventPaymentProcessed = "payment_processed"
)

type bookingService struct {
	repo         ports.BookingRepository
	producer     ports.EventProducer
	log          *logrus.Logger
	bookingTopic string
}

type BookingServiceOption func(*bookingService)

func WithEventProducer(producer ports.EventProducer, topic string) BookingServiceOption {
	return func(s *bookingService) {
		s.producer = producer
		s.bookingTopic = topic
	}
}

func WithBookingLogger(log *logrus.Logger) BookingServiceOption {
	return func(s *bookingService) {
		s.log = log
	}
}

func NewBookingService(repo ports.BookingRepository, opts ...BookingServiceOption) *bookingService {
	s := &bookingService{
		repo: repo,
		log:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *bookingService) CreateBooking(ctx context.Context, request *models.CreateBookingRequest) (*models.Booking, error) {
	if request.SeatCount < 1 {
		return nil, fmt.Errorf("%w: seat count must be at least 1", models.ErrValidation)
	}
	if len(request.Passengers) != request.SeatCount {
		return nil, fmt.Errorf("%w: expected %d passengers, got %d",
			models.ErrValidation, request.SeatCount, len(request.Passengers))
	}

	passengers := make([]models.Passenger, len(request.Passengers))
	for i, p := range request.Passengers {
		passengers[i] = models.Passenger{
			FirstName:      p.FirstName,
			LastName:       p.LastName,
			DateOfBirth:    p.DateOfBirth,
			Gender:         p.Gender,
			PassportNumber: p.PassportNumber,
		}
	}

	for attempt := 1; attempt <= maxReferenceAttempts; attempt++ {
		booking := &models.Booking{
			UserID:      request.UserID,
			Flight:      models.Flight{ID: request.FlightID},
			SeatsBooked: request.SeatCount,
			Passengers:  passengers,
			Payment:     models.Payment{Method: request.PaymentMethod},
			Reference:   generateReference(),
		}

		saved, err := s.repo.CreateBooking(ctx, booking)
		if err == nil {
			s.publish(ctx, EventBookingCreated, saved)
			return saved, nil
		}
		if !errors.Is(err, models.ErrDuplicateReference) {
			return nil, fmt.Errorf("error creating booking: %w", err)
		}
		s.log.WithFields(logrus.Fields{
			"reference": booking.Reference,
			"attempt":   attempt,
		}).Warn("booking reference collision, regenerating")
	}
	return nil, models.ErrReferenceExhausted
}

func (s *bookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrInvalidUUID
	}
	return s.repo.GetBookingByID(ctx, id)
}

func (s *bookingService) AllBookings(ctx context.Context, req models.GetBookingsRequest) (*models.AllBookingsResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}

	bookings, nextCursor, err := s.repo.GetBookingsPaginated(ctx, req.Cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("error fetching bookings: %w", err)
	}

	response := &models.AllBookingsResponse{
		Bookings: make([]models.BookingResponse, len(bookings)),
		Limit:    limit,
		Cursor:   nextCursor,
	}
	for i, booking := range bookings {
		response.Bookings[i] = models.NewBookingResponse(booking)
	}
	return response, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, id string) (*models.Booking, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrInvalidUUID
	}

	booking, err := s.repo.CancelBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventBookingCancelled, booking)
	return booking, nil
}

// ProcessPayment simulates the gateway: a pending payment always succeeds
// and confirms its booking. Repeat calls return the stored result with the
// original transaction id.
func (s *bookingService) ProcessPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	if _, err := uuid.Parse(paymentID); err != nil {
		return nil, models.ErrInvalidUUID
	}

	transactionID := generateTransactionID()
	payment, err := s.repo.ProcessPayment(ctx, paymentID, transactionID)
	if err != nil {
		return nil, err
	}
	if payment.TransactionID == transactionID {
		s.publishPayment(ctx, payment)
	}
	return payment, nil
}

type bookingEvent struct {
	Type        string    `json:"type"`
	BookingID   string    `json:"booking_id,omitempty"`
	Reference   string    `json:"booking_reference,omitempty"`
	FlightID    string    `json:"flight_id,omitempty"`
	Status      string    `json:"status"`
	SeatsBooked int       `json:"seats_booked,omitempty"`
	PaymentID   string    `json:"payment_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (s *bookingService) publish(ctx context.Context, eventType string, booking *models.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := bookingEvent{
		Type:        eventType,
		BookingID:   booking.ID.String(),
		Reference:   booking.Reference,
		FlightID:    booking.Flight.ID.String(),
		Status:      string(booking.Status),
		SeatsBooked: booking.SeatsBooked,
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.Reference, event); err != nil {
		s.log.WithFields(logrus.Fields{
			"event":     eventType,
			"reference": booking.Reference,
		}).WithError(err).Warn("failed to publish booking event")
	}
}

func (s *bookingService) publishPayment(ctx context.Context, payment *models.Payment) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := bookingEvent{
		Type:       EventPaymentProcessed,
		BookingID:  payment.BookingID.String(),
		Status:     string(payment.Status),
		PaymentID:  payment.ID.String(),
		OccurredAt: time.Now().UTC(),
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, payment.BookingID.String(), event); err != nil {
		s.log.WithFields(logrus.Fields{
			"event":      EventPaymentProcessed,
			"payment_id": payment.ID,
		}).WithError(err).Warn("failed to publish payment event")
	}
}

func generateReference() string {
	buf := make([]byte, referenceLength)
	max := big.NewInt(int64(len(referenceAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			panic(fmt.Sprintf("reference generation: %v", err))
		}
		buf[i] = referenceAlphabet[n.Int64()]
	}
	return string(buf)
}

func generateTransactionID() string {
	suffix := uuid.New().String()[:8]
	return fmt.Sprintf("TXN%s-%s", time.Now().UTC().Format("20060102150405"), suffix)
}
