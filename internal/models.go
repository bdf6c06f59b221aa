package models

import (
	"time"

	"github.com/google/uuid"
)

type FlightType string

const (
	FlightTypeDomestic      FlightType = "domestic"
	FlightTypeInternational FlightType = "international"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentSuccess  PaymentStatus = "success"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Airport is immutable reference data; latitude/longitude are optional.
type Airport struct {
	ID        uuid.UUID
	Code      string
	Name      string
	City      string
	Country   string
	Latitude  *float64
	Longitude *float64
}

type Flight struct {
	ID               uuid.UUID
	FlightNumber     string
	Airline          string
	DepartureAirport Airport
	ArrivalAirport   Airport
	DepartureTime    time.Time
	ArrivalTime      time.Time
	Duration         time.Duration
	PriceCents       int64
	TotalSeats       int
	AvailableSeats   int
	FlightType       FlightType
}

type Passenger struct {
	ID             uuid.UUID
	BookingID      uuid.UUID
	FirstName      string
	LastName       string
	DateOfBirth    time.Time
	Gender         string
	PassportNumber string
}

// Booking freezes TotalPriceCents at creation time; later flight price
// changes never alter an existing booking.
type Booking struct {
	ID              uuid.UUID
	Reference       string
	UserID          uuid.UUID
	Flight          Flight
	BookingDate     time.Time
	TotalPriceCents int64
	Status          BookingStatus
	SeatsBooked     int
	Passengers      []Passenger
	Payment         Payment
}

type Payment struct {
	ID            uuid.UUID
	BookingID     uuid.UUID
	AmountCents   int64
	Method        string
	PaymentDate   time.Time
	Status        PaymentStatus
	TransactionID string
}

type PassengerRequest struct {
	FirstName      string    `json:"first_name" validate:"required,min=1,max=100"`
	LastName       string    `json:"last_name" validate:"required,min=1,max=100"`
	DateOfBirth    time.Time `json:"date_of_birth" validate:"required,past_date"`
	Gender         string    `json:"gender" validate:"required,oneof=M F O"`
	PassportNumber string    `json:"passport_number,omitempty" validate:"omitempty,max=20"`
}

type CreateBookingRequest struct {
	UserID        uuid.UUID          `json:"user_id" validate:"required"`
	FlightID      uuid.UUID          `json:"flight_id" validate:"required"`
	SeatCount     int                `json:"seat_count" validate:"required,min=1"`
	Passengers    []PassengerRequest `json:"passengers" validate:"required,min=1,dive"`
	PaymentMethod string             `json:"payment_method" validate:"required,payment_method"`
}

type SearchFlightsRequest struct {
	Departure  string
	Arrival    string
	Date       time.Time
	Passengers int
}

type GetBookingsRequest struct {
	Limit  int
	Cursor string
}
