package ports

import (
	"context"

	models "github.com/skritek/flightbook/internal"
)

type BookingRepository interface {
	CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	GetBookingByID(ctx context.Context, id string) (*models.Booking, error)
	GetBookingsPaginated(ctx context.Context, afterCursor string, limit int) ([]models.Booking, string, error)
	CancelBooking(ctx context.Context, id string) (*models.Booking, error)
	ProcessPayment(ctx context.Context, paymentID, transactionID string) (*models.Payment, error)
}

type FlightRepository interface {
	GetFlightByID(ctx context.Context, id string) (*models.Flight, error)
	SearchFlights(ctx context.Context, req models.SearchFlightsRequest) ([]models.Flight, error)
	SearchAirports(ctx context.Context, query string) ([]models.Airport, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, request *models.CreateBookingRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	AllBookings(ctx context.Context, req models.GetBookingsRequest) (*models.AllBookingsResponse, error)
	CancelBooking(ctx context.Context, id string) (*models.Booking, error)
	ProcessPayment(ctx context.Context, paymentID string) (*models.Payment, error)
}

type FlightService interface {
	GetFlight(ctx context.Context, id string) (*models.Flight, error)
	SearchFlights(ctx context.Context, req models.SearchFlightsRequest) ([]models.Flight, error)
	SearchAirports(ctx context.Context, query string) ([]models.Airport, error)
}

// FlightCache caches search results keyed by the normalized query; a nil
// result with nil error means a miss.
type FlightCache interface {
	GetFlights(ctx context.Context, key string) ([]models.Flight, error)
	SetFlights(ctx context.Context, key string, flights []models.Flight) error
}

type EventProducer interface {
	Publish(ctx context.Context, topic, key string, payload interface{}) error
}
