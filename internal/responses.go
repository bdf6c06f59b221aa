package models

import "time"

// Response structs enumerate every exposed field intentionally. Internal
// primary keys stay internal where the reference or flight number is the
// externally meaningful identifier.

type AirportResponse struct {
	Code      string   `json:"code" xml:"code"`
	Name      string   `json:"name" xml:"name"`
	City      string   `json:"city" xml:"city"`
	Country   string   `json:"country" xml:"country"`
	Latitude  *float64 `json:"latitude,omitempty" xml:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty" xml:"longitude,omitempty"`
}

type FlightResponse struct {
	ID               string          `json:"id" xml:"id"`
	FlightNumber     string          `json:"flight_number" xml:"flight_number"`
	Airline          string          `json:"airline" xml:"airline"`
	DepartureAirport AirportResponse `json:"departure_airport" xml:"departure_airport"`
	ArrivalAirport   AirportResponse `json:"arrival_airport" xml:"arrival_airport"`
	DepartureTime    time.Time       `json:"departure_time" xml:"departure_time"`
	ArrivalTime      time.Time       `json:"arrival_time" xml:"arrival_time"`
	DurationMinutes  int64           `json:"duration_minutes" xml:"duration_minutes"`
	PriceCents       int64           `json:"price_cents" xml:"price_cents"`
	TotalSeats       int             `json:"total_seats" xml:"total_seats"`
	AvailableSeats   int             `json:"available_seats" xml:"available_seats"`
	FlightType       FlightType      `json:"flight_type" xml:"flight_type"`
}

type PassengerResponse struct {
	FirstName      string    `json:"first_name" xml:"first_name"`
	LastName       string    `json:"last_name" xml:"last_name"`
	DateOfBirth    time.Time `json:"date_of_birth" xml:"date_of_birth"`
	Gender         string    `json:"gender" xml:"gender"`
	PassportNumber string    `json:"passport_number,omitempty" xml:"passport_number,omitempty"`
}

type PaymentResponse struct {
	ID            string        `json:"id" xml:"id"`
	AmountCents   int64         `json:"amount_cents" xml:"amount_cents"`
	PaymentMethod string        `json:"payment_method" xml:"payment_method"`
	PaymentDate   time.Time     `json:"payment_date" xml:"payment_date"`
	Status        PaymentStatus `json:"status" xml:"status"`
	TransactionID string        `json:"transaction_id,omitempty" xml:"transaction_id,omitempty"`
}

type BookingResponse struct {
	ID               string              `json:"id" xml:"id"`
	BookingReference string              `json:"booking_reference" xml:"booking_reference"`
	Flight           FlightResponse      `json:"flight" xml:"flight"`
	BookingDate      time.Time           `json:"booking_date" xml:"booking_date"`
	TotalPriceCents  int64               `json:"total_price_cents" xml:"total_price_cents"`
	Status           BookingStatus       `json:"status" xml:"status"`
	SeatsBooked      int                 `json:"seats_booked" xml:"seats_booked"`
	Passengers       []PassengerResponse `json:"passengers,omitempty" xml:"passengers,omitempty"`
	Payment          PaymentResponse     `json:"payment" xml:"payment"`
}

type AllBookingsResponse struct {
	Bookings []BookingResponse `json:"bookings" xml:"bookings"`
	Limit    int               `json:"limit" xml:"limit"`
	Cursor   string            `json:"cursor" xml:"cursor"`
}

type ProcessPaymentResponse struct {
	Status        PaymentStatus `json:"status" xml:"status"`
	TransactionID string        `json:"transaction_id" xml:"transaction_id"`
}

func NewAirportResponse(a Airport) AirportResponse {
	return AirportResponse{
		Code:      a.Code,
		Name:      a.Name,
		City:      a.City,
		Country:   a.Country,
		Latitude:  a.Latitude,
		Longitude: a.Longitude,
	}
}

func NewFlightResponse(f Flight) FlightResponse {
	return FlightResponse{
		ID:               f.ID.String(),
		FlightNumber:     f.FlightNumber,
		Airline:          f.Airline,
		DepartureAirport: NewAirportResponse(f.DepartureAirport),
		ArrivalAirport:   NewAirportResponse(f.ArrivalAirport),
		DepartureTime:    f.DepartureTime,
		ArrivalTime:      f.ArrivalTime,
		DurationMinutes:  int64(f.Duration / time.Minute),
		PriceCents:       f.PriceCents,
		TotalSeats:       f.TotalSeats,
		AvailableSeats:   f.AvailableSeats,
		FlightType:       f.FlightType,
	}
}

func NewPaymentResponse(p Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID.String(),
		AmountCents:   p.AmountCents,
		PaymentMethod: p.Method,
		PaymentDate:   p.PaymentDate,
		Status:        p.Status,
		TransactionID: p.TransactionID,
	}
}

func NewBookingResponse(b Booking) BookingResponse {
	resp := BookingResponse{
		ID:               b.ID.String(),
		BookingReference: b.Reference,
		Flight:           NewFlightResponse(b.Flight),
		BookingDate:      b.BookingDate,
		TotalPriceCents:  b.TotalPriceCents,
		Status:           b.Status,
		SeatsBooked:      b.SeatsBooked,
		Payment:          NewPaymentResponse(b.Payment),
	}
	for _, p := range b.Passengers {
		resp.Passengers = append(resp.Passengers, PassengerResponse{
			FirstName:      p.FirstName,
			LastName:       p.LastName,
			DateOfBirth:    p.DateOfBirth,
			Gender:         p.Gender,
			PassportNumber: p.PassportNumber,
		})
	}
	return resp
}
