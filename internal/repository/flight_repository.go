package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	models "github.com/skritek/flightbook/internal"
)

const flightColumns = `
        F.id, F.flight_number, F.airline, F.departure_time, F.arrival_time,
        F.duration_minutes, F.price_cents, F.total_seats, F.available_seats, F.flight_type,
        DEP.id, DEP.code, DEP.name, DEP.city, DEP.country,
        ARR.id, ARR.code, ARR.name, ARR.city, ARR.country`

const flightJoins = `
        FROM flights F
        JOIN airports DEP ON DEP.id = F.departure_airport_id
        JOIN airports ARR ON ARR.id = F.arrival_airport_id`

type FlightRepository struct {
	db DBConn
}

func NewFlightRepository(db DBConn) *FlightRepository {
	return &FlightRepository{db: db}
}

func (r *FlightRepository) GetFlightByID(ctx context.Context, id string) (*models.Flight, error) {
	flightID, err := uuid.Parse(id)
	if err != nil {
		return nil, models.ErrInvalidUUID
	}
	flight, err := scanFlight(r.db.QueryRow(ctx, "SELECT"+flightColumns+flightJoins+" WHERE F.id = $1", flightID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrFlightNotFound
	}
	if err != nil {
		return nil, err
	}
	return flight, nil
}

// SearchFlights filters by partial case-insensitive match on airport city
// or code, exact departure calendar date and minimum seat availability,
// ordered by departure time.
func (r *FlightRepository) SearchFlights(ctx context.Context, req models.SearchFlightsRequest) ([]models.Flight, error) {
	dayStart := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	query := "SELECT" + flightColumns + flightJoins + `
        WHERE (DEP.city ILIKE '%' || $1 || '%' OR DEP.code ILIKE '%' || $1 || '%')
          AND (ARR.city ILIKE '%' || $2 || '%' OR ARR.code ILIKE '%' || $2 || '%')
          AND F.departure_time >= $3 AND F.departure_time < $4
          AND F.available_seats >= $5
        ORDER BY F.departure_time`

	rows, err := r.db.Query(ctx, query, req.Departure, req.Arrival, dayStart, dayEnd, req.Passengers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]models.Flight, 0)
	for rows.Next() {
		flight, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *flight)
	}
	return flights, rows.Err()
}

func (r *FlightRepository) SearchAirports(ctx context.Context, query string) ([]models.Airport, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, code, name, city, country, latitude, longitude
        FROM airports
        WHERE city ILIKE '%' || $1 || '%' OR name ILIKE '%' || $1 || '%' OR code ILIKE '%' || $1 || '%'
        ORDER BY city
        LIMIT 10
    `, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airports := make([]models.Airport, 0)
	for rows.Next() {
		var a models.Airport
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.City, &a.Country, &a.Latitude, &a.Longitude); err != nil {
			return nil, err
		}
		airports = append(airports, a)
	}
	return airports, rows.Err()
}

func scanFlight(row pgx.Row) (*models.Flight, error) {
	var f models.Flight
	var durationMinutes int64
	err := row.Scan(
		&f.ID, &f.FlightNumber, &f.Airline, &f.DepartureTime, &f.ArrivalTime,
		&durationMinutes, &f.PriceCents, &f.TotalSeats, &f.AvailableSeats, &f.FlightType,
		&f.DepartureAirport.ID, &f.DepartureAirport.Code, &f.DepartureAirport.Name,
		&f.DepartureAirport.City, &f.DepartureAirport.Country,
		&f.ArrivalAirport.ID, &f.ArrivalAirport.Code, &f.ArrivalAirport.Name,
		&f.ArrivalAirport.City, &f.ArrivalAirport.Country,
	)
	if err != nil {
		return nil, err
	}
	f.Duration = time.Duration(durationMinutes) * time.Minute
	return &f, nil
}
