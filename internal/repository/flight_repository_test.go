package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "github.com/skritek/flightbook/internal"
	"github.com/skritek/flightbook/internal/repository"
)

func setupFlightRepo(t *testing.T) (pgxmock.PgxPoolIface, *repository.FlightRepository) {
	mockDb, err := pgxmock.NewPool()
	require.NoError(t, err)
	return mockDb, repository.NewFlightRepository(mockDb)
}

func TestGetFlightByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mockDb, repo := setupFlightRepo(t)
		defer mockDb.Close()

		flight := makeTestFlight()
		mockDb.ExpectQuery(formatQueryForRegex(flightByIDQuery)).
			WithArgs(flight.ID).
			WillReturnRows(pgxmock.NewRows(flightColumnNames).AddRow(flightRowValues(flight)...))

		got, err := repo.GetFlightByID(context.Background(), flight.ID.String())
		require.NoError(t, err)
		assert.Equal(t, flight.FlightNumber, got.FlightNumber)
		assert.Equal(t, 495*time.Minute, got.Duration)
		assert.Equal(t, "LHR", got.DepartureAirport.Code)
		assert.Equal(t, "JFK", got.ArrivalAirport.Code)
		assert.NoError(t, mockDb.ExpectationsWereMet())
	})

	t.Run("invalid id", func(t *testing.T) {
		mockDb, repo := setupFlightRepo(t)
		defer mockDb.Close()

		_, err := repo.GetFlightByID(context.Background(), "nope")
		assert.ErrorIs(t, err, models.ErrInvalidUUID)
	})

	t.Run("not found", func(t *testing.T) {
		mockDb, repo := setupFlightRepo(t)
		defer mockDb.Close()

		mockDb.ExpectQuery("SELECT").
			WithArgs(testFlightID).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetFlightByID(context.Background(), testFlightID.String())
		assert.ErrorIs(t, err, models.ErrFlightNotFound)
	})
}

func TestSearchFlights(t *testing.T) {
	t.Run("matches city or code within the departure day", func(t *testing.T) {
		mockDb, repo := setupFlightRepo(t)
		defer mockDb.Close()

		flight := makeTestFlight()
		date := time.Date(2026, 10, 1, 15, 30, 0, 0, time.UTC)
		dayStart := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
		dayEnd := dayStart.Add(24 * time.Hour)

		mockDb.ExpectQuery("SELECT").
			WithArgs("London", "New York", dayStart, dayEnd, 2).
			WillReturnRows(pgxmock.NewRows(flightColumnNames).AddRow(flightRowValues(flight)...))

		flights, err := repo.SearchFlights(context.Background(), models.SearchFlightsRequest{
			Departure:  "London",
			Arrival:    "New York",
			Date:       date,
			Passengers: 2,
		})
		require.NoError(t, err)
		require.Len(t, flights, 1)
		assert.Equal(t, flight.ID, flights[0].ID)
		assert.NoError(t, mockDb.ExpectationsWereMet())
	})

	t.Run("no matches returns empty slice", func(t *testing.T) {
		mockDb, repo := setupFlightRepo(t)
		defer mockDb.Close()

		mockDb.ExpectQuery("SELECT").
			WithArgs("Paris", "Tokyo", pgxmock.AnyArg(), pgxmock.AnyArg(), 1).
			WillReturnRows(pgxmock.NewRows(flightColumnNames))

		flights, err := repo.SearchFlights(context.Background(), models.SearchFlightsRequest{
			Departure:  "Paris",
			Arrival:    "Tokyo",
			Date:       time.Now().UTC(),
			Passengers: 1,
		})
		require.NoError(t, err)
		assert.NotNil(t, flights)
		assert.Empty(t, flights)
	})
}

func TestSearchAirports(t *testing.T) {
	mockDb, repo := setupFlightRepo(t)
	defer mockDb.Close()

	lat := 51.47
	lon := -0.4543
	rows := pgxmock.NewRows([]string{"id", "code", "name", "city", "country", "latitude", "longitude"}).
		AddRow(testDepID, "LHR", "Heathrow", "London", "United Kingdom", &lat, &lon).
		AddRow(testArrID, "LGW", "Gatwick", "London", "United Kingdom", (*float64)(nil), (*float64)(nil))

	mockDb.ExpectQuery(formatQueryForRegex(`
        SELECT id, code, name, city, country, latitude, longitude
        FROM airports
        WHERE city ILIKE '%' || $1 || '%' OR name ILIKE '%' || $1 || '%' OR code ILIKE '%' || $1 || '%'
        ORDER BY city
        LIMIT 10
    `)).
		WithArgs("lon").
		WillReturnRows(rows)

	airports, err := repo.SearchAirports(context.Background(), "lon")
	require.NoError(t, err)
	require.Len(t, airports, 2)
	assert.Equal(t, "LHR", airports[0].Code)
	require.NotNil(t, airports[0].Latitude)
	assert.InDelta(t, 51.47, *airports[0].Latitude, 0.001)
	assert.Nil(t, airports[1].Latitude)
	assert.NoError(t, mockDb.ExpectationsWereMet())
}
