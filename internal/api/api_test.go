package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	models "github.com/skritek/flightbook/internal"
	"github.com/skritek/flightbook/internal/api"
)

type mockBookingService struct {
	mock.Mock
}

func (m *mockBookingService) CreateBooking(ctx context.Context, request *models.CreateBookingRequest) (*models.Booking, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockBookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockBookingService) AllBookings(ctx context.Context, req models.GetBookingsRequest) (*models.AllBookingsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AllBookingsResponse), args.Error(1)
}

func (m *mockBookingService) CancelBooking(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockBookingService) ProcessPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

type mockFlightService struct {
	mock.Mock
}

func (m *mockFlightService) GetFlight(ctx context.Context, id string) (*models.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Flight), args.Error(1)
}

func (m *mockFlightService) SearchFlights(ctx context.Context, req models.SearchFlightsRequest) ([]models.Flight, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Flight), args.Error(1)
}

func (m *mockFlightService) SearchAirports(ctx context.Context, query string) ([]models.Airport, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Airport), args.Error(1)
}

func validCreateRequest() map[string]interface{} {
	return map[string]interface{}{
		"user_id":    uuid.New().String(),
		"flight_id":  uuid.New().String(),
		"seat_count": 1,
		"passengers": []map[string]interface{}{
			{
				"first_name":    "Alice",
				"last_name":     "Smith",
				"date_of_birth": "1990-05-02T00:00:00Z",
				"gender":        "F",
			},
		},
		"payment_method": "credit_card",
	}
}

func sampleBooking() *models.Booking {
	return &models.Booking{
		ID:              uuid.New(),
		Reference:       "A1B2C3D4",
		UserID:          uuid.New(),
		Flight:          models.Flight{ID: uuid.New(), FlightNumber: "BA117"},
		BookingDate:     time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		TotalPriceCents: 45000,
		Status:          models.BookingPending,
		SeatsBooked:     1,
	}
}

func TestCreateBookingHandler(t *testing.T) {
	tests := []struct {
		name         string
		body         interface{}
		setupMock    func(*mockBookingService)
		expectedCode int
	}{
		{
			name: "created",
			body: validCreateRequest(),
			setupMock: func(m *mockBookingService) {
				m.On("CreateBooking", mock.Anything, mock.AnythingOfType("*models.CreateBookingRequest")).
					Return(sampleBooking(), nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "malformed json",
			body:         "{not-json",
			setupMock:    func(m *mockBookingService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "validation failure",
			body: func() map[string]interface{} {
				req := validCreateRequest()
				req["payment_method"] = "barter"
				return req
			}(),
			setupMock:    func(m *mockBookingService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "insufficient seats",
			body: validCreateRequest(),
			setupMock: func(m *mockBookingService) {
				m.On("CreateBooking", mock.Anything, mock.Anything).
					Return(nil, models.ErrInsufficientSeats)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "flight not found",
			body: validCreateRequest(),
			setupMock: func(m *mockBookingService) {
				m.On("CreateBooking", mock.Anything, mock.Anything).
					Return(nil, models.ErrFlightNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "transient conflict",
			body: validCreateRequest(),
			setupMock: func(m *mockBookingService) {
				m.On("CreateBooking", mock.Anything, mock.Anything).
					Return(nil, models.ErrTransientConflict)
			},
			expectedCode: http.StatusServiceUnavailable,
		},
		{
			name: "reference generation exhausted",
			body: validCreateRequest(),
			setupMock: func(m *mockBookingService) {
				m.On("CreateBooking", mock.Anything, mock.Anything).
					Return(nil, models.ErrReferenceExhausted)
			},
			expectedCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockBookingService)
			tt.setupMock(svc)

			var body bytes.Buffer
			switch v := tt.body.(type) {
			case string:
				body.WriteString(v)
			default:
				require.NoError(t, json.NewEncoder(&body).Encode(v))
			}

			req := httptest.NewRequest(http.MethodPost, "/v1/bookings", &body)
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			api.CreateBookingHandler(svc)(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
			if tt.expectedCode == http.StatusCreated {
				var resp models.BookingResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "A1B2C3D4", resp.BookingReference)
				assert.Equal(t, models.BookingPending, resp.Status)
			}
		})
	}
}

func TestGetBookingHandler(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(mockBookingService)
		booking := sampleBooking()
		svc.On("GetBooking", mock.Anything, booking.ID.String()).Return(booking, nil)

		router := mux.NewRouter()
		router.HandleFunc("/v1/bookings/{id}", api.GetBookingHandler(svc)).Methods(http.MethodGet)

		req := httptest.NewRequest(http.MethodGet, "/v1/bookings/"+booking.ID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp models.BookingResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, booking.ID.String(), resp.ID)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(mockBookingService)
		id := uuid.New().String()
		svc.On("GetBooking", mock.Anything, id).Return(nil, models.ErrBookingNotFound)

		router := mux.NewRouter()
		router.HandleFunc("/v1/bookings/{id}", api.GetBookingHandler(svc)).Methods(http.MethodGet)

		req := httptest.NewRequest(http.MethodGet, "/v1/bookings/"+id, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListBookingsHandler(t *testing.T) {
	t.Run("passes limit and cursor through", func(t *testing.T) {
		svc := new(mockBookingService)
		svc.On("AllBookings", mock.Anything, models.GetBookingsRequest{Limit: 5, Cursor: "abc"}).
			Return(&models.AllBookingsResponse{Bookings: []models.BookingResponse{}, Limit: 5}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/bookings?limit=5&cursor=abc", nil)
		rec := httptest.NewRecorder()
		api.ListBookingsHandler(svc)(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("rejects non-integer limit", func(t *testing.T) {
		svc := new(mockBookingService)

		req := httptest.NewRequest(http.MethodGet, "/v1/bookings?limit=abc", nil)
		rec := httptest.NewRecorder()
		api.ListBookingsHandler(svc)(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "AllBookings")
	})

	t.Run("invalid cursor maps to bad request", func(t *testing.T) {
		svc := new(mockBookingService)
		svc.On("AllBookings", mock.Anything, mock.Anything).Return(nil, models.ErrInvalidCursor)

		req := httptest.NewRequest(http.MethodGet, "/v1/bookings?cursor=zzz", nil)
		rec := httptest.NewRecorder()
		api.ListBookingsHandler(svc)(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCancelBookingHandler(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
	}{
		{"cancelled", nil, http.StatusOK},
		{"not cancellable", models.ErrNotCancellable, http.StatusConflict},
		{"not found", models.ErrBookingNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockBookingService)
			id := uuid.New().String()
			if tt.err == nil {
				cancelled := sampleBooking()
				cancelled.Status = models.BookingCancelled
				svc.On("CancelBooking", mock.Anything, id).Return(cancelled, nil)
			} else {
				svc.On("CancelBooking", mock.Anything, id).Return(nil, tt.err)
			}

			router := mux.NewRouter()
			router.HandleFunc("/v1/bookings/{id}/cancel", api.CancelBookingHandler(svc)).Methods(http.MethodPost)

			req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/v1/bookings/%s/cancel", id), nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
		})
	}
}

func TestProcessPaymentHandler(t *testing.T) {
	t.Run("processed", func(t *testing.T) {
		svc := new(mockBookingService)
		id := uuid.New().String()
		svc.On("ProcessPayment", mock.Anything, id).Return(&models.Payment{
			Status:        models.PaymentSuccess,
			TransactionID: "TXN20260901120000-abcd1234",
		}, nil)

		router := mux.NewRouter()
		router.HandleFunc("/v1/payments/{id}/process", api.ProcessPaymentHandler(svc)).Methods(http.MethodPost)

		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/v1/payments/%s/process", id), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp models.ProcessPaymentResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, models.PaymentSuccess, resp.Status)
		assert.Equal(t, "TXN20260901120000-abcd1234", resp.TransactionID)
	})

	t.Run("not processable", func(t *testing.T) {
		svc := new(mockBookingService)
		id := uuid.New().String()
		svc.On("ProcessPayment", mock.Anything, id).Return(nil, models.ErrPaymentNotProcessable)

		router := mux.NewRouter()
		router.HandleFunc("/v1/payments/{id}/process", api.ProcessPaymentHandler(svc)).Methods(http.MethodPost)

		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/v1/payments/%s/process", id), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestGetFlightHandler(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(mockFlightService)
		flight := &models.Flight{ID: uuid.New(), FlightNumber: "BA117", Duration: 495 * time.Minute}
		svc.On("GetFlight", mock.Anything, flight.ID.String()).Return(flight, nil)

		router := mux.NewRouter()
		router.HandleFunc("/v1/flights/{id}", api.GetFlightHandler(svc)).Methods(http.MethodGet)

		req := httptest.NewRequest(http.MethodGet, "/v1/flights/"+flight.ID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp models.FlightResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "BA117", resp.FlightNumber)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(mockFlightService)
		id := uuid.New().String()
		svc.On("GetFlight", mock.Anything, id).Return(nil, models.ErrFlightNotFound)

		router := mux.NewRouter()
		router.HandleFunc("/v1/flights/{id}", api.GetFlightHandler(svc)).Methods(http.MethodGet)

		req := httptest.NewRequest(http.MethodGet, "/v1/flights/"+id, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSearchFlightsHandler(t *testing.T) {
	t.Run("returns matching flights", func(t *testing.T) {
		svc := new(mockFlightService)
		flights := []models.Flight{{
			ID:           uuid.New(),
			FlightNumber: "BA117",
			Duration:     495 * time.Minute,
			PriceCents:   45000,
		}}
		svc.On("SearchFlights", mock.Anything, models.SearchFlightsRequest{
			Departure:  "London",
			Arrival:    "New York",
			Date:       time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
			Passengers: 2,
		}).Return(flights, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/flights/search?departure=London&arrival=New+York&date=2026-10-01&passengers=2", nil)
		rec := httptest.NewRecorder()
		api.SearchFlightsHandler(svc)(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp []models.FlightResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "BA117", resp[0].FlightNumber)
		assert.Equal(t, int64(495), resp[0].DurationMinutes)
	})

	t.Run("missing parameters", func(t *testing.T) {
		svc := new(mockFlightService)

		req := httptest.NewRequest(http.MethodGet, "/v1/flights/search?departure=London", nil)
		rec := httptest.NewRecorder()
		api.SearchFlightsHandler(svc)(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "SearchFlights")
	})

	t.Run("bad date format", func(t *testing.T) {
		svc := new(mockFlightService)

		req := httptest.NewRequest(http.MethodGet, "/v1/flights/search?departure=London&arrival=Paris&date=01-10-2026", nil)
		rec := httptest.NewRecorder()
		api.SearchFlightsHandler(svc)(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad passenger count", func(t *testing.T) {
		svc := new(mockFlightService)

		req := httptest.NewRequest(http.MethodGet, "/v1/flights/search?departure=London&arrival=Paris&date=2026-10-01&passengers=0", nil)
		rec := httptest.NewRecorder()
		api.SearchFlightsHandler(svc)(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSearchAirportsHandler(t *testing.T) {
	t.Run("empty query returns empty list", func(t *testing.T) {
		svc := new(mockFlightService)

		req := httptest.NewRequest(http.MethodGet, "/v1/airports/search", nil)
		rec := httptest.NewRecorder()
		api.SearchAirportsHandler(svc)(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
		svc.AssertNotCalled(t, "SearchAirports")
	})

	t.Run("returns matches", func(t *testing.T) {
		svc := new(mockFlightService)
		svc.On("SearchAirports", mock.Anything, "lon").Return([]models.Airport{
			{ID: uuid.New(), Code: "LHR", Name: "Heathrow", City: "London", Country: "United Kingdom"},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/airports/search?q=lon", nil)
		rec := httptest.NewRecorder()
		api.SearchAirportsHandler(svc)(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp []models.AirportResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "LHR", resp[0].Code)
	})
}
