package validator_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	models "github.com/skritek/flightbook/internal"
	"github.com/skritek/flightbook/internal/validator"
)

func validRequest() models.CreateBookingRequest {
	return models.CreateBookingRequest{
		UserID:    uuid.New(),
		FlightID:  uuid.New(),
		SeatCount: 1,
		Passengers: []models.PassengerRequest{
			{
				FirstName:   "Alice",
				LastName:    "Smith",
				DateOfBirth: time.Date(1990, 5, 2, 0, 0, 0, 0, time.UTC),
				Gender:      "F",
			},
		},
		PaymentMethod: "credit_card",
	}
}

func TestValidateCreateBookingRequest(t *testing.T) {
	v := validator.NewCustomValidator()

	tests := []struct {
		name    string
		mutate  func(*models.CreateBookingRequest)
		wantErr bool
	}{
		{"valid", func(r *models.CreateBookingRequest) {}, false},
		{"debit card", func(r *models.CreateBookingRequest) { r.PaymentMethod = "debit_card" }, false},
		{"paypal", func(r *models.CreateBookingRequest) { r.PaymentMethod = "paypal" }, false},
		{"passport number allowed", func(r *models.CreateBookingRequest) {
			r.Passengers[0].PassportNumber = "X1234567"
		}, false},
		{"missing user id", func(r *models.CreateBookingRequest) { r.UserID = uuid.Nil }, true},
		{"missing flight id", func(r *models.CreateBookingRequest) { r.FlightID = uuid.Nil }, true},
		{"zero seats", func(r *models.CreateBookingRequest) { r.SeatCount = 0 }, true},
		{"no passengers", func(r *models.CreateBookingRequest) { r.Passengers = nil }, true},
		{"unsupported payment method", func(r *models.CreateBookingRequest) { r.PaymentMethod = "barter" }, true},
		{"empty first name", func(r *models.CreateBookingRequest) { r.Passengers[0].FirstName = "" }, true},
		{"future date of birth", func(r *models.CreateBookingRequest) {
			r.Passengers[0].DateOfBirth = time.Now().Add(24 * time.Hour)
		}, true},
		{"unknown gender code", func(r *models.CreateBookingRequest) { r.Passengers[0].Gender = "X" }, true},
		{"passport number too long", func(r *models.CreateBookingRequest) {
			r.Passengers[0].PassportNumber = "ABCDEFGHIJKLMNOPQRSTU"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			err := v.Validate(req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAirportCode(t *testing.T) {
	v := validator.NewCustomValidator()

	type airportQuery struct {
		Code string `validate:"airport_code"`
	}

	assert.NoError(t, v.Validate(airportQuery{Code: "LHR"}))
	assert.Error(t, v.Validate(airportQuery{Code: "lhr"}))
	assert.Error(t, v.Validate(airportQuery{Code: "LHRX"}))
	assert.Error(t, v.Validate(airportQuery{Code: "L1"}))
}
