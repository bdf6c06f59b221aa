package validator

import (
	"time"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewCustomValidator() *CustomValidator {
	v := validator.New()
	v.RegisterValidation("past_date", validatePastDate)
	v.RegisterValidation("payment_method", validatePaymentMethod)
	v.RegisterValidation("airport_code", validateAirportCode)

	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func validatePastDate(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return date.Before(time.Now())
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	supportedMethods := map[string]bool{
		"credit_card": true,
		"debit_card":  true,
		"paypal":      true,
	}
	return supportedMethods[fl.Field().String()]
}

func validateAirportCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) != 3 {
		return false
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}
