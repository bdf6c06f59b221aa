package api

import (
	"errors"
	"net/http"

	models "github.com/skritek/flightbook/internal"
	"github.com/skritek/flightbook/internal/utils"
)

// getApiError translates core errors into caller-visible outcomes. The
// status code tells clients whether a retry can help: 400s are their
// problem, 503s are transient, 409s need a different state first.
func getApiError(err error) utils.ApiError {
	switch {
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrInvalidUUID),
		errors.Is(err, models.ErrInvalidCursor),
		errors.Is(err, models.ErrInsufficientSeats):
		return utils.NewBadRequest(err.Error())
	case errors.Is(err, models.ErrFlightNotFound),
		errors.Is(err, models.ErrBookingNotFound),
		errors.Is(err, models.ErrPaymentNotFound):
		return utils.NewNotFound(err.Error())
	case errors.Is(err, models.ErrNotCancellable),
		errors.Is(err, models.ErrPaymentNotProcessable):
		return utils.NewConflict(err.Error())
	case errors.Is(err, models.ErrTransientConflict),
		errors.Is(err, models.ErrReferenceExhausted):
		return utils.NewServiceUnavailable(err.Error())
	default:
		return utils.NewInternalServerError(err.Error())
	}
}

func renderError(r *http.Request, w http.ResponseWriter, err error) {
	ae := getApiError(err)
	utils.RenderResponse(r, w, ae.StatusCode, ae)
}
