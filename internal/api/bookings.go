package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	models "github.com/skritek/flightbook/internal"
	"github.com/skritek/flightbook/internal/ports"
	"github.com/skritek/flightbook/internal/utils"
	"github.com/skritek/flightbook/internal/validator"
)

func CreateBookingHandler(service ports.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request models.CreateBookingRequest
		if err := utils.JsonDecodeBody(r, &request); err != nil {
			ae := utils.NewBadRequest("error json decoding body")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		v := validator.NewCustomValidator()
		if err := v.Validate(request); err != nil {
			ae := utils.NewBadRequest(err.Error())
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		booking, err := service.CreateBooking(r.Context(), &request)
		if err != nil {
			renderError(r, w, err)
			return
		}
		utils.RenderResponse(r, w, http.StatusCreated, models.NewBookingResponse(*booking))
	}
}

func GetBookingHandler(service ports.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		booking, err := service.GetBooking(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			renderError(r, w, err)
			return
		}
		utils.RenderResponse(r, w, http.StatusOK, models.NewBookingResponse(*booking))
	}
}

func ListBookingsHandler(service ports.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := models.GetBookingsRequest{
			Cursor: r.URL.Query().Get("cursor"),
		}
		if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
			limit, err := strconv.Atoi(rawLimit)
			if err != nil {
				ae := utils.NewBadRequest("limit must be an integer")
				utils.RenderResponse(r, w, ae.StatusCode, ae)
				return
			}
			req.Limit = limit
		}

		response, err := service.AllBookings(r.Context(), req)
		if err != nil {
			renderError(r, w, err)
			return
		}
		utils.RenderResponse(r, w, http.StatusOK, response)
	}
}

func CancelBookingHandler(service ports.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		booking, err := service.CancelBooking(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			renderError(r, w, err)
			return
		}
		utils.RenderResponse(r, w, http.StatusOK, models.NewBookingResponse(*booking))
	}
}
