package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	models "github.com/skritek/flightbook/internal"
	"github.com/skritek/flightbook/internal/ports"
	"github.com/skritek/flightbook/internal/utils"
)

const searchDateLayout = "2006-01-02"

func GetFlightHandler(service ports.FlightService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flight, err := service.GetFlight(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			renderError(r, w, err)
			return
		}
		utils.RenderResponse(r, w, http.StatusOK, models.NewFlightResponse(*flight))
	}
}

func SearchFlightsHandler(service ports.FlightService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		departure := q.Get("departure")
		arrival := q.Get("arrival")
		rawDate := q.Get("date")
		if departure == "" || arrival == "" || rawDate == "" {
			ae := utils.NewBadRequest("departure, arrival and date are required")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		date, err := time.Parse(searchDateLayout, rawDate)
		if err != nil {
			ae := utils.NewBadRequest("invalid date format, use YYYY-MM-DD")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		passengers := 1
		if rawPassengers := q.Get("passengers"); rawPassengers != "" {
			passengers, err = strconv.Atoi(rawPassengers)
			if err != nil || passengers < 1 {
				ae := utils.NewBadRequest("passengers must be a positive integer")
				utils.RenderResponse(r, w, ae.StatusCode, ae)
				return
			}
		}

		flights, err := service.SearchFlights(r.Context(), models.SearchFlightsRequest{
			Departure:  departure,
			Arrival:    arrival,
			Date:       date,
			Passengers: passengers,
		})
		if err != nil {
			renderError(r, w, err)
			return
		}

		response := make([]models.FlightResponse, len(flights))
		for i, flight := range flights {
			response[i] = models.NewFlightResponse(flight)
		}
		utils.RenderResponse(r, w, http.StatusOK, response)
	}
}

func SearchAirportsHandler(service ports.FlightService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if query == "" {
			utils.RenderResponse(r, w, http.StatusOK, []models.AirportResponse{})
			return
		}

		airports, err := service.SearchAirports(r.Context(), query)
		if err != nil {
			renderError(r, w, err)
			return
		}

		response := make([]models.AirportResponse, len(airports))
		for i, airport := range airports {
			response[i] = models.NewAirportResponse(airport)
		}
		utils.RenderResponse(r, w, http.StatusOK, response)
	}
}
