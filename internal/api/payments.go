package api

import (
	"net/http"

	"github.com/gorilla/mux"
	models "github.com/skritek/flightbook/internal"
	"github.com/skritek/flightbook/internal/ports"
	"github.com/skritek/flightbook/internal/utils"
)

func ProcessPaymentHandler(service ports.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payment, err := service.ProcessPayment(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			renderError(r, w, err)
			return
		}
		utils.RenderResponse(r, w, http.StatusOK, models.ProcessPaymentResponse{
			Status:        payment.Status,
			TransactionID: payment.TransactionID,
		})
	}
}
