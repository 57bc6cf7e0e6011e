package response

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"travelid/internal/usecase/queries"
)

type CreateReservationResponse struct {
	ID uuid.UUID `json:"id"`
}

// AttachResponse reports the price of the booking that was just attached.
type AttachResponse struct {
	Total decimal.Decimal `json:"total"`
}

type ReservationResponse struct {
	*queries.ReservationView
}

func FromReservationView(view *queries.ReservationView) *ReservationResponse {
	return &ReservationResponse{ReservationView: view}
}
