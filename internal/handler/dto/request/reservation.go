package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateReservationRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

type AttachRoomRequest struct {
	RoomID    uuid.UUID `json:"room_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

type AttachSeatRequest struct {
	SeatID uuid.UUID `json:"seat_id" binding:"required"`
}

type AttachActivityRequest struct {
	ActivityID uuid.UUID `json:"activity_id" binding:"required"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
	Attendees  int       `json:"attendees" binding:"required,min=1"`
}

type GeneratePaymentRequest struct {
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	MethodID uuid.UUID       `json:"method_id" binding:"required"`
}
