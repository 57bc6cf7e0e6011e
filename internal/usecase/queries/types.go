package queries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Read models (DTO for read side)

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Size       int `json:"size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// paginate materializes the full filtered list then slices it; acceptable
// while catalogs stay bounded (tens of thousands, not millions).
func paginate[T any](items []T, page, size int) Page[T] {
	if size < 1 {
		size = 10
	}
	if page < 0 {
		page = 0
	}
	total := len(items)
	totalPages := (total + size - 1) / size

	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		Size:       size,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

type HotelListItem struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Category  int       `json:"category"`
	FreeRooms int       `json:"free_rooms"`
}

type FlightListItem struct {
	ID          uuid.UUID `json:"id"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Departure   time.Time `json:"departure"`
	Arrival     time.Time `json:"arrival"`
	FreeSeats   int       `json:"free_seats"`
}

type ActivityListItem struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	PlacesLeft   int       `json:"places_left"`
	MaxAttendees int       `json:"max_attendees"`
}

// RangeQuote is a free sub-interval of a room's calendar with its lenient
// total price, mirroring the storefront's availability-range view.
type RangeQuote struct {
	Start time.Time       `json:"start"`
	End   time.Time       `json:"end"`
	Total decimal.Decimal `json:"total"`
}

type BookingView struct {
	Kind       string    `json:"kind"`
	ResourceID uuid.UUID `json:"resource_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Attendees  int       `json:"attendees,omitempty"`
}

type PaymentView struct {
	ID       uuid.UUID       `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	PaidAt   time.Time       `json:"paid_at"`
	MethodID uuid.UUID       `json:"method_id"`
}

type ReservationView struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	Start     time.Time     `json:"start"`
	End       time.Time     `json:"end"`
	Canceled  bool          `json:"canceled"`
	Bookings  []BookingView `json:"bookings"`
	Payment   *PaymentView  `json:"payment,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}
