package errs

import "errors"

// Sentinel errors shared across the booking usecase layers
var (
	// Catalog lookups
	ErrHotelNotFound         = errors.New("hotel not found")
	ErrRoomNotFound          = errors.New("room not found")
	ErrFlightNotFound        = errors.New("flight not found")
	ErrSeatNotFound          = errors.New("seat not found")
	ErrActivityNotFound      = errors.New("activity not found")
	ErrPaymentMethodNotFound = errors.New("payment method not found")

	// Reservation lifecycle
	ErrReservationNotFound = errors.New("reservation not found")
	ErrReservationCanceled = errors.New("reservation is canceled")
	ErrSlotConflict        = errors.New("booking overlaps an existing reservation")
	ErrActivityUnavailable = errors.New("activity does not run in the requested interval")
	ErrCapacityExceeded    = errors.New("activity capacity exceeded")
	ErrAlreadyPaid         = errors.New("reservation already has a payment")

	// Pricing
	ErrPriceUndefined = errors.New("no price defined for the requested time")

	// Validation
	ErrInvalidInterval = errors.New("invalid interval")
)
