//go:build unit

package reservation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelid/internal/domain/booking"
)

func day(d int) time.Time {
	return time.Date(2026, 7, d, 0, 0, 0, 0, time.UTC)
}

func newReservation(t *testing.T) *Reservation {
	t.Helper()
	res, err := NewReservation(uuid.New(), day(10), day(15), day(9))
	require.NoError(t, err)
	return res
}

func TestNewReservation(t *testing.T) {
	userID := uuid.New()

	res, err := NewReservation(userID, day(10), day(15), day(9))
	require.NoError(t, err)
	assert.Equal(t, userID, res.UserID())
	assert.Equal(t, day(10), res.Start())
	assert.Equal(t, day(15), res.End())
	assert.False(t, res.IsCanceled())
	assert.Nil(t, res.Payment())

	_, err = NewReservation(userID, day(15), day(10), day(9))
	assert.ErrorIs(t, err, ErrInvalidEnvelope)
}

func TestNewReservationStampsTimestamps(t *testing.T) {
	res, err := NewReservation(uuid.New(), day(10), day(15), day(9))
	require.NoError(t, err)

	assert.False(t, res.CreatedAt().IsZero(), "created_at must carry the creation instant")
	assert.Equal(t, day(9), res.CreatedAt())
	assert.Equal(t, day(9), res.UpdatedAt())
}

func TestAttachWidensEnvelope(t *testing.T) {
	res := newReservation(t)

	stay, err := booking.NewRoomStay(uuid.New(), booking.ReconstructInterval(day(5), day(12)))
	require.NoError(t, err)
	require.NoError(t, res.Attach(stay))

	assert.Equal(t, day(5), res.Start(), "envelope start pulled back to cover the stay")
	assert.Equal(t, day(15), res.End())

	late, err := booking.NewRoomStay(uuid.New(), booking.ReconstructInterval(day(14), day(20)))
	require.NoError(t, err)
	require.NoError(t, res.Attach(late))

	assert.Equal(t, day(5), res.Start())
	assert.Equal(t, day(20), res.End(), "envelope end pushed out to cover the stay")
	assert.Len(t, res.Bookings(), 2)
}

func TestAttachOnCanceledReservation(t *testing.T) {
	res := newReservation(t)
	require.True(t, res.Cancel())

	stay, err := booking.NewRoomStay(uuid.New(), booking.ReconstructInterval(day(10), day(12)))
	require.NoError(t, err)
	assert.ErrorIs(t, res.Attach(stay), ErrReservationCanceled)
	assert.Empty(t, res.Bookings())
}

func TestCancelIsIdempotent(t *testing.T) {
	res := newReservation(t)

	assert.True(t, res.Cancel(), "first cancel transitions")
	assert.True(t, res.IsCanceled())
	assert.False(t, res.Cancel(), "second cancel is a no-op")
	assert.True(t, res.IsCanceled())
}

func TestAttachPayment(t *testing.T) {
	res := newReservation(t)

	payment, err := NewPayment(decimal.NewFromInt(800), uuid.New(), day(9))
	require.NoError(t, err)
	require.NoError(t, res.AttachPayment(payment))
	require.NotNil(t, res.Payment())
	assert.True(t, res.Payment().Amount().Equal(decimal.NewFromInt(800)))

	second, err := NewPayment(decimal.NewFromInt(100), uuid.New(), day(9))
	require.NoError(t, err)
	assert.ErrorIs(t, res.AttachPayment(second), ErrAlreadyPaid)

	canceled := newReservation(t)
	canceled.Cancel()
	assert.ErrorIs(t, canceled.AttachPayment(payment), ErrReservationCanceled)
}

func TestActivityBookings(t *testing.T) {
	res := newReservation(t)

	stay, err := booking.NewRoomStay(uuid.New(), booking.ReconstructInterval(day(10), day(12)))
	require.NoError(t, err)
	attendance, err := booking.NewActivityAttendance(uuid.New(), booking.ReconstructInterval(day(11), day(12)), 4)
	require.NoError(t, err)

	require.NoError(t, res.Attach(stay))
	require.NoError(t, res.Attach(attendance))

	activities := res.ActivityBookings()
	require.Len(t, activities, 1)
	assert.Equal(t, booking.KindActivity, activities[0].Kind())
	assert.Equal(t, 4, activities[0].Attendees())
}

func TestNewPaymentValidation(t *testing.T) {
	_, err := NewPayment(decimal.NewFromInt(-1), uuid.New(), day(1))
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = NewPayment(decimal.NewFromInt(100), uuid.Nil, day(1))
	assert.ErrorIs(t, err, ErrNilMethod)

	p, err := NewPayment(decimal.Zero, uuid.New(), day(1))
	require.NoError(t, err, "zero amount is allowed for fully discounted reservations")
	assert.True(t, p.Amount().IsZero())
}
