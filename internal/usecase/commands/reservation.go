package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"travelid/internal/domain/booking"
	"travelid/internal/domain/pricing"
	"travelid/internal/domain/reservation"
	"travelid/internal/infra"
	"travelid/internal/pkg/clock"
	"travelid/internal/pkg/errs"
	"travelid/internal/usecase/shared"
)

// ReservationCommands is the write side of the booking core: reservation
// lifecycle, attachment of room stays / seat assignments / activity
// attendances, cancellation and payment. Every command loads the reservation
// aggregate under a row lock, mutates it through its own methods and persists
// the delta, so two concurrent attaches for the same resource and overlapping
// dates cannot both succeed.
type ReservationCommands interface {
	CreateReservation(ctx context.Context, userID uuid.UUID, start, end time.Time) (uuid.UUID, error)
	AttachRoom(ctx context.Context, reservationID, roomID uuid.UUID, start, end time.Time) (decimal.Decimal, error)
	AttachSeat(ctx context.Context, reservationID, seatID uuid.UUID) (decimal.Decimal, error)
	AttachActivity(ctx context.Context, reservationID, activityID uuid.UUID, start, end time.Time, attendees int) (decimal.Decimal, error)
	CancelReservation(ctx context.Context, id uuid.UUID) error
	GeneratePayment(ctx context.Context, reservationID uuid.UUID, amount decimal.Decimal, methodID uuid.UUID) error
}

type reservationCommandsImpl struct {
	uow       shared.UnitOfWork
	publisher EventPublisher
	cache     AvailabilityInvalidator
	clock     clock.Clock
	logger    *slog.Logger
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	publisher EventPublisher,
	cache AvailabilityInvalidator,
	clk clock.Clock,
	logger *slog.Logger,
) ReservationCommands {
	return &reservationCommandsImpl{
		uow:       uow,
		publisher: publisher,
		cache:     cache,
		clock:     clk,
		logger:    logger,
	}
}

func (c *reservationCommandsImpl) CreateReservation(ctx context.Context, userID uuid.UUID, start, end time.Time) (uuid.UUID, error) {
	res, err := reservation.NewReservation(userID, start, end, c.clock.Now())
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrInvalidInterval)
	}

	var id uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		created, err := tx.Reservations().Create(ctx, res)
		if err != nil {
			return err
		}
		id = created
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// AttachRoom books a stay on a room. The room row is locked for the length of
// the transaction, the overlap re-check runs under that lock, and the booking
// insert only happens when the stay is still free.
func (c *reservationCommandsImpl) AttachRoom(ctx context.Context, reservationID, roomID uuid.UUID, start, end time.Time) (decimal.Decimal, error) {
	stay, err := booking.NewInterval(start, end)
	if err != nil {
		return decimal.Zero, errs.Mark(err, errs.ErrInvalidInterval)
	}
	b, err := booking.NewRoomStay(roomID, stay)
	if err != nil {
		return decimal.Zero, errs.Mark(err, errs.ErrInvalidInterval)
	}

	var total decimal.Decimal
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		resv, err := c.lockActiveReservation(ctx, tx, reservationID)
		if err != nil {
			return err
		}

		room, err := tx.Catalog().LockRoom(ctx, roomID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrRoomNotFound)
			}
			return err
		}

		conflict, err := tx.Bookings().OverlapExists(ctx, booking.KindRoom, roomID, stay)
		if err != nil {
			return err
		}
		if conflict {
			return errs.ErrSlotConflict
		}

		total, err = pricing.TotalOverRange(room.Prices, start, end)
		if err != nil {
			return err
		}

		if err := tx.Bookings().InsertRoomStay(ctx, reservationID, roomID, stay); err != nil {
			return err
		}
		return c.applyAttach(ctx, tx, resv, b)
	})
	if err != nil {
		return decimal.Zero, err
	}

	c.cache.Invalidate(ctx, booking.KindRoom)
	return total, nil
}

// AttachSeat books a seat for its flight's whole window; the flight itself is
// the authority on dates, not the client. The seat price is the one in force
// at departure.
func (c *reservationCommandsImpl) AttachSeat(ctx context.Context, reservationID, seatID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		resv, err := c.lockActiveReservation(ctx, tx, reservationID)
		if err != nil {
			return err
		}

		seat, flight, err := tx.Catalog().LockSeat(ctx, seatID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrSeatNotFound)
			}
			return err
		}

		window := booking.ReconstructInterval(flight.Departure, flight.Arrival)
		conflict, err := tx.Bookings().OverlapExists(ctx, booking.KindSeat, seatID, window)
		if err != nil {
			return err
		}
		if conflict {
			return errs.ErrSlotConflict
		}

		rec, ok := pricing.ResolveFor(seat, flight.Departure)
		if !ok {
			return errs.ErrPriceUndefined
		}
		total = rec.Value

		b, err := booking.NewSeatAssignment(seatID, window)
		if err != nil {
			return errs.Mark(err, errs.ErrInvalidInterval)
		}
		if err := tx.Bookings().InsertSeatAssignment(ctx, reservationID, seatID, window); err != nil {
			return err
		}
		return c.applyAttach(ctx, tx, resv, b)
	})
	if err != nil {
		return decimal.Zero, err
	}

	c.cache.Invalidate(ctx, booking.KindSeat)
	return total, nil
}

// AttachActivity reserves places on an activity. The capacity check and the
// counter increment are one conditional UPDATE, so concurrent attendees can
// never push confirmed past the maximum.
func (c *reservationCommandsImpl) AttachActivity(ctx context.Context, reservationID, activityID uuid.UUID, start, end time.Time, attendees int) (decimal.Decimal, error) {
	slot, err := booking.NewInterval(start, end)
	if err != nil {
		return decimal.Zero, errs.Mark(err, errs.ErrInvalidInterval)
	}
	b, err := booking.NewActivityAttendance(activityID, slot, attendees)
	if err != nil {
		return decimal.Zero, errs.Mark(err, errs.ErrInvalidInterval)
	}

	var total decimal.Decimal
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		resv, err := c.lockActiveReservation(ctx, tx, reservationID)
		if err != nil {
			return err
		}

		activity, err := tx.Catalog().LockActivity(ctx, activityID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrActivityNotFound)
			}
			return err
		}

		activityWindow := booking.ReconstructInterval(activity.StartTime, activity.EndTime)
		if !activityWindow.Overlaps(slot) {
			return errs.ErrActivityUnavailable
		}

		rec, ok := pricing.ResolveFor(activity, activity.StartTime)
		if !ok {
			return errs.ErrPriceUndefined
		}
		total = rec.Value.Mul(decimal.NewFromInt(int64(attendees)))

		ok, err = tx.Catalog().AddAttendees(ctx, activityID, attendees)
		if err != nil {
			return err
		}
		if !ok {
			return errs.ErrCapacityExceeded
		}

		if err := tx.Bookings().InsertActivityAttendance(ctx, reservationID, activityID, slot, attendees); err != nil {
			return err
		}
		return c.applyAttach(ctx, tx, resv, b)
	})
	if err != nil {
		return decimal.Zero, err
	}

	c.cache.Invalidate(ctx, booking.KindActivity)
	return total, nil
}

// CancelReservation is terminal and idempotent: the first call flips the flag
// and releases activity capacity, any further call is a no-op.
func (c *reservationCommandsImpl) CancelReservation(ctx context.Context, id uuid.UUID) error {
	var (
		evt        ReservationEvent
		transition bool
	)
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		resv, err := tx.Reservations().LockByID(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrReservationNotFound)
			}
			return err
		}
		if !resv.Cancel() {
			return nil
		}

		transition, err = tx.Reservations().SetCanceled(ctx, id)
		if err != nil {
			return err
		}
		if !transition {
			return nil
		}

		for _, b := range resv.ActivityBookings() {
			if err := tx.Catalog().ReleaseAttendees(ctx, b.ResourceID(), b.Attendees()); err != nil {
				return err
			}
		}

		evt = ReservationEvent{
			ReservationID: resv.ID(),
			UserID:        resv.UserID(),
			Start:         resv.Start(),
			End:           resv.End(),
			OccurredAt:    c.clock.Now(),
		}
		return nil
	})
	if err != nil {
		return err
	}

	if transition {
		c.cache.Invalidate(ctx, booking.KindRoom, booking.KindSeat, booking.KindActivity)
		if pubErr := c.publisher.ReservationCanceled(ctx, evt); pubErr != nil {
			c.logger.Warn("failed to publish cancellation event",
				"reservation_id", id, "error", pubErr.Error())
		}
	}
	return nil
}

// GeneratePayment attaches the one-and-only payment to the reservation.
func (c *reservationCommandsImpl) GeneratePayment(ctx context.Context, reservationID uuid.UUID, amount decimal.Decimal, methodID uuid.UUID) error {
	var evt ReservationEvent
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		resv, err := c.lockActiveReservation(ctx, tx, reservationID)
		if err != nil {
			return err
		}

		method, err := tx.Reads().PaymentMethodByID(ctx, methodID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrPaymentMethodNotFound)
			}
			return err
		}

		payment, err := reservation.NewPayment(amount, method.ID, c.clock.Now())
		if err != nil {
			return err
		}
		if err := resv.AttachPayment(payment); err != nil {
			if errors.Is(err, reservation.ErrAlreadyPaid) {
				return errs.Mark(err, errs.ErrAlreadyPaid)
			}
			return errs.Mark(err, errs.ErrReservationCanceled)
		}

		if err := tx.Payments().Create(ctx, reservationID, payment); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, errs.ErrAlreadyPaid)
			}
			return err
		}

		evt = ReservationEvent{
			ReservationID: resv.ID(),
			UserID:        resv.UserID(),
			Start:         resv.Start(),
			End:           resv.End(),
			Amount:        &amount,
			OccurredAt:    c.clock.Now(),
		}
		return nil
	})
	if err != nil {
		return err
	}

	if pubErr := c.publisher.ReservationConfirmed(ctx, evt); pubErr != nil {
		c.logger.Warn("failed to publish confirmation event",
			"reservation_id", reservationID, "error", pubErr.Error())
	}
	return nil
}

func (c *reservationCommandsImpl) lockActiveReservation(ctx context.Context, tx shared.Tx, id uuid.UUID) (*reservation.Reservation, error) {
	resv, err := tx.Reservations().LockByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrReservationNotFound)
		}
		return nil, err
	}
	if resv.IsCanceled() {
		return nil, errs.ErrReservationCanceled
	}
	return resv, nil
}

// applyAttach records the booking on the aggregate and persists the widened
// envelope when the new interval pushed it outward.
func (c *reservationCommandsImpl) applyAttach(ctx context.Context, tx shared.Tx, resv *reservation.Reservation, b booking.Booking) error {
	prev := resv.Envelope()
	if err := resv.Attach(b); err != nil {
		return errs.Mark(err, errs.ErrReservationCanceled)
	}
	next := resv.Envelope()
	if next.Start().Equal(prev.Start()) && next.End().Equal(prev.End()) {
		return nil
	}
	return tx.Reservations().WidenEnvelope(ctx, resv.ID(), next.Start(), next.End())
}
