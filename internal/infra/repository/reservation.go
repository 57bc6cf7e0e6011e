package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"travelid/internal/domain/booking"
	"travelid/internal/domain/reservation"
	"travelid/internal/infra"
	"travelid/internal/infra/db"
	"travelid/internal/pkg/pgconv"
)

type ReservationRepository struct {
	db db.DBTX
}

func NewReservationRepository(dbtx db.DBTX) *ReservationRepository {
	return &ReservationRepository{db: dbtx}
}

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) (uuid.UUID, error) {
	const query = `
		INSERT INTO reservations (id, user_id, start_time, end_time, canceled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, false, $5, $6)
		RETURNING id`

	var id uuid.UUID
	err := r.db.QueryRow(ctx, query,
		pgconv.UUIDToPgtype(res.ID()),
		pgconv.UUIDToPgtype(res.UserID()),
		pgconv.TimeToPgtype(res.Start()),
		pgconv.TimeToPgtype(res.End()),
		pgconv.TimeToPgtype(res.CreatedAt()),
		pgconv.TimeToPgtype(res.UpdatedAt()),
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return uuid.Nil, infra.WrapRepoErr("reservation references unknown user", err, infra.KindForeignKeyViolated)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create reservation", err)
	}
	return id, nil
}

// LockByID takes FOR UPDATE on the reservation row so concurrent attach,
// cancel and payment calls for the same reservation serialize, then
// reconstructs the aggregate (payment, bookings) under that lock.
func (r *ReservationRepository) LockByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	const query = `
		SELECT r.id, r.user_id, r.start_time, r.end_time, r.canceled, r.created_at, r.updated_at,
		       p.id, p.amount, p.paid_at, p.method_id
		FROM reservations r
		LEFT JOIN payments p ON p.id = r.payment_id
		WHERE r.id = $1
		FOR UPDATE OF r`

	var (
		resID, userID        uuid.UUID
		start, end           time.Time
		canceled             bool
		createdAt, updatedAt time.Time
		payID, payMethod     pgtype.UUID
		payAmount            pgtype.Numeric
		payAt                pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, query, pgconv.UUIDToPgtype(id)).Scan(
		&resID, &userID, &start, &end, &canceled, &createdAt, &updatedAt,
		&payID, &payAmount, &payAt, &payMethod,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock reservation", err)
	}

	var payment *reservation.Payment
	if payID.Valid {
		amount, _ := pgconv.DecimalFromNumeric(payAmount)
		p := reservation.ReconstructPayment(uuid.UUID(payID.Bytes), amount, uuid.UUID(payMethod.Bytes), payAt.Time)
		payment = &p
	}

	bookings, err := r.bookingsFor(ctx, resID)
	if err != nil {
		return nil, err
	}

	return reservation.ReconstructReservation(
		resID, userID,
		booking.ReconstructInterval(start, end),
		canceled, payment, bookings,
		createdAt, updatedAt,
	), nil
}

func (r *ReservationRepository) bookingsFor(ctx context.Context, reservationID uuid.UUID) ([]booking.Booking, error) {
	const query = `
		SELECT 'room' AS kind, room_id AS resource_id, start_time, end_time, 0 AS attendees
		FROM room_stays
		WHERE reservation_id = $1
		UNION ALL
		SELECT 'seat', seat_id, start_time, end_time, 0
		FROM seat_assignments
		WHERE reservation_id = $1
		UNION ALL
		SELECT 'activity', activity_id, start_time, end_time, attendees
		FROM activity_attendances
		WHERE reservation_id = $1
		ORDER BY start_time, resource_id`

	rows, err := r.db.Query(ctx, query, pgconv.UUIDToPgtype(reservationID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservation bookings", err)
	}
	defer rows.Close()

	var out []booking.Booking
	for rows.Next() {
		var kind string
		var resourceID uuid.UUID
		var start, end time.Time
		var attendees int32
		if err := rows.Scan(&kind, &resourceID, &start, &end, &attendees); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation booking", err)
		}
		out = append(out, booking.ReconstructBooking(
			booking.Kind(kind), resourceID,
			booking.ReconstructInterval(start, end),
			int(attendees),
		))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read reservation bookings", err)
	}
	return out, nil
}

func (r *ReservationRepository) WidenEnvelope(ctx context.Context, id uuid.UUID, start, end time.Time) error {
	const query = `
		UPDATE reservations
		SET start_time = $2, end_time = $3, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		pgconv.UUIDToPgtype(id),
		pgconv.TimeToPgtype(start),
		pgconv.TimeToPgtype(end),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to widen reservation envelope", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

// SetCanceled flips the flag only when it is still false; false return means
// another transaction canceled first.
func (r *ReservationRepository) SetCanceled(ctx context.Context, id uuid.UUID) (bool, error) {
	const query = `
		UPDATE reservations
		SET canceled = true, updated_at = now()
		WHERE id = $1 AND canceled = false`

	tag, err := r.db.Exec(ctx, query, pgconv.UUIDToPgtype(id))
	if err != nil {
		return false, infra.WrapRepoErr("failed to cancel reservation", err)
	}
	return tag.RowsAffected() == 1, nil
}
