package readstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"travelid/internal/infra"
	"travelid/internal/infra/db"
	"travelid/internal/pkg/pgconv"
	"travelid/internal/usecase/queries"
)

type ReservationReadStore struct {
	db db.DBTX
}

func NewReservationReadStore(dbtx db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: dbtx}
}

func (s *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	const query = `
		SELECT r.id, r.user_id, r.start_time, r.end_time, r.canceled, r.created_at,
		       p.id, p.amount, p.paid_at, p.method_id
		FROM reservations r
		LEFT JOIN payments p ON p.id = r.payment_id
		WHERE r.id = $1`

	var view queries.ReservationView
	var payID pgtype.UUID
	var payAmount pgtype.Numeric
	var payAt pgtype.Timestamptz
	var payMethod pgtype.UUID
	err := s.db.QueryRow(ctx, query, pgconv.UUIDToPgtype(id)).Scan(
		&view.ID, &view.UserID, &view.Start, &view.End, &view.Canceled, &view.CreatedAt,
		&payID, &payAmount, &payAt, &payMethod,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}

	if payID.Valid {
		pv := queries.PaymentView{
			ID:       uuid.UUID(payID.Bytes),
			PaidAt:   payAt.Time,
			MethodID: uuid.UUID(payMethod.Bytes),
		}
		if d, ok := pgconv.DecimalFromNumeric(payAmount); ok {
			pv.Amount = d
		}
		view.Payment = &pv
	}

	view.Bookings, err = s.bookingsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *ReservationReadStore) FindByUser(ctx context.Context, userID uuid.UUID) ([]queries.ReservationView, error) {
	const query = `
		SELECT r.id, r.user_id, r.start_time, r.end_time, r.canceled, r.created_at,
		       p.id, p.amount, p.paid_at, p.method_id
		FROM reservations r
		LEFT JOIN payments p ON p.id = r.payment_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC, r.id`

	rows, err := s.db.Query(ctx, query, pgconv.UUIDToPgtype(userID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	defer rows.Close()

	var views []queries.ReservationView
	for rows.Next() {
		var view queries.ReservationView
		var payID pgtype.UUID
		var payAmount pgtype.Numeric
		var payAt pgtype.Timestamptz
		var payMethod pgtype.UUID
		if err := rows.Scan(
			&view.ID, &view.UserID, &view.Start, &view.End, &view.Canceled, &view.CreatedAt,
			&payID, &payAmount, &payAt, &payMethod,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation", err)
		}
		if payID.Valid {
			pv := queries.PaymentView{
				ID:       uuid.UUID(payID.Bytes),
				PaidAt:   payAt.Time,
				MethodID: uuid.UUID(payMethod.Bytes),
			}
			if d, ok := pgconv.DecimalFromNumeric(payAmount); ok {
				pv.Amount = d
			}
			view.Payment = &pv
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read reservations", err)
	}

	for i := range views {
		views[i].Bookings, err = s.bookingsFor(ctx, views[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return views, nil
}

// bookingsFor flattens the three attachment tables into one list sorted by
// start time.
func (s *ReservationReadStore) bookingsFor(ctx context.Context, reservationID uuid.UUID) ([]queries.BookingView, error) {
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

	rows, err := s.db.Query(ctx, query, pgconv.UUIDToPgtype(reservationID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	var out []queries.BookingView
	for rows.Next() {
		var bv queries.BookingView
		var attendees int32
		if err := rows.Scan(&bv.Kind, &bv.ResourceID, &bv.Start, &bv.End, &attendees); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking", err)
		}
		bv.Attendees = int(attendees)
		out = append(out, bv)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read bookings", err)
	}
	return out, nil
}
