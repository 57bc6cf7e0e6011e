package repository

import (
	"context"

	"github.com/google/uuid"

	"travelid/internal/domain/reservation"
	"travelid/internal/infra"
	"travelid/internal/infra/db"
	"travelid/internal/pkg/pgconv"
)

type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(dbtx db.DBTX) *PaymentRepository {
	return &PaymentRepository{db: dbtx}
}

// Create inserts the payment and links it to the reservation. The link update
// is guarded on payment_id IS NULL, so when two payments race the second one
// fails with DUPLICATE_KEY even though it inserted its row first.
func (r *PaymentRepository) Create(ctx context.Context, reservationID uuid.UUID, p reservation.Payment) error {
	const insertQuery = `
		INSERT INTO payments (id, amount, paid_at, method_id)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, insertQuery,
		pgconv.UUIDToPgtype(p.ID()),
		pgconv.DecimalToNumeric(p.Amount()),
		pgconv.TimeToPgtype(p.PaidAt()),
		pgconv.UUIDToPgtype(p.MethodID()),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr("payment references unknown method", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to create payment", err)
	}

	const linkQuery = `
		UPDATE reservations
		SET payment_id = $2, updated_at = now()
		WHERE id = $1 AND payment_id IS NULL`

	tag, err := r.db.Exec(ctx, linkQuery,
		pgconv.UUIDToPgtype(reservationID),
		pgconv.UUIDToPgtype(p.ID()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to link payment to reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation already paid", nil, infra.KindDuplicateKey)
	}
	return nil
}
