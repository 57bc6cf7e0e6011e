package repository

import (
	"context"

	"github.com/google/uuid"

	"travelid/internal/infra"
	"travelid/internal/infra/db"
	"travelid/internal/pkg/pgconv"
	"travelid/internal/usecase/shared"
)

// CommandReads serves the small lookups the write side needs without taking
// locks.
type CommandReads struct {
	db db.DBTX
}

func NewCommandReads(dbtx db.DBTX) *CommandReads {
	return &CommandReads{db: dbtx}
}

func (r *CommandReads) PaymentMethodByID(ctx context.Context, id uuid.UUID) (*shared.PaymentMethodSnapshot, error) {
	const query = `
		SELECT id, name
		FROM payment_methods
		WHERE id = $1`

	var snap shared.PaymentMethodSnapshot
	err := r.db.QueryRow(ctx, query, pgconv.UUIDToPgtype(id)).Scan(&snap.ID, &snap.Name)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment method not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment method", err)
	}
	return &snap, nil
}
