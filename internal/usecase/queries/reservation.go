package queries

import (
	"context"

	"github.com/google/uuid"

	"travelid/internal/infra"
	"travelid/internal/pkg/errs"
)

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	// FindByUser returns the user's reservations newest first.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]ReservationView, error)
}

type ReservationQueries interface {
	Get(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	ListForUser(ctx context.Context, userID uuid.UUID, page, size int) (Page[ReservationView], error)
}

type reservationQueriesImpl struct {
	store ReservationReadStore
}

func NewReservationQueries(store ReservationReadStore) ReservationQueries {
	return &reservationQueriesImpl{store: store}
}

func (q *reservationQueriesImpl) Get(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrReservationNotFound)
		}
		return nil, err
	}
	return view, nil
}

func (q *reservationQueriesImpl) ListForUser(ctx context.Context, userID uuid.UUID, page, size int) (Page[ReservationView], error) {
	views, err := q.store.FindByUser(ctx, userID)
	if err != nil {
		return Page[ReservationView]{}, err
	}
	return paginate(views, page, size), nil
}
