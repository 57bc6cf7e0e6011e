package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"travelid/internal/domain/booking"
	"travelid/internal/domain/catalog"
	"travelid/internal/domain/pricing"
	"travelid/internal/infra"
	"travelid/internal/pkg/errs"
)

type PriceReadStore interface {
	// TimelineFor returns the resource's price records; a NOT_FOUND repository
	// error when the resource itself is absent.
	TimelineFor(ctx context.Context, kind booking.Kind, resourceID uuid.UUID) ([]pricing.Record, error)
	RoomsOfHotel(ctx context.Context, hotelID uuid.UUID) ([]catalog.Room, error)
	SeatsOfFlight(ctx context.Context, flightID uuid.UUID) ([]catalog.Seat, error)
	ActivitiesByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Activity, error)
}

type PricingQueries interface {
	// CurrentPrice returns nil when no record covers the instant; callers show
	// "price unavailable", never zero.
	CurrentPrice(ctx context.Context, kind booking.Kind, resourceID uuid.UUID, at time.Time) (*decimal.Decimal, error)
	TotalPrice(ctx context.Context, kind booking.Kind, resourceID uuid.UUID, start, end time.Time) (decimal.Decimal, error)
	CurrentRoomPrices(ctx context.Context, hotelID uuid.UUID, at time.Time) (map[uuid.UUID]*decimal.Decimal, error)
	CurrentSeatPrices(ctx context.Context, flightID uuid.UUID, at time.Time) (map[uuid.UUID]*decimal.Decimal, error)
	CurrentActivityPrices(ctx context.Context, ids []uuid.UUID, at time.Time) (map[uuid.UUID]*decimal.Decimal, error)
}

type pricingQueriesImpl struct {
	store PriceReadStore
}

func NewPricingQueries(store PriceReadStore) PricingQueries {
	return &pricingQueriesImpl{store: store}
}

func (q *pricingQueriesImpl) CurrentPrice(ctx context.Context, kind booking.Kind, resourceID uuid.UUID, at time.Time) (*decimal.Decimal, error) {
	records, err := q.store.TimelineFor(ctx, kind, resourceID)
	if err != nil {
		return nil, markNotFound(err, kind)
	}
	rec, ok := pricing.Resolve(records, at)
	if !ok {
		return nil, nil
	}
	v := rec.Value
	return &v, nil
}

func (q *pricingQueriesImpl) TotalPrice(ctx context.Context, kind booking.Kind, resourceID uuid.UUID, start, end time.Time) (decimal.Decimal, error) {
	records, err := q.store.TimelineFor(ctx, kind, resourceID)
	if err != nil {
		return decimal.Zero, markNotFound(err, kind)
	}
	return pricing.TotalOverRange(records, start, end)
}

func (q *pricingQueriesImpl) CurrentRoomPrices(ctx context.Context, hotelID uuid.UUID, at time.Time) (map[uuid.UUID]*decimal.Decimal, error) {
	rooms, err := q.store.RoomsOfHotel(ctx, hotelID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrHotelNotFound)
		}
		return nil, err
	}

	prices := make(map[uuid.UUID]*decimal.Decimal, len(rooms))
	for i := range rooms {
		prices[rooms[i].ID] = currentValue(&rooms[i], at)
	}
	return prices, nil
}

func (q *pricingQueriesImpl) CurrentSeatPrices(ctx context.Context, flightID uuid.UUID, at time.Time) (map[uuid.UUID]*decimal.Decimal, error) {
	seats, err := q.store.SeatsOfFlight(ctx, flightID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrFlightNotFound)
		}
		return nil, err
	}

	prices := make(map[uuid.UUID]*decimal.Decimal, len(seats))
	for i := range seats {
		prices[seats[i].ID] = currentValue(&seats[i], at)
	}
	return prices, nil
}

func (q *pricingQueriesImpl) CurrentActivityPrices(ctx context.Context, ids []uuid.UUID, at time.Time) (map[uuid.UUID]*decimal.Decimal, error) {
	activities, err := q.store.ActivitiesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	prices := make(map[uuid.UUID]*decimal.Decimal, len(activities))
	for i := range activities {
		prices[activities[i].ID] = currentValue(&activities[i], at)
	}
	return prices, nil
}

// currentValue maps "no covering record" to nil, matching the storefront's
// price maps where an unpriced resource shows as unavailable.
func currentValue(res pricing.PricedResource, at time.Time) *decimal.Decimal {
	rec, ok := pricing.ResolveFor(res, at)
	if !ok {
		return nil
	}
	v := rec.Value
	return &v
}

func markNotFound(err error, kind booking.Kind) error {
	if !infra.IsKind(err, infra.KindNotFound) {
		return err
	}
	switch kind {
	case booking.KindRoom:
		return errs.Mark(err, errs.ErrRoomNotFound)
	case booking.KindSeat:
		return errs.Mark(err, errs.ErrSeatNotFound)
	case booking.KindActivity:
		return errs.Mark(err, errs.ErrActivityNotFound)
	default:
		return err
	}
}
