//go:build unit

package queries

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelid/internal/infra"
	"travelid/internal/pkg/errs"
)

type stubReservationStore struct {
	view    *ReservationView
	viewErr error
	list    []ReservationView
	listErr error
}

func (s *stubReservationStore) FindByID(context.Context, uuid.UUID) (*ReservationView, error) {
	return s.view, s.viewErr
}

func (s *stubReservationStore) FindByUser(context.Context, uuid.UUID) ([]ReservationView, error) {
	return s.list, s.listErr
}

func TestReservationGet(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		want := &ReservationView{ID: uuid.New(), Start: day(1), End: day(3)}
		q := NewReservationQueries(&stubReservationStore{view: want})

		got, err := q.Get(context.Background(), want.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("unknown id", func(t *testing.T) {
		store := &stubReservationStore{viewErr: infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)}
		q := NewReservationQueries(store)

		_, err := q.Get(context.Background(), uuid.New())
		assert.ErrorIs(t, err, errs.ErrReservationNotFound)
	})

	t.Run("storage failure passes through", func(t *testing.T) {
		store := &stubReservationStore{viewErr: infra.WrapRepoErr("boom", nil)}
		q := NewReservationQueries(store)

		_, err := q.Get(context.Background(), uuid.New())
		require.Error(t, err)
		assert.NotErrorIs(t, err, errs.ErrReservationNotFound)
	})
}

func TestReservationListForUser(t *testing.T) {
	list := make([]ReservationView, 5)
	for i := range list {
		list[i] = ReservationView{ID: uuid.New()}
	}
	q := NewReservationQueries(&stubReservationStore{list: list})

	t.Run("first page", func(t *testing.T) {
		page, err := q.ListForUser(context.Background(), uuid.New(), 0, 2)
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
		assert.Equal(t, list[0].ID, page.Items[0].ID)
		assert.Equal(t, 5, page.TotalItems)
		assert.Equal(t, 3, page.TotalPages)
	})

	t.Run("last partial page", func(t *testing.T) {
		page, err := q.ListForUser(context.Background(), uuid.New(), 2, 2)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, list[4].ID, page.Items[0].ID)
	})

	t.Run("page past the end", func(t *testing.T) {
		page, err := q.ListForUser(context.Background(), uuid.New(), 9, 2)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, 5, page.TotalItems)
	})
}
