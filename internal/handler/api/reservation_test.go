//go:build unit

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"travelid/internal/handler/api"
	"travelid/internal/pkg/errs"
	"travelid/internal/usecase/queries"
)

type stubReservationCommands struct {
	createID  uuid.UUID
	createErr error
	total     decimal.Decimal
	attachErr error
	cancelErr error
	payErr    error
}

func (s *stubReservationCommands) CreateReservation(_ context.Context, _ uuid.UUID, _, _ time.Time) (uuid.UUID, error) {
	return s.createID, s.createErr
}

func (s *stubReservationCommands) AttachRoom(_ context.Context, _, _ uuid.UUID, _, _ time.Time) (decimal.Decimal, error) {
	return s.total, s.attachErr
}

func (s *stubReservationCommands) AttachSeat(_ context.Context, _, _ uuid.UUID) (decimal.Decimal, error) {
	return s.total, s.attachErr
}

func (s *stubReservationCommands) AttachActivity(_ context.Context, _, _ uuid.UUID, _, _ time.Time, _ int) (decimal.Decimal, error) {
	return s.total, s.attachErr
}

func (s *stubReservationCommands) CancelReservation(context.Context, uuid.UUID) error {
	return s.cancelErr
}

func (s *stubReservationCommands) GeneratePayment(context.Context, uuid.UUID, decimal.Decimal, uuid.UUID) error {
	return s.payErr
}

type stubReservationQueries struct {
	view    *queries.ReservationView
	getErr  error
	page    queries.Page[queries.ReservationView]
	listErr error

	gotPage int
	gotSize int
}

func (s *stubReservationQueries) Get(context.Context, uuid.UUID) (*queries.ReservationView, error) {
	return s.view, s.getErr
}

func (s *stubReservationQueries) ListForUser(_ context.Context, _ uuid.UUID, page, size int) (queries.Page[queries.ReservationView], error) {
	s.gotPage = page
	s.gotSize = size
	return s.page, s.listErr
}

type ReservationHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	commands *stubReservationCommands
	queries  *stubReservationQueries
	userID   uuid.UUID
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.commands = &stubReservationCommands{createID: uuid.New()}
	s.queries = &stubReservationQueries{}
	s.userID = uuid.New()
	handler := api.NewReservationHandler(s.commands, s.queries)

	auth := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("user_id", s.userID)
		c.Next()
	}

	s.router.POST("/reservations", auth, handler.CreateReservation)
	s.router.GET("/reservations", auth, handler.GetUserReservations)
	s.router.GET("/reservations/:id", auth, handler.GetReservation)
	s.router.DELETE("/reservations/:id", auth, handler.CancelReservation)
	s.router.POST("/reservations/:id/rooms", auth, handler.AttachRoom)
	s.router.POST("/reservations/:id/seats", auth, handler.AttachSeat)
	s.router.POST("/reservations/:id/activities", auth, handler.AttachActivity)
	s.router.POST("/reservations/:id/payment", auth, handler.GeneratePayment)
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func (s *ReservationHandlerTestSuite) perform(method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *ReservationHandlerTestSuite) TestCreateReservation() {
	body := map[string]any{
		"start_time": "2025-07-10T00:00:00Z",
		"end_time":   "2025-07-15T00:00:00Z",
	}

	s.Run("returns 201 with the new id", func() {
		rec := s.perform(http.MethodPost, "/reservations", body)
		s.Equal(http.StatusCreated, rec.Code)

		var got map[string]string
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
		want := map[string]string{"id": s.commands.createID.String()}
		s.Empty(cmp.Diff(want, got))
	})

	s.Run("missing dates", func() {
		rec := s.perform(http.MethodPost, "/reservations", map[string]any{"start_time": "2025-07-10T00:00:00Z"})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("inverted interval", func() {
		s.commands.createErr = errs.ErrInvalidInterval
		defer func() { s.commands.createErr = nil }()
		rec := s.perform(http.MethodPost, "/reservations", body)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("unauthenticated", func() {
		req := httptest.NewRequest(http.MethodPost, "/reservations", nil)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestGetReservation() {
	s.Run("found", func() {
		s.queries.view = &queries.ReservationView{ID: uuid.New(), UserID: s.userID}
		rec := s.perform(http.MethodGet, "/reservations/"+s.queries.view.ID.String(), nil)
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), s.queries.view.ID.String())
	})

	s.Run("not found", func() {
		s.queries.view = nil
		s.queries.getErr = errs.ErrReservationNotFound
		defer func() { s.queries.getErr = nil }()
		rec := s.perform(http.MethodGet, "/reservations/"+uuid.NewString(), nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("malformed id", func() {
		rec := s.perform(http.MethodGet, "/reservations/not-a-uuid", nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestGetUserReservations() {
	s.Run("page param is 1-based", func() {
		rec := s.perform(http.MethodGet, "/reservations?page=3&size=10", nil)
		s.Equal(http.StatusOK, rec.Code)
		s.Equal(2, s.queries.gotPage)
		s.Equal(10, s.queries.gotSize)
	})

	s.Run("defaults applied", func() {
		rec := s.perform(http.MethodGet, "/reservations", nil)
		s.Equal(http.StatusOK, rec.Code)
		s.Equal(0, s.queries.gotPage)
		s.Equal(20, s.queries.gotSize)
	})
}

func (s *ReservationHandlerTestSuite) TestAttachRoom() {
	url := "/reservations/" + uuid.NewString() + "/rooms"
	body := map[string]any{
		"room_id":    uuid.NewString(),
		"start_time": "2025-07-11T00:00:00Z",
		"end_time":   "2025-07-14T00:00:00Z",
	}

	cases := []struct {
		name       string
		err        error
		expectCode int
	}{
		{name: "booked", err: nil, expectCode: http.StatusOK},
		{name: "unknown room", err: errs.ErrRoomNotFound, expectCode: http.StatusNotFound},
		{name: "slot conflict", err: errs.ErrSlotConflict, expectCode: http.StatusConflict},
		{name: "canceled reservation", err: errs.ErrReservationCanceled, expectCode: http.StatusConflict},
		{name: "no price for dates", err: errs.ErrPriceUndefined, expectCode: http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.commands.total = decimal.NewFromInt(400)
			s.commands.attachErr = tc.err
			defer func() { s.commands.attachErr = nil }()

			rec := s.perform(http.MethodPost, url, body)
			s.Equal(tc.expectCode, rec.Code)
			if tc.err == nil {
				s.Contains(rec.Body.String(), `"total":"400"`)
			}
		})
	}

	s.Run("missing room_id", func() {
		rec := s.perform(http.MethodPost, url, map[string]any{
			"start_time": "2025-07-11T00:00:00Z",
			"end_time":   "2025-07-14T00:00:00Z",
		})
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestAttachActivity() {
	url := "/reservations/" + uuid.NewString() + "/activities"

	s.Run("zero attendees rejected by validation", func() {
		rec := s.perform(http.MethodPost, url, map[string]any{
			"activity_id": uuid.NewString(),
			"start_time":  "2025-07-11T00:00:00Z",
			"end_time":    "2025-07-12T00:00:00Z",
			"attendees":   0,
		})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("full activity conflicts", func() {
		s.commands.attachErr = errs.ErrCapacityExceeded
		defer func() { s.commands.attachErr = nil }()
		rec := s.perform(http.MethodPost, url, map[string]any{
			"activity_id": uuid.NewString(),
			"start_time":  "2025-07-11T00:00:00Z",
			"end_time":    "2025-07-12T00:00:00Z",
			"attendees":   2,
		})
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("slot outside activity window", func() {
		s.commands.attachErr = errs.ErrActivityUnavailable
		defer func() { s.commands.attachErr = nil }()
		rec := s.perform(http.MethodPost, url, map[string]any{
			"activity_id": uuid.NewString(),
			"start_time":  "2025-07-20T00:00:00Z",
			"end_time":    "2025-07-21T00:00:00Z",
			"attendees":   2,
		})
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestCancelReservation() {
	s.Run("returns 204", func() {
		rec := s.perform(http.MethodDelete, "/reservations/"+uuid.NewString(), nil)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("unknown reservation", func() {
		s.commands.cancelErr = errs.ErrReservationNotFound
		defer func() { s.commands.cancelErr = nil }()
		rec := s.perform(http.MethodDelete, "/reservations/"+uuid.NewString(), nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestGeneratePayment() {
	url := "/reservations/" + uuid.NewString() + "/payment"
	body := map[string]any{
		"amount":    "800",
		"method_id": uuid.NewString(),
	}

	s.Run("returns 201", func() {
		rec := s.perform(http.MethodPost, url, body)
		s.Equal(http.StatusCreated, rec.Code)
	})

	s.Run("second payment conflicts", func() {
		s.commands.payErr = errs.ErrAlreadyPaid
		defer func() { s.commands.payErr = nil }()
		rec := s.perform(http.MethodPost, url, body)
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("unknown method", func() {
		s.commands.payErr = errs.ErrPaymentMethodNotFound
		defer func() { s.commands.payErr = nil }()
		rec := s.perform(http.MethodPost, url, body)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}
