package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iSnowdy/Frostel/internal/application"
	"github.com/iSnowdy/Frostel/internal/domain/booking"
	"github.com/iSnowdy/Frostel/internal/domain/inventory"
	"github.com/iSnowdy/Frostel/internal/domain/reservation"
)

// MockReservationService はReservationServiceInterfaceのモック
type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) CreateReservation(ctx context.Context, input application.CreateReservationInput) (*reservation.Reservation, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationService) GetReservation(ctx context.Context, id string) (*reservation.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationService) GetUserReservations(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reservation.Reservation), args.Error(1)
}

func (m *MockReservationService) AdvanceReservation(ctx context.Context, id string, target booking.Status, actorID *string) (*reservation.Reservation, error) {
	args := m.Called(ctx, id, target, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationService) CancelReservation(ctx context.Context, id string, actorID *string) (*reservation.Reservation, error) {
	args := m.Called(ctx, id, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func sampleReservation() *reservation.Reservation {
	now := time.Now()
	return &reservation.Reservation{
		ID:         "res-1",
		Reference:  "HB-20260910-3F2A9C1D",
		UserID:     "user-1",
		HotelID:    "hotel-1",
		RoomID:     "room-1",
		RoomTypeID: "rt-1",
		CheckIn:    now.AddDate(0, 0, 7),
		CheckOut:   now.AddDate(0, 0, 9),
		Guests:     2,
		BasePrice:  50000, DiscountAmount: 12500, TotalPrice: 37500,
		Status: booking.StatusPending, CreatedAt: now, UpdatedAt: now,
	}
}

func TestReservationHandler_Create(t *testing.T) {
	body := `{"hotel_id":"hotel-1","room_id":"room-1","room_type_id":"rt-1","check_in":"2026-09-10","check_out":"2026-09-12","guests":2}`

	t.Run("予約を作成できる", func(t *testing.T) {
		mockService := new(MockReservationService)
		mockService.On("CreateReservation", mock.Anything, mock.MatchedBy(func(input application.CreateReservationInput) bool {
			return input.UserID == "user-1" && input.RoomID == "room-1" && input.Guests == 2
		})).Return(sampleReservation(), nil)

		e := NewTestEcho()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", "user-1")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := NewReservationHandler(mockService)
		err := h.Create(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "HB-20260910-3F2A9C1D")
		mockService.AssertExpectations(t)
	})

	t.Run("ユーザーIDがない場合は401", func(t *testing.T) {
		mockService := new(MockReservationService)

		e := NewTestEcho()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := NewReservationHandler(mockService)
		err := h.Create(c)

		require.Error(t, err)
		assertHTTPStatus(t, err, http.StatusUnauthorized)
	})

	t.Run("日付形式が不正な場合は400", func(t *testing.T) {
		mockService := new(MockReservationService)

		e := NewTestEcho()
		badBody := `{"hotel_id":"hotel-1","room_id":"room-1","room_type_id":"rt-1","check_in":"10/09/2026","check_out":"2026-09-12","guests":2}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(badBody))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", "user-1")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := NewReservationHandler(mockService)
		err := h.Create(c)

		require.Error(t, err)
		assertHTTPStatus(t, err, http.StatusBadRequest)
	})

	t.Run("部屋が既に予約済みの場合は409", func(t *testing.T) {
		mockService := new(MockReservationService)
		mockService.On("CreateReservation", mock.Anything, mock.Anything).Return(nil, inventory.ErrInsufficientInventory)

		e := NewTestEcho()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", "user-1")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := NewReservationHandler(mockService)
		err := h.Create(c)

		require.Error(t, err)
		assertHTTPStatus(t, err, http.StatusConflict)
		mockService.AssertExpectations(t)
	})
}

func TestReservationHandler_GetByID(t *testing.T) {
	t.Run("予約を取得できる", func(t *testing.T) {
		mockService := new(MockReservationService)
		mockService.On("GetReservation", mock.Anything, "res-1").Return(sampleReservation(), nil)

		e := NewTestEcho()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/res-1", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("res-1")

		h := NewReservationHandler(mockService)
		err := h.GetByID(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("存在しない予約は404", func(t *testing.T) {
		mockService := new(MockReservationService)
		mockService.On("GetReservation", mock.Anything, "missing").Return(nil, reservation.ErrReservationNotFound)

		e := NewTestEcho()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/missing", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("missing")

		h := NewReservationHandler(mockService)
		err := h.GetByID(c)

		require.Error(t, err)
		assertHTTPStatus(t, err, http.StatusNotFound)
	})
}

func TestReservationHandler_Advance(t *testing.T) {
	t.Run("予約を前進できる", func(t *testing.T) {
		confirmed := sampleReservation()
		confirmed.Status = booking.StatusConfirmed

		mockService := new(MockReservationService)
		mockService.On("AdvanceReservation", mock.Anything, "res-1", booking.StatusConfirmed, mock.Anything).Return(confirmed, nil)

		e := NewTestEcho()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations/res-1/advance", strings.NewReader(`{"status":"confirmed"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("res-1")

		h := NewReservationHandler(mockService)
		err := h.Advance(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"confirmed"`)
		mockService.AssertExpectations(t)
	})

	t.Run("段階を飛ばした遷移は400", func(t *testing.T) {
		mockService := new(MockReservationService)
		mockService.On("AdvanceReservation", mock.Anything, "res-1", booking.StatusCheckedOut, mock.Anything).Return(nil, booking.ErrInvalidTransition)

		e := NewTestEcho()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations/res-1/advance", strings.NewReader(`{"status":"checked_out"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("res-1")

		h := NewReservationHandler(mockService)
		err := h.Advance(c)

		require.Error(t, err)
		assertHTTPStatus(t, err, http.StatusBadRequest)
	})

	t.Run("並行更新と競合した場合は409", func(t *testing.T) {
		mockService := new(MockReservationService)
		mockService.On("AdvanceReservation", mock.Anything, "res-1", booking.StatusConfirmed, mock.Anything).Return(nil, booking.ErrConcurrentConflict)

		e := NewTestEcho()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations/res-1/advance", strings.NewReader(`{"status":"confirmed"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("res-1")

		h := NewReservationHandler(mockService)
		err := h.Advance(c)

		require.Error(t, err)
		assertHTTPStatus(t, err, http.StatusConflict)
	})
}

func TestReservationHandler_Cancel(t *testing.T) {
	t.Run("予約をキャンセルできる", func(t *testing.T) {
		cancelled := sampleReservation()
		cancelled.Status = booking.StatusCancelled

		mockService := new(MockReservationService)
		mockService.On("CancelReservation", mock.Anything, "res-1", mock.Anything).Return(cancelled, nil)

		e := NewTestEcho()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations/res-1/cancel", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("res-1")

		h := NewReservationHandler(mockService)
		err := h.Cancel(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"cancelled"`)
	})

	t.Run("終端状態の予約のキャンセルは400", func(t *testing.T) {
		mockService := new(MockReservationService)
		mockService.On("CancelReservation", mock.Anything, "res-1", mock.Anything).Return(nil, booking.ErrAlreadyFinal)

		e := NewTestEcho()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations/res-1/cancel", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("res-1")

		h := NewReservationHandler(mockService)
		err := h.Cancel(c)

		require.Error(t, err)
		assertHTTPStatus(t, err, http.StatusBadRequest)
	})
}
