package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iSnowdy/Frostel/internal/domain/booking"
	"github.com/iSnowdy/Frostel/internal/domain/reservation"
)

func TestHealthHandler_Check(t *testing.T) {
	// Setup
	e := NewTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewHealthHandler()

	// Act
	err := h.Check(c)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), `"timestamp"`)
}

func TestNewHealthHandler(t *testing.T) {
	h := NewHealthHandler()
	assert.NotNil(t, h)
}

func TestToReservationResponse(t *testing.T) {
	now := time.Now()
	r := &reservation.Reservation{
		ID:             "res-123",
		Reference:      "HB-20260910-3F2A9C1D",
		UserID:         "user-789",
		HotelID:        "hotel-1",
		RoomID:         "room-1",
		RoomTypeID:     "rt-1",
		CheckIn:        now,
		CheckOut:       now.AddDate(0, 0, 2),
		Guests:         2,
		BasePrice:      50000,
		DiscountAmount: 12500,
		TotalPrice:     37500,
		Status:         booking.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	resp := toReservationResponse(r)

	assert.Equal(t, r.ID, resp.ID)
	assert.Equal(t, r.Reference, resp.Reference)
	assert.Equal(t, r.UserID, resp.UserID)
	assert.Equal(t, r.HotelID, resp.HotelID)
	assert.Equal(t, r.RoomID, resp.RoomID)
	assert.Equal(t, r.Guests, resp.Guests)
	assert.Equal(t, r.BasePrice, resp.BasePrice)
	assert.Equal(t, r.DiscountAmount, resp.DiscountAmount)
	assert.Equal(t, r.TotalPrice, resp.TotalPrice)
	assert.Equal(t, string(r.Status), resp.Status)
	assert.Equal(t, r.CreatedAt, resp.CreatedAt)
}
