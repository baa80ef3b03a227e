package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlightClass_Validate(t *testing.T) {
	tests := []struct {
		name      string
		flightID  string
		total     int
		available int
		wantErr   error
	}{
		{"正常な在庫", "flight-1", 100, 50, nil},
		{"空席0も正常", "flight-1", 100, 0, nil},
		{"満席分の空席も正常", "flight-1", 100, 100, nil},
		{"フライトID未指定", "", 100, 50, ErrFlightIDRequired},
		{"総座席数0", "flight-1", 0, 0, ErrInvalidTotalSeats},
		{"空席数が負", "flight-1", 100, -1, ErrSeatCountOutOfRange},
		{"空席数が総座席数超過", "flight-1", 100, 101, ErrSeatCountOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &FlightClass{FlightID: tt.flightID, TotalSeats: tt.total, AvailableSeats: tt.available}
			err := fc.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFlightClass_HasCapacity(t *testing.T) {
	fc := &FlightClass{TotalSeats: 10, AvailableSeats: 1}
	assert.True(t, fc.HasCapacity())
	fc.AvailableSeats = 0
	assert.False(t, fc.HasCapacity())
}

func TestRoom_IsBookable(t *testing.T) {
	tests := []struct {
		status RoomStatus
		want   bool
	}{
		{RoomAvailable, true},
		{RoomReserved, true},
		{RoomOccupied, true},
		{RoomMaintenance, false},
		{RoomCleaning, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			r := &Room{Status: tt.status}
			assert.Equal(t, tt.want, r.IsBookable())
		})
	}
}
