package inventory

import "time"

// FlightClass はフライトの搭乗クラス在庫（予約可能ユニット）を表す
// AvailableSeats は常に [0, TotalSeats] の範囲に収まる
type FlightClass struct {
	ID             string
	FlightID       string
	ClassName      string
	TotalSeats     int
	AvailableSeats int
	SeatPrice      int64 // 通貨最小単位
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasCapacity は空席があるかを返す
func (f *FlightClass) HasCapacity() bool {
	return f.AvailableSeats > 0
}

// Validate は在庫不変条件の検証を行う
func (f *FlightClass) Validate() error {
	if f.FlightID == "" {
		return ErrFlightIDRequired
	}
	if f.TotalSeats <= 0 {
		return ErrInvalidTotalSeats
	}
	if f.AvailableSeats < 0 || f.AvailableSeats > f.TotalSeats {
		return ErrSeatCountOutOfRange
	}
	return nil
}
