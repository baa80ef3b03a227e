package flight

import (
	"time"

	"github.com/iSnowdy/Frostel/internal/domain/booking"
)

// ReferencePrefix はフライト予約の参照コードプレフィックス
const ReferencePrefix = "FB"

// Booking はフライト予約エンティティを表す
// 搭乗者情報は予約ユーザーと異なってもよい（代理予約）
type Booking struct {
	ID             string
	Reference      string
	UserID         string
	FlightID       string
	FlightClassID  string
	PassengerName  string
	PassengerEmail string
	BasePrice      int64
	DiscountAmount int64
	TotalPrice     int64
	Status         booking.Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewBooking は新しいフライト予約を PENDING 状態で作成する
func NewBooking(userID, flightID, flightClassID, passengerName, passengerEmail string) *Booking {
	now := time.Now()
	return &Booking{
		Reference:      booking.NewReference(ReferencePrefix, now),
		UserID:         userID,
		FlightID:       flightID,
		FlightClassID:  flightClassID,
		PassengerName:  passengerName,
		PassengerEmail: passengerEmail,
		Status:         booking.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// ApplyQuote は価格スナップショットを設定する（作成時のみ）
func (b *Booking) ApplyQuote(basePrice, discountAmount, totalPrice int64) {
	b.BasePrice = basePrice
	b.DiscountAmount = discountAmount
	b.TotalPrice = totalPrice
}

// IsPending は予約が保留中かを返す
func (b *Booking) IsPending() bool {
	return b.Status == booking.StatusPending
}

// Advance は予約を次の状態へ前進させる
func (b *Booking) Advance(to booking.Status) error {
	if err := booking.FlightLifecycle.CanAdvance(b.Status, to); err != nil {
		return err
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	return nil
}

// Cancel は予約をキャンセルする。終端状態からは不可
func (b *Booking) Cancel() error {
	if err := booking.FlightLifecycle.CanCancel(b.Status); err != nil {
		return err
	}
	b.Status = booking.StatusCancelled
	b.UpdatedAt = time.Now()
	return nil
}

// Validate は予約の検証を行う
func (b *Booking) Validate() error {
	if b.UserID == "" {
		return ErrUserIDRequired
	}
	if b.FlightID == "" {
		return ErrFlightIDRequired
	}
	if b.FlightClassID == "" {
		return ErrFlightClassIDRequired
	}
	if b.PassengerName == "" {
		return ErrPassengerNameRequired
	}
	if b.PassengerEmail == "" {
		return ErrPassengerEmailRequired
	}
	return nil
}

// AuditSnapshot は監査ログに記録する固定フィールドのスナップショットを返す
func (b *Booking) AuditSnapshot() map[string]any {
	return map[string]any{
		"reference":       b.Reference,
		"user_id":         b.UserID,
		"flight_id":       b.FlightID,
		"flight_class_id": b.FlightClassID,
		"passenger_name":  b.PassengerName,
		"total_price":     b.TotalPrice,
		"discount_amount": b.DiscountAmount,
		"status":          string(b.Status),
	}
}
