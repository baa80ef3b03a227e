package reservation

import (
	"time"

	"github.com/iSnowdy/Frostel/internal/domain/booking"
)

// ReferencePrefix はホテル予約の参照コードプレフィックス
const ReferencePrefix = "HB"

// Reservation はホテル予約エンティティを表す
// 価格スナップショット（BasePrice/DiscountAmount/TotalPrice）は作成時に確定し、
// 以降の割引変更の影響を受けない。金額は通貨最小単位（セント）
type Reservation struct {
	ID             string
	Reference      string
	UserID         string
	HotelID        string
	RoomID         string
	RoomTypeID     string
	CheckIn        time.Time
	CheckOut       time.Time
	Guests         int
	BasePrice      int64
	DiscountAmount int64
	TotalPrice     int64
	Status         booking.Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewReservation は新しいホテル予約を PENDING 状態で作成する
func NewReservation(userID, hotelID, roomID, roomTypeID string, checkIn, checkOut time.Time, guests int) *Reservation {
	now := time.Now()
	return &Reservation{
		Reference:  booking.NewReference(ReferencePrefix, now),
		UserID:     userID,
		HotelID:    hotelID,
		RoomID:     roomID,
		RoomTypeID: roomTypeID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     guests,
		Status:     booking.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// TotalNights は宿泊数を返す
// 日付のみから導出される読み取り専用の値で、独立して設定はできない
func (r *Reservation) TotalNights() int {
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}

// ApplyQuote は価格スナップショットを設定する（作成時のみ）
func (r *Reservation) ApplyQuote(basePrice, discountAmount, totalPrice int64) {
	r.BasePrice = basePrice
	r.DiscountAmount = discountAmount
	r.TotalPrice = totalPrice
}

// IsPending は予約が保留中かを返す
func (r *Reservation) IsPending() bool {
	return r.Status == booking.StatusPending
}

// Advance は予約を次の状態へ前進させる
func (r *Reservation) Advance(to booking.Status) error {
	if err := booking.HotelLifecycle.CanAdvance(r.Status, to); err != nil {
		return err
	}
	r.Status = to
	r.UpdatedAt = time.Now()
	return nil
}

// Cancel は予約をキャンセルする。終端状態からは不可
func (r *Reservation) Cancel() error {
	if err := booking.HotelLifecycle.CanCancel(r.Status); err != nil {
		return err
	}
	r.Status = booking.StatusCancelled
	r.UpdatedAt = time.Now()
	return nil
}

// Validate は予約の検証を行う
func (r *Reservation) Validate() error {
	if r.UserID == "" {
		return ErrUserIDRequired
	}
	if r.HotelID == "" {
		return ErrHotelIDRequired
	}
	if r.RoomID == "" {
		return ErrRoomIDRequired
	}
	if r.RoomTypeID == "" {
		return ErrRoomTypeIDRequired
	}
	if !r.CheckOut.After(r.CheckIn) {
		return ErrInvalidStayRange
	}
	if r.Guests < 1 {
		return ErrInvalidGuestCount
	}
	return nil
}

// AuditSnapshot は監査ログに記録する固定フィールドのスナップショットを返す
// レコードサイズを抑えるため全カラムではなく主要フィールドのみ
func (r *Reservation) AuditSnapshot() map[string]any {
	return map[string]any{
		"reference":       r.Reference,
		"user_id":         r.UserID,
		"room_id":         r.RoomID,
		"check_in":        r.CheckIn.Format(time.RFC3339),
		"check_out":       r.CheckOut.Format(time.RFC3339),
		"total_price":     r.TotalPrice,
		"discount_amount": r.DiscountAmount,
		"status":          string(r.Status),
	}
}
