package payment

import (
	"time"

	"github.com/iSnowdy/Frostel/internal/domain/booking"
)

// ReferencePrefix は決済の参照コードプレフィックス
const ReferencePrefix = "PAY"

// BookingType は決済が参照する予約の種別タグ
// タグと参照の組み合わせは Validate で構造的に強制される
type BookingType string

const (
	TypeHotel   BookingType = "hotel"
	TypeFlight  BookingType = "flight"
	TypePackage BookingType = "package"
)

// Status は決済の状態を表す
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusRefunded   Status = "refunded"
)

// Payment は決済エンティティを表す
// ゲートウェイ連携は行わず、報告された結果のみを記録する
type Payment struct {
	ID              string
	Reference       string
	UserID          string
	BookingType     BookingType
	ReservationID   *string
	FlightBookingID *string
	Amount          int64 // 通貨最小単位
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewPayment は新しい決済を PENDING 状態で作成する
func NewPayment(userID string, bookingType BookingType, reservationID, flightBookingID *string, amount int64) *Payment {
	now := time.Now()
	return &Payment{
		Reference:       booking.NewReference(ReferencePrefix, now),
		UserID:          userID,
		BookingType:     bookingType,
		ReservationID:   reservationID,
		FlightBookingID: flightBookingID,
		Amount:          amount,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Validate は決済種別と参照の整合性を検証する
// hotel はホテル予約のみ、flight はフライト予約のみ、package は両方を要求する
func (p *Payment) Validate() error {
	if p.UserID == "" {
		return ErrUserIDRequired
	}
	if p.Amount <= 0 {
		return ErrInvalidAmount
	}
	switch p.BookingType {
	case TypeHotel:
		if p.ReservationID == nil || p.FlightBookingID != nil {
			return ErrInvalidLinkage
		}
	case TypeFlight:
		if p.FlightBookingID == nil || p.ReservationID != nil {
			return ErrInvalidLinkage
		}
	case TypePackage:
		if p.ReservationID == nil || p.FlightBookingID == nil {
			return ErrInvalidLinkage
		}
	default:
		return ErrInvalidLinkage
	}
	return nil
}

// TransitionTo は決済状態を遷移させる
// pending → processing/completed/failed、processing → completed/failed、
// completed → refunded のみ正当
func (p *Payment) TransitionTo(to Status) error {
	if p.Status == to {
		return nil
	}
	legal := map[Status][]Status{
		StatusPending:    {StatusProcessing, StatusCompleted, StatusFailed},
		StatusProcessing: {StatusCompleted, StatusFailed},
		StatusCompleted:  {StatusRefunded},
	}
	next, ok := legal[p.Status]
	if !ok {
		return ErrPaymentAlreadyFinal
	}
	for _, s := range next {
		if s == to {
			p.Status = to
			p.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrInvalidPaymentTransition
}

// IsCompleted は決済が完了済みかを返す
func (p *Payment) IsCompleted() bool {
	return p.Status == StatusCompleted
}

// AuditSnapshot は監査ログに記録する固定フィールドのスナップショットを返す
func (p *Payment) AuditSnapshot() map[string]any {
	snap := map[string]any{
		"reference":    p.Reference,
		"user_id":      p.UserID,
		"booking_type": string(p.BookingType),
		"amount":       p.Amount,
		"status":       string(p.Status),
	}
	if p.ReservationID != nil {
		snap["reservation_id"] = *p.ReservationID
	}
	if p.FlightBookingID != nil {
		snap["flight_booking_id"] = *p.FlightBookingID
	}
	return snap
}
