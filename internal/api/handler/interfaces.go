package handler

import (
	"context"
	"time"

	"github.com/iSnowdy/Frostel/internal/application"
	"github.com/iSnowdy/Frostel/internal/domain/audit"
	"github.com/iSnowdy/Frostel/internal/domain/booking"
	"github.com/iSnowdy/Frostel/internal/domain/flight"
	"github.com/iSnowdy/Frostel/internal/domain/payment"
	"github.com/iSnowdy/Frostel/internal/domain/reservation"
)

// ReservationServiceInterface はホテル予約サービスのインターフェース
type ReservationServiceInterface interface {
	CreateReservation(ctx context.Context, input application.CreateReservationInput) (*reservation.Reservation, error)
	GetReservation(ctx context.Context, id string) (*reservation.Reservation, error)
	GetUserReservations(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error)
	AdvanceReservation(ctx context.Context, id string, target booking.Status, actorID *string) (*reservation.Reservation, error)
	CancelReservation(ctx context.Context, id string, actorID *string) (*reservation.Reservation, error)
}

// FlightBookingServiceInterface はフライト予約サービスのインターフェース
type FlightBookingServiceInterface interface {
	CreateBooking(ctx context.Context, input application.CreateFlightBookingInput) (*flight.Booking, error)
	GetBooking(ctx context.Context, id string) (*flight.Booking, error)
	GetUserBookings(ctx context.Context, userID string, limit, offset int) ([]*flight.Booking, error)
	AdvanceBooking(ctx context.Context, id string, target booking.Status, actorID *string) (*flight.Booking, error)
	CancelBooking(ctx context.Context, id string, actorID *string) (*flight.Booking, error)
	CountAvailableSeats(ctx context.Context, flightClassID string) (int, error)
}

// PaymentServiceInterface は決済サービスのインターフェース
type PaymentServiceInterface interface {
	RecordPayment(ctx context.Context, input application.RecordPaymentInput) (*payment.Payment, error)
	GetPayment(ctx context.Context, id string) (*payment.Payment, error)
	GetUserPayments(ctx context.Context, userID string, limit, offset int) ([]*payment.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id string, target payment.Status, actorID *string) (*payment.Payment, error)
}

// AuditServiceInterface は監査ログ検索サービスのインターフェース
type AuditServiceInterface interface {
	ListByRecord(ctx context.Context, tableName, recordID string, limit, offset int) ([]*audit.Entry, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*audit.Entry, error)
	ListByTimeRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*audit.Entry, error)
}
