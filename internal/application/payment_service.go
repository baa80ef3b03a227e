package application

import (
	"context"
	"fmt"

	"github.com/iSnowdy/Frostel/internal/domain/audit"
	"github.com/iSnowdy/Frostel/internal/domain/booking"
	"github.com/iSnowdy/Frostel/internal/domain/flight"
	"github.com/iSnowdy/Frostel/internal/domain/payment"
	"github.com/iSnowdy/Frostel/internal/domain/reservation"
	"github.com/iSnowdy/Frostel/internal/domain/transaction"
)

// auditTablePayments は監査ログ上の決済テーブル名
const auditTablePayments = "payments"

// PaymentService は決済の記録と、決済結果の予約状態への伝播を担う
// 決済完了時の予約確定は決済更新と同一トランザクションで行われる
type PaymentService struct {
	txm             transaction.Manager
	paymentRepo     payment.Repository
	reservationRepo reservation.Repository
	flightRepo      flight.Repository
	auditRepo       audit.Repository
}

func NewPaymentService(
	txm transaction.Manager,
	pr payment.Repository,
	rr reservation.Repository,
	fr flight.Repository,
	auditRepo audit.Repository,
) *PaymentService {
	return &PaymentService{
		txm:             txm,
		paymentRepo:     pr,
		reservationRepo: rr,
		flightRepo:      fr,
		auditRepo:       auditRepo,
	}
}

type RecordPaymentInput struct {
	UserID          string
	BookingType     payment.BookingType
	ReservationID   *string
	FlightBookingID *string
	Amount          int64
}

// RecordPayment は決済を PENDING 状態で記録する
// 決済種別と予約参照の組み合わせは永続化前に検証し、
// 不正な場合は payment.ErrInvalidLinkage で拒否する
func (s *PaymentService) RecordPayment(ctx context.Context, input RecordPaymentInput) (*payment.Payment, error) {
	p := payment.NewPayment(input.UserID, input.BookingType, input.ReservationID, input.FlightBookingID, input.Amount)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.txm.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	// 参照先の予約を同一トランザクション内で行ロック付きで確認する
	// 確認と決済作成の間に予約が消えることはない
	if p.ReservationID != nil {
		if _, err := s.reservationRepo.GetForUpdate(ctx, tx, *p.ReservationID); err != nil {
			return nil, err
		}
	}
	if p.FlightBookingID != nil {
		if _, err := s.flightRepo.GetForUpdate(ctx, tx, *p.FlightBookingID); err != nil {
			return nil, err
		}
	}

	if err := s.paymentRepo.Create(ctx, tx, p); err != nil {
		return nil, err
	}
	entry := audit.NewInsert(auditTablePayments, p.ID, &input.UserID, p.AuditSnapshot())
	if err := s.auditRepo.Insert(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("監査記録に失敗: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}
	return p, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id string) (*payment.Payment, error) {
	return s.paymentRepo.GetByID(ctx, id)
}

func (s *PaymentService) GetUserPayments(ctx context.Context, userID string, limit, offset int) ([]*payment.Payment, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.paymentRepo.ListByUser(ctx, userID, limit, offset)
}

// UpdatePaymentStatus はゲートウェイから報告された決済結果を反映する
// COMPLETED への遷移では、参照先の予約を同一トランザクション内で
// PENDING → CONFIRMED に前進させる。予約が既にキャンセル済みの場合は
// 決済完了ごと失敗しロールバックされる（競合の勝者は一方のみ）。
// FAILED は予約を PENDING のまま残し、REFUNDED は予約をキャンセルしない
func (s *PaymentService) UpdatePaymentStatus(ctx context.Context, id string, target payment.Status, actorID *string) (*payment.Payment, error) {
	p, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == target {
		return p, nil
	}

	before := p.AuditSnapshot()
	expected := p.Status
	if err := p.TransitionTo(target); err != nil {
		return nil, err
	}

	tx, err := s.txm.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.paymentRepo.UpdateStatus(ctx, tx, p, expected); err != nil {
		return nil, err
	}

	if target == payment.StatusCompleted {
		if err := s.confirmLinkedBookings(ctx, tx, p, actorID); err != nil {
			return nil, err
		}
	}

	entry := audit.NewUpdate(auditTablePayments, p.ID, actorID, before, p.AuditSnapshot())
	if err := s.auditRepo.Insert(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("監査記録に失敗: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}
	return p, nil
}

// confirmLinkedBookings は決済が参照する予約を PENDING → CONFIRMED に前進させる
// 前進できない予約が1件でもあれば呼び出し元のトランザクションごと失敗する
func (s *PaymentService) confirmLinkedBookings(ctx context.Context, tx transaction.Tx, p *payment.Payment, actorID *string) error {
	if p.ReservationID != nil {
		res, err := s.reservationRepo.GetForUpdate(ctx, tx, *p.ReservationID)
		if err != nil {
			return err
		}
		before := res.AuditSnapshot()
		expected := res.Status
		if err := res.Advance(booking.StatusConfirmed); err != nil {
			return fmt.Errorf("ホテル予約 %s の確定に失敗: %w", res.Reference, err)
		}
		if err := s.reservationRepo.UpdateStatus(ctx, tx, res, expected); err != nil {
			return err
		}
		entry := audit.NewUpdate(auditTableReservations, res.ID, actorID, before, res.AuditSnapshot())
		if err := s.auditRepo.Insert(ctx, tx, entry); err != nil {
			return fmt.Errorf("監査記録に失敗: %w", err)
		}
	}

	if p.FlightBookingID != nil {
		b, err := s.flightRepo.GetForUpdate(ctx, tx, *p.FlightBookingID)
		if err != nil {
			return err
		}
		before := b.AuditSnapshot()
		expected := b.Status
		if err := b.Advance(booking.StatusConfirmed); err != nil {
			return fmt.Errorf("フライト予約 %s の確定に失敗: %w", b.Reference, err)
		}
		if err := s.flightRepo.UpdateStatus(ctx, tx, b, expected); err != nil {
			return err
		}
		entry := audit.NewUpdate(auditTableFlightBookings, b.ID, actorID, before, b.AuditSnapshot())
		if err := s.auditRepo.Insert(ctx, tx, entry); err != nil {
			return fmt.Errorf("監査記録に失敗: %w", err)
		}
	}

	return nil
}
