package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/iSnowdy/Frostel/internal/domain/audit"
	"github.com/iSnowdy/Frostel/internal/domain/booking"
	"github.com/iSnowdy/Frostel/internal/domain/discount"
	"github.com/iSnowdy/Frostel/internal/domain/flight"
	"github.com/iSnowdy/Frostel/internal/domain/inventory"
	"github.com/iSnowdy/Frostel/internal/domain/transaction"
	redislock "github.com/iSnowdy/Frostel/internal/infrastructure/redis"
	"github.com/iSnowdy/Frostel/internal/pkg/logger"
	"github.com/iSnowdy/Frostel/internal/pkg/metrics"
)

// auditTableFlightBookings は監査ログ上のフライト予約テーブル名
const auditTableFlightBookings = "flight_bookings"

// AvailabilityCache は搭乗クラスの空席数キャッシュのインターフェース
// 正は常にデータベース側にあり、キャッシュは照会の高速化にのみ使う
type AvailabilityCache interface {
	Get(ctx context.Context, flightClassID string) (count int, found bool, err error)
	Set(ctx context.Context, flightClassID string, count int) error
	Invalidate(ctx context.Context, flightClassID string) error
}

// FlightBookingService はフライト予約のライフサイクルを駆動するサービス
// 座席の確保・解放は予約の状態変更・監査記録と同一トランザクションで行う
type FlightBookingService struct {
	txm         transaction.Manager
	flightRepo  flight.Repository
	classRepo   inventory.FlightClassRepository
	auditRepo   audit.Repository
	pricing     PriceQuoter
	lockManager *redislock.LockManager
	cache       AvailabilityCache
}

func NewFlightBookingService(
	txm transaction.Manager,
	fr flight.Repository,
	classRepo inventory.FlightClassRepository,
	auditRepo audit.Repository,
	pricing PriceQuoter,
	lm *redislock.LockManager,
	cache AvailabilityCache,
) *FlightBookingService {
	return &FlightBookingService{
		txm:         txm,
		flightRepo:  fr,
		classRepo:   classRepo,
		auditRepo:   auditRepo,
		pricing:     pricing,
		lockManager: lm,
		cache:       cache,
	}
}

type CreateFlightBookingInput struct {
	UserID         string
	FlightID       string
	FlightClassID  string
	PassengerName  string
	PassengerEmail string
}

// CreateBooking は搭乗クラスの空席を1つ確保し、価格スナップショットを確定して
// PENDING の予約を作成する。空席がない場合は inventory.ErrInsufficientInventory
func (s *FlightBookingService) CreateBooking(ctx context.Context, input CreateFlightBookingInput) (*flight.Booking, error) {
	b := flight.NewBooking(input.UserID, input.FlightID, input.FlightClassID, input.PassengerName, input.PassengerEmail)
	if err := b.Validate(); err != nil {
		return nil, err
	}

	if s.lockManager != nil {
		lock, err := s.lockManager.AcquireLockWithRetry(ctx, "flight_class:"+input.FlightClassID, 10*time.Second, 3, 100*time.Millisecond)
		if err != nil {
			if errors.Is(err, redislock.ErrLockNotAcquired) {
				return nil, booking.ErrConcurrentConflict
			}
			return nil, fmt.Errorf("ロック取得に失敗: %w", err)
		}
		defer lock.Release(ctx)
	}

	fc, err := s.classRepo.GetByID(ctx, input.FlightClassID)
	if err != nil {
		return nil, err
	}
	if fc.FlightID != input.FlightID {
		return nil, inventory.ErrFlightClassNotFound
	}

	quote, err := s.pricing.Quote(ctx, discount.ScopeFlight, fc.FlightID, fc.SeatPrice, time.Now())
	if err != nil {
		return nil, err
	}
	b.ApplyQuote(quote.BasePrice, quote.DiscountAmount, quote.TotalPrice)

	tx, err := s.txm.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	// 条件付きデクリメント。最後の1席を争った場合は片方だけが成功する
	if err := s.classRepo.ReserveSeat(ctx, tx, input.FlightClassID); err != nil {
		if errors.Is(err, inventory.ErrInsufficientInventory) {
			s.countBooking("insufficient_inventory")
		}
		return nil, err
	}

	if err := s.flightRepo.Create(ctx, tx, b); err != nil {
		return nil, err
	}

	entry := audit.NewInsert(auditTableFlightBookings, b.ID, &input.UserID, b.AuditSnapshot())
	if err := s.auditRepo.Insert(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("監査記録に失敗: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}
	s.invalidateCache(ctx, input.FlightClassID)
	s.countBooking("success")
	s.gaugeActive("", b.Status)
	return b, nil
}

func (s *FlightBookingService) GetBooking(ctx context.Context, id string) (*flight.Booking, error) {
	return s.flightRepo.GetByID(ctx, id)
}

func (s *FlightBookingService) GetByReference(ctx context.Context, reference string) (*flight.Booking, error) {
	return s.flightRepo.GetByReference(ctx, reference)
}

func (s *FlightBookingService) GetUserBookings(ctx context.Context, userID string, limit, offset int) ([]*flight.Booking, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.flightRepo.ListByUser(ctx, userID, limit, offset)
}

// AdvanceBooking は予約を指定状態へ前進させる
// 現在状態と同じ場合は何もしない（監査エントリも増えない）
func (s *FlightBookingService) AdvanceBooking(ctx context.Context, id string, target booking.Status, actorID *string) (*flight.Booking, error) {
	b, err := s.flightRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status == target {
		return b, nil
	}
	if target == booking.StatusCancelled {
		return s.CancelBooking(ctx, id, actorID)
	}

	before := b.AuditSnapshot()
	expected := b.Status
	if err := b.Advance(target); err != nil {
		return nil, err
	}

	tx, err := s.txm.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.flightRepo.UpdateStatus(ctx, tx, b, expected); err != nil {
		return nil, err
	}
	entry := audit.NewUpdate(auditTableFlightBookings, b.ID, actorID, before, b.AuditSnapshot())
	if err := s.auditRepo.Insert(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("監査記録に失敗: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}
	s.gaugeActive(expected, b.Status)
	return b, nil
}

// CancelBooking は非終端状態の予約をキャンセルし、座席を解放する
// 解放は総座席数を上限とするため、重複キャンセル試行で在庫が水増しされることはない
func (s *FlightBookingService) CancelBooking(ctx context.Context, id string, actorID *string) (*flight.Booking, error) {
	b, err := s.flightRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	before := b.AuditSnapshot()
	expected := b.Status
	if err := b.Cancel(); err != nil {
		return nil, err
	}

	tx, err := s.txm.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.flightRepo.UpdateStatus(ctx, tx, b, expected); err != nil {
		return nil, err
	}
	if err := s.classRepo.ReleaseSeat(ctx, tx, b.FlightClassID); err != nil {
		return nil, err
	}
	entry := audit.NewUpdate(auditTableFlightBookings, b.ID, actorID, before, b.AuditSnapshot())
	if err := s.auditRepo.Insert(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("監査記録に失敗: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}
	s.invalidateCache(ctx, b.FlightClassID)
	s.gaugeActive(expected, b.Status)
	return b, nil
}

// CountAvailableSeats は搭乗クラスの空席数を返す
// キャッシュヒット時はDBを参照しない。ミス時はDBから取得してキャッシュに載せる
func (s *FlightBookingService) CountAvailableSeats(ctx context.Context, flightClassID string) (int, error) {
	if s.cache != nil {
		count, found, err := s.cache.Get(ctx, flightClassID)
		if err != nil {
			logger.Warn("空席数キャッシュの参照に失敗", zap.String("flight_class_id", flightClassID), zap.Error(err))
		} else if found {
			return count, nil
		}
	}

	count, err := s.classRepo.CountAvailable(ctx, flightClassID)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, flightClassID, count); err != nil {
			logger.Warn("空席数キャッシュの保存に失敗", zap.String("flight_class_id", flightClassID), zap.Error(err))
		}
	}
	return count, nil
}

// CancelStalePending は指定時間を超えて保留中のままの予約をキャンセルする
// レコード単位で処理し、失敗したレコードはログに残して次サイクルへ持ち越す
func (s *FlightBookingService) CancelStalePending(ctx context.Context, olderThan time.Duration) (int, error) {
	stale, err := s.flightRepo.ListStalePending(ctx, olderThan)
	if err != nil {
		return 0, fmt.Errorf("期限切れ予約の取得に失敗: %w", err)
	}

	count := 0
	for _, b := range stale {
		if _, err := s.CancelBooking(ctx, b.ID, nil); err != nil {
			logger.Warn("期限切れフライト予約のキャンセルに失敗",
				zap.String("booking_id", b.ID),
				zap.String("reference", b.Reference),
				zap.Error(err),
			)
			continue
		}
		count++
	}
	return count, nil
}

func (s *FlightBookingService) invalidateCache(ctx context.Context, flightClassID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, flightClassID); err != nil {
		logger.Warn("空席数キャッシュの無効化に失敗", zap.String("flight_class_id", flightClassID), zap.Error(err))
	}
}

func (s *FlightBookingService) countBooking(result string) {
	if m := metrics.Get(); m != nil {
		m.BookingsTotal.WithLabelValues("flight", result).Inc()
	}
}

// gaugeActive は状態遷移に合わせて active_bookings ゲージを更新する
// from が空の場合は新規作成。終端状態はゲージに載せない
func (s *FlightBookingService) gaugeActive(from, to booking.Status) {
	m := metrics.Get()
	if m == nil {
		return
	}
	if from != "" {
		m.ActiveBookings.WithLabelValues("flight", string(from)).Dec()
	}
	if !booking.FlightLifecycle.IsTerminal(to) {
		m.ActiveBookings.WithLabelValues("flight", string(to)).Inc()
	}
}
