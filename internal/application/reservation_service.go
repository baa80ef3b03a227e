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
	"github.com/iSnowdy/Frostel/internal/domain/inventory"
	"github.com/iSnowdy/Frostel/internal/domain/reservation"
	"github.com/iSnowdy/Frostel/internal/domain/transaction"
	redislock "github.com/iSnowdy/Frostel/internal/infrastructure/redis"
	"github.com/iSnowdy/Frostel/internal/pkg/logger"
	"github.com/iSnowdy/Frostel/internal/pkg/metrics"
)

// auditTableReservations は監査ログ上のホテル予約テーブル名
const auditTableReservations = "reservations"

// ReservationService はホテル予約のライフサイクルを駆動するサービス
// すべての変更操作は在庫調整・監査記録と同一トランザクションで実行される
type ReservationService struct {
	txm             transaction.Manager
	reservationRepo reservation.Repository
	roomRepo        inventory.RoomRepository
	auditRepo       audit.Repository
	pricing         PriceQuoter
	lockManager     *redislock.LockManager
}

func NewReservationService(
	txm transaction.Manager,
	rr reservation.Repository,
	roomRepo inventory.RoomRepository,
	auditRepo audit.Repository,
	pricing PriceQuoter,
	lm *redislock.LockManager,
) *ReservationService {
	return &ReservationService{
		txm:             txm,
		reservationRepo: rr,
		roomRepo:        roomRepo,
		auditRepo:       auditRepo,
		pricing:         pricing,
		lockManager:     lm,
	}
}

type CreateReservationInput struct {
	UserID     string
	HotelID    string
	RoomID     string
	RoomTypeID string
	CheckIn    time.Time
	CheckOut   time.Time
	Guests     int
}

// CreateReservation は部屋の空きを確認し、価格スナップショットを確定して
// PENDING の予約を作成する。重複期間のアクティブな予約がある場合は
// inventory.ErrInsufficientInventory
func (s *ReservationService) CreateReservation(ctx context.Context, input CreateReservationInput) (*reservation.Reservation, error) {
	res := reservation.NewReservation(input.UserID, input.HotelID, input.RoomID, input.RoomTypeID, input.CheckIn, input.CheckOut, input.Guests)
	if err := res.Validate(); err != nil {
		return nil, err
	}

	// 同一部屋への並行リクエストを分散ロックで直列化
	if s.lockManager != nil {
		lock, err := s.lockManager.AcquireLockWithRetry(ctx, "room:"+input.RoomID, 10*time.Second, 3, 100*time.Millisecond)
		if err != nil {
			if errors.Is(err, redislock.ErrLockNotAcquired) {
				return nil, booking.ErrConcurrentConflict
			}
			return nil, fmt.Errorf("ロック取得に失敗: %w", err)
		}
		defer lock.Release(ctx)
	}

	tx, err := s.txm.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	// 行ロックで同一部屋の空き確認と作成をアトミックにする
	room, err := s.roomRepo.GetForUpdate(ctx, tx, input.RoomID)
	if err != nil {
		return nil, err
	}
	if !room.IsBookable() {
		return nil, inventory.ErrRoomNotBookable
	}

	overlap, err := s.reservationRepo.HasOverlap(ctx, tx, input.RoomID, input.CheckIn, input.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("重複予約の確認に失敗: %w", err)
	}
	if overlap {
		s.countBooking("insufficient_inventory")
		return nil, inventory.ErrInsufficientInventory
	}

	basePrice := room.PricePerNight * int64(res.TotalNights())
	quote, err := s.pricing.Quote(ctx, discount.ScopeHotel, input.HotelID, basePrice, time.Now())
	if err != nil {
		return nil, err
	}
	res.ApplyQuote(quote.BasePrice, quote.DiscountAmount, quote.TotalPrice)

	if err := s.reservationRepo.Create(ctx, tx, res); err != nil {
		return nil, err
	}

	entry := audit.NewInsert(auditTableReservations, res.ID, &input.UserID, res.AuditSnapshot())
	if err := s.auditRepo.Insert(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("監査記録に失敗: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}
	s.countBooking("success")
	s.gaugeActive("", res.Status)
	return res, nil
}

func (s *ReservationService) GetReservation(ctx context.Context, id string) (*reservation.Reservation, error) {
	return s.reservationRepo.GetByID(ctx, id)
}

func (s *ReservationService) GetByReference(ctx context.Context, reference string) (*reservation.Reservation, error) {
	return s.reservationRepo.GetByReference(ctx, reference)
}

func (s *ReservationService) GetUserReservations(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.reservationRepo.ListByUser(ctx, userID, limit, offset)
}

// AdvanceReservation は予約を指定状態へ前進させる
// 現在状態と同じ場合は何もしない（監査エントリも増えない）。
// キャンセルへの遷移は CancelReservation に委譲する
func (s *ReservationService) AdvanceReservation(ctx context.Context, id string, target booking.Status, actorID *string) (*reservation.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Status == target {
		return res, nil
	}
	if target == booking.StatusCancelled {
		return s.CancelReservation(ctx, id, actorID)
	}

	before := res.AuditSnapshot()
	expected := res.Status
	if err := res.Advance(target); err != nil {
		return nil, err
	}
	if err := s.applyStatusChange(ctx, res, expected, before, actorID); err != nil {
		return nil, err
	}
	return res, nil
}

// CancelReservation は非終端状態の予約をキャンセルする
// 部屋在庫はアクティブな予約集合から外れることで解放される。
// 終端状態の予約には booking.ErrAlreadyFinal
func (s *ReservationService) CancelReservation(ctx context.Context, id string, actorID *string) (*reservation.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	before := res.AuditSnapshot()
	expected := res.Status
	if err := res.Cancel(); err != nil {
		return nil, err
	}
	if err := s.applyStatusChange(ctx, res, expected, before, actorID); err != nil {
		return nil, err
	}
	return res, nil
}

// applyStatusChange は状態更新と監査記録を同一トランザクションで適用する
func (s *ReservationService) applyStatusChange(ctx context.Context, res *reservation.Reservation, expected booking.Status, before map[string]any, actorID *string) error {
	tx, err := s.txm.Begin(ctx)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.reservationRepo.UpdateStatus(ctx, tx, res, expected); err != nil {
		return err
	}
	entry := audit.NewUpdate(auditTableReservations, res.ID, actorID, before, res.AuditSnapshot())
	if err := s.auditRepo.Insert(ctx, tx, entry); err != nil {
		return fmt.Errorf("監査記録に失敗: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}
	s.gaugeActive(expected, res.Status)
	return nil
}

// CancelStalePending は指定時間を超えて保留中のままの予約をキャンセルする
// レコード単位のトランザクションで処理するため、途中で失敗しても
// 処理済みの予約は確定し、残りは次サイクルで再試行される
func (s *ReservationService) CancelStalePending(ctx context.Context, olderThan time.Duration) (int, error) {
	stale, err := s.reservationRepo.ListStalePending(ctx, olderThan)
	if err != nil {
		return 0, fmt.Errorf("期限切れ予約の取得に失敗: %w", err)
	}

	count := 0
	for _, r := range stale {
		if _, err := s.CancelReservation(ctx, r.ID, nil); err != nil {
			logger.Warn("期限切れ予約のキャンセルに失敗",
				zap.String("reservation_id", r.ID),
				zap.String("reference", r.Reference),
				zap.Error(err),
			)
			continue
		}
		count++
	}
	return count, nil
}

func (s *ReservationService) countBooking(result string) {
	if m := metrics.Get(); m != nil {
		m.BookingsTotal.WithLabelValues("hotel", result).Inc()
	}
}

// gaugeActive は状態遷移に合わせて active_bookings ゲージを更新する
// from が空の場合は新規作成。終端状態はゲージに載せない
func (s *ReservationService) gaugeActive(from, to booking.Status) {
	m := metrics.Get()
	if m == nil {
		return
	}
	if from != "" {
		m.ActiveBookings.WithLabelValues("hotel", string(from)).Dec()
	}
	if !booking.HotelLifecycle.IsTerminal(to) {
		m.ActiveBookings.WithLabelValues("hotel", string(to)).Inc()
	}
}
