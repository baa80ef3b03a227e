package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iSnowdy/Frostel/internal/pkg/logger"
	"github.com/iSnowdy/Frostel/internal/pkg/metrics"
)

// StaleBookingCanceler は放置された PENDING 予約をキャンセルするインターフェース
type StaleBookingCanceler interface {
	CancelStalePending(ctx context.Context, olderThan time.Duration) (int, error)
}

// StaleBookingExpirer は一定時間 PENDING のまま放置された予約を
// 定期的にキャンセルするワーカー
// ホテル予約とフライト予約の両方を同じ周期で処理する
type StaleBookingExpirer struct {
	reservations StaleBookingCanceler
	flights      StaleBookingCanceler
	interval     time.Duration
	olderThan    time.Duration
	stopCh       chan struct{}
	doneCh       chan struct{}
}

// NewStaleBookingExpirer は新しいワーカーを作成
func NewStaleBookingExpirer(
	reservations StaleBookingCanceler,
	flights StaleBookingCanceler,
	interval time.Duration,
	olderThan time.Duration,
) *StaleBookingExpirer {
	return &StaleBookingExpirer{
		reservations: reservations,
		flights:      flights,
		interval:     interval,
		olderThan:    olderThan,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Start はワーカーを開始
func (w *StaleBookingExpirer) Start(ctx context.Context) {
	logger.Info("放置予約キャンセルワーカー開始",
		zap.Duration("interval", w.interval),
		zap.Duration("older_than", w.olderThan),
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("放置予約キャンセルワーカー停止（コンテキストキャンセル）")
			return
		case <-w.stopCh:
			logger.Info("放置予約キャンセルワーカー停止（シグナル受信）")
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

// Stop はワーカーを停止
func (w *StaleBookingExpirer) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

// run は放置予約を両ドメインでキャンセルする
// 片方が失敗してももう片方は実行する
func (w *StaleBookingExpirer) run(ctx context.Context) {
	log := logger.Get()
	log.Debug("放置予約のキャンセル開始")

	total := 0
	failed := false

	if count, err := w.reservations.CancelStalePending(ctx, w.olderThan); err != nil {
		log.Error("放置ホテル予約のキャンセル失敗", zap.Error(err))
		failed = true
	} else {
		total += count
	}

	if count, err := w.flights.CancelStalePending(ctx, w.olderThan); err != nil {
		log.Error("放置フライト予約のキャンセル失敗", zap.Error(err))
		failed = true
	} else {
		total += count
	}

	if m := metrics.Get(); m != nil {
		result := "success"
		if failed {
			result = "error"
		}
		m.MaintenanceRunsTotal.WithLabelValues("stale_bookings", result).Inc()
		m.MaintenanceItemsTotal.WithLabelValues("stale_bookings").Add(float64(total))
	}

	if total > 0 {
		log.Info("放置予約をキャンセル", zap.Int("count", total))
	} else {
		log.Debug("放置予約なし")
	}
}
