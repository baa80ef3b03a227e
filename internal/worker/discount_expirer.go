package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iSnowdy/Frostel/internal/pkg/logger"
	"github.com/iSnowdy/Frostel/internal/pkg/metrics"
)

// DiscountDeactivator は期限切れ割引を無効化するインターフェース
type DiscountDeactivator interface {
	DeactivateExpiredDiscounts(ctx context.Context, asOf time.Time) (int, error)
}

// DiscountExpirer は有効期限を過ぎた割引を定期的に無効化するワーカー
// 無効化は新規予約の見積りにのみ影響し、確定済み予約の金額は変わらない
type DiscountExpirer struct {
	pricing  DiscountDeactivator
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewDiscountExpirer は新しいワーカーを作成
func NewDiscountExpirer(pricing DiscountDeactivator, interval time.Duration) *DiscountExpirer {
	return &DiscountExpirer{
		pricing:  pricing,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start はワーカーを開始
func (w *DiscountExpirer) Start(ctx context.Context) {
	logger.Info("期限切れ割引無効化ワーカー開始", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("期限切れ割引無効化ワーカー停止（コンテキストキャンセル）")
			return
		case <-w.stopCh:
			logger.Info("期限切れ割引無効化ワーカー停止（シグナル受信）")
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

// Stop はワーカーを停止
func (w *DiscountExpirer) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

func (w *DiscountExpirer) run(ctx context.Context) {
	log := logger.Get()
	log.Debug("期限切れ割引の無効化開始")

	count, err := w.pricing.DeactivateExpiredDiscounts(ctx, time.Now())
	if err != nil {
		log.Error("期限切れ割引の無効化失敗", zap.Error(err))
		if m := metrics.Get(); m != nil {
			m.MaintenanceRunsTotal.WithLabelValues("expired_discounts", "error").Inc()
		}
		return
	}

	if m := metrics.Get(); m != nil {
		m.MaintenanceRunsTotal.WithLabelValues("expired_discounts", "success").Inc()
		m.MaintenanceItemsTotal.WithLabelValues("expired_discounts").Add(float64(count))
	}

	if count > 0 {
		log.Info("期限切れ割引を無効化", zap.Int("count", count))
	} else {
		log.Debug("期限切れ割引なし")
	}
}
