package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iSnowdy/Frostel/internal/pkg/logger"
	"github.com/iSnowdy/Frostel/internal/pkg/metrics"
)

// AuditLogPruner は保持期間を過ぎた監査ログを削除するインターフェース
type AuditLogPruner interface {
	PruneAuditLog(ctx context.Context, retention time.Duration) (int64, error)
}

// AuditPruner は監査ログの保持期間ポリシーを適用するワーカー
type AuditPruner struct {
	audits    AuditLogPruner
	interval  time.Duration
	retention time.Duration
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewAuditPruner は新しいワーカーを作成
func NewAuditPruner(audits AuditLogPruner, interval, retention time.Duration) *AuditPruner {
	return &AuditPruner{
		audits:    audits,
		interval:  interval,
		retention: retention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start はワーカーを開始
func (w *AuditPruner) Start(ctx context.Context) {
	logger.Info("監査ログ削除ワーカー開始",
		zap.Duration("interval", w.interval),
		zap.Duration("retention", w.retention),
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("監査ログ削除ワーカー停止（コンテキストキャンセル）")
			return
		case <-w.stopCh:
			logger.Info("監査ログ削除ワーカー停止（シグナル受信）")
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

// Stop はワーカーを停止
func (w *AuditPruner) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

func (w *AuditPruner) run(ctx context.Context) {
	log := logger.Get()
	log.Debug("監査ログの削除開始")

	count, err := w.audits.PruneAuditLog(ctx, w.retention)
	if err != nil {
		log.Error("監査ログの削除失敗", zap.Error(err))
		if m := metrics.Get(); m != nil {
			m.MaintenanceRunsTotal.WithLabelValues("audit_prune", "error").Inc()
		}
		return
	}

	if m := metrics.Get(); m != nil {
		m.MaintenanceRunsTotal.WithLabelValues("audit_prune", "success").Inc()
		m.MaintenanceItemsTotal.WithLabelValues("audit_prune").Add(float64(count))
	}

	if count > 0 {
		log.Info("監査ログを削除", zap.Int64("count", count))
	} else {
		log.Debug("削除対象の監査ログなし")
	}
}
