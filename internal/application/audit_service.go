package application

import (
	"context"
	"fmt"
	"time"

	"github.com/iSnowdy/Frostel/internal/domain/audit"
)

// AuditService は監査ログの検索と保持期間の管理を提供する
// 記録自体は各サービスが変更と同一トランザクションで行う
type AuditService struct {
	auditRepo audit.Repository
}

func NewAuditService(auditRepo audit.Repository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

func (s *AuditService) ListByRecord(ctx context.Context, tableName, recordID string, limit, offset int) ([]*audit.Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.auditRepo.ListByRecord(ctx, tableName, recordID, limit, offset)
}

func (s *AuditService) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*audit.Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.auditRepo.ListByUser(ctx, userID, limit, offset)
}

func (s *AuditService) ListByTimeRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*audit.Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.auditRepo.ListByTimeRange(ctx, from, to, limit, offset)
}

// PruneAuditLog は保持期間を過ぎた監査エントリを削除し、件数を返す
// 保持ポリシーによる削除であり、整合性のための機構ではない
func (s *AuditService) PruneAuditLog(ctx context.Context, retention time.Duration) (int64, error) {
	if retention < audit.RetentionPeriod {
		retention = audit.RetentionPeriod
	}
	cutoff := time.Now().Add(-retention)
	count, err := s.auditRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("監査ログの削除に失敗: %w", err)
	}
	return count, nil
}
