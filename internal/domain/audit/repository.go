package audit

import (
	"context"
	"time"

	"github.com/iSnowdy/Frostel/internal/domain/transaction"
)

// Repository は監査ログリポジトリのインターフェース
type Repository interface {
	// Insert は監査エントリを記録する（トランザクション必須）
	// 観測対象の変更と同一トランザクションで実行すること。
	// ロールバックされた変更は監査エントリも残らない
	Insert(ctx context.Context, tx transaction.Tx, e *Entry) error

	// ListByRecord は対象テーブル・レコードIDの監査エントリを新しい順に取得する
	ListByRecord(ctx context.Context, tableName, recordID string, limit, offset int) ([]*Entry, error)

	// ListByUser は操作ユーザーの監査エントリを新しい順に取得する
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Entry, error)

	// ListByTimeRange は期間内の監査エントリを取得する
	ListByTimeRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*Entry, error)

	// DeleteOlderThan は指定時刻より古いエントリを削除し、件数を返す
	// 保持期間ポリシーによる唯一の削除経路
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
