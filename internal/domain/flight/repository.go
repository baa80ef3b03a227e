package flight

import (
	"context"
	"time"

	"github.com/iSnowdy/Frostel/internal/domain/booking"
	"github.com/iSnowdy/Frostel/internal/domain/transaction"
)

// Repository はフライト予約リポジトリのインターフェース
type Repository interface {
	// Create は新しい予約を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, b *Booking) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id string) (*Booking, error)

	// GetForUpdate はIDから予約を行ロック付きで取得する（トランザクション必須）
	GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Booking, error)

	// GetByReference は参照コードから予約を取得する
	GetByReference(ctx context.Context, reference string) (*Booking, error)

	// ListByUser はユーザーIDから予約一覧を取得する
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Booking, error)

	// UpdateStatus は予約状態を条件付きで更新する（トランザクション必須）
	// 現在状態が expected と一致しない場合は booking.ErrConcurrentConflict
	UpdateStatus(ctx context.Context, tx transaction.Tx, b *Booking, expected booking.Status) error

	// ListStalePending は指定時間より前に作成された保留中の予約を取得する
	ListStalePending(ctx context.Context, olderThan time.Duration) ([]*Booking, error)
}
