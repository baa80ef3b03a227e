package reservation

import (
	"context"
	"time"

	"github.com/iSnowdy/Frostel/internal/domain/booking"
	"github.com/iSnowdy/Frostel/internal/domain/transaction"
)

// Repository はホテル予約リポジトリのインターフェース
type Repository interface {
	// Create は新しい予約を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, r *Reservation) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id string) (*Reservation, error)

	// GetForUpdate はIDから予約を行ロック付きで取得する（トランザクション必須）
	GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Reservation, error)

	// GetByReference は参照コードから予約を取得する
	GetByReference(ctx context.Context, reference string) (*Reservation, error)

	// ListByUser はユーザーIDから予約一覧を取得する
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Reservation, error)

	// UpdateStatus は予約状態を条件付きで更新する（トランザクション必須）
	// 現在状態が expected と一致しない場合は booking.ErrConcurrentConflict
	UpdateStatus(ctx context.Context, tx transaction.Tx, r *Reservation, expected booking.Status) error

	// HasOverlap は同一部屋・重複期間のアクティブな予約が存在するかを返す
	// 期間は [checkIn, checkOut) の半開区間で比較する
	HasOverlap(ctx context.Context, tx transaction.Tx, roomID string, checkIn, checkOut time.Time) (bool, error)

	// ListStalePending は指定時間より前に作成された保留中の予約を取得する
	ListStalePending(ctx context.Context, olderThan time.Duration) ([]*Reservation, error)
}
