package payment

import (
	"context"

	"github.com/iSnowdy/Frostel/internal/domain/transaction"
)

// Repository は決済リポジトリのインターフェース
type Repository interface {
	// Create は新しい決済を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, p *Payment) error

	// GetByID はIDから決済を取得する
	GetByID(ctx context.Context, id string) (*Payment, error)

	// GetByReference は参照コードから決済を取得する
	GetByReference(ctx context.Context, reference string) (*Payment, error)

	// ListByUser はユーザーIDから決済一覧を取得する
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Payment, error)

	// UpdateStatus は決済状態を条件付きで更新する（トランザクション必須）
	// 現在状態が expected と一致しない場合は booking.ErrConcurrentConflict
	UpdateStatus(ctx context.Context, tx transaction.Tx, p *Payment, expected Status) error
}
