package discount

import (
	"context"
	"time"
)

// Repository は割引リポジトリのインターフェース
type Repository interface {
	// Create は新しい割引を作成する
	Create(ctx context.Context, d *Discount) error

	// GetByID はIDから割引を取得する
	GetByID(ctx context.Context, id string) (*Discount, error)

	// GetActiveForHotel は指定ホテル・指定時点で適用可能な割引を取得する
	GetActiveForHotel(ctx context.Context, hotelID string, asOf time.Time) ([]*Discount, error)

	// GetActiveForFlight は指定フライト・指定時点で適用可能な割引を取得する
	GetActiveForFlight(ctx context.Context, flightID string, asOf time.Time) ([]*Discount, error)

	// AttachToHotel は割引をホテルに関連付ける
	AttachToHotel(ctx context.Context, discountID, hotelID string) error

	// AttachToFlight は割引をフライトに関連付ける
	AttachToFlight(ctx context.Context, discountID, flightID string) error

	// DeactivateExpired は終了日を過ぎた有効な割引を一括で無効化し、件数を返す
	// 冪等。既存の価格スナップショットには影響しない
	DeactivateExpired(ctx context.Context, asOf time.Time) (int, error)
}
