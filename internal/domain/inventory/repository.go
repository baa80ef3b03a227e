package inventory

import (
	"context"

	"github.com/iSnowdy/Frostel/internal/domain/transaction"
)

// RoomRepository は部屋在庫リポジトリのインターフェース
type RoomRepository interface {
	// GetByID はIDから部屋を取得する
	GetByID(ctx context.Context, id string) (*Room, error)

	// GetForUpdate は部屋を行ロック付きで取得する（トランザクション必須）
	// 同一部屋への並行予約をトランザクション内で直列化するために使用する
	GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Room, error)

	// UpdateStatus は部屋の運用状態を更新する
	UpdateStatus(ctx context.Context, id string, status RoomStatus) error
}

// FlightClassRepository は搭乗クラス在庫リポジトリのインターフェース
type FlightClassRepository interface {
	// GetByID はIDから搭乗クラスを取得する
	GetByID(ctx context.Context, id string) (*FlightClass, error)

	// ReserveSeat は空席を1つ確保する（トランザクション必須）
	// 空席がない場合は ErrInsufficientInventory
	ReserveSeat(ctx context.Context, tx transaction.Tx, id string) error

	// ReleaseSeat は座席を1つ解放する（トランザクション必須）
	// 空席数は総座席数を超えて増加しない（二重解放ガード）
	ReleaseSeat(ctx context.Context, tx transaction.Tx, id string) error

	// CountAvailable は空席数を返す
	CountAvailable(ctx context.Context, id string) (int, error)
}
