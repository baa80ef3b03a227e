package inventory

import "time"

// RoomStatus は部屋の運用状態を表す
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomReserved    RoomStatus = "reserved"
	RoomMaintenance RoomStatus = "maintenance"
	RoomCleaning    RoomStatus = "cleaning"
)

// Room は物理的な部屋（予約可能ユニット）を表す
// 部屋の空き判定は運用状態ではなく、重複期間のアクティブな予約の有無で行う。
// メンテナンス中・清掃中の部屋のみ新規予約を受け付けない
type Room struct {
	ID            string
	HotelID       string
	RoomTypeID    string
	RoomNumber    string
	Status        RoomStatus
	PricePerNight int64 // 通貨最小単位
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsBookable は部屋が新規予約を受け付けられる運用状態かを返す
func (r *Room) IsBookable() bool {
	return r.Status != RoomMaintenance && r.Status != RoomCleaning
}
