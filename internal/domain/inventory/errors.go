package inventory

import "errors"

// 在庫ドメインのエラー定義
var (
	ErrInsufficientInventory = errors.New("在庫が不足しています")
	ErrRoomNotFound          = errors.New("部屋が見つかりません")
	ErrRoomNotBookable       = errors.New("部屋は現在予約を受け付けていません")
	ErrFlightClassNotFound   = errors.New("搭乗クラスが見つかりません")
	ErrFlightIDRequired      = errors.New("フライトIDは必須です")
	ErrInvalidTotalSeats     = errors.New("総座席数は1以上である必要があります")
	ErrSeatCountOutOfRange   = errors.New("空席数は0以上総座席数以下である必要があります")
)
