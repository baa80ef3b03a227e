package reservation

import "errors"

// Reservation ドメインのエラー定義
var (
	ErrReservationNotFound = errors.New("予約が見つかりません")
	ErrUserIDRequired      = errors.New("ユーザーIDは必須です")
	ErrHotelIDRequired     = errors.New("ホテルIDは必須です")
	ErrRoomIDRequired      = errors.New("部屋IDは必須です")
	ErrRoomTypeIDRequired  = errors.New("部屋タイプIDは必須です")
	ErrInvalidStayRange    = errors.New("チェックアウト日はチェックイン日より後である必要があります")
	ErrInvalidGuestCount   = errors.New("宿泊人数は1人以上である必要があります")
)
