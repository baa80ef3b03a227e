package flight

import "errors"

// フライト予約ドメインのエラー定義
var (
	ErrBookingNotFound        = errors.New("フライト予約が見つかりません")
	ErrUserIDRequired         = errors.New("ユーザーIDは必須です")
	ErrFlightIDRequired       = errors.New("フライトIDは必須です")
	ErrFlightClassIDRequired  = errors.New("搭乗クラスIDは必須です")
	ErrPassengerNameRequired  = errors.New("搭乗者名は必須です")
	ErrPassengerEmailRequired = errors.New("搭乗者メールアドレスは必須です")
)
