package discount

import "errors"

// Discount ドメインのエラー定義
var (
	ErrDiscountNotFound      = errors.New("割引が見つかりません")
	ErrNameRequired          = errors.New("割引名は必須です")
	ErrInvalidPercentage     = errors.New("割引率は0より大きく100未満である必要があります")
	ErrInvalidScope          = errors.New("割引の適用対象が不正です")
	ErrInvalidValidityWindow = errors.New("割引の終了日は開始日以降である必要があります")
)
