package payment

import "errors"

// Payment ドメインのエラー定義
var (
	ErrPaymentNotFound          = errors.New("決済が見つかりません")
	ErrInvalidLinkage           = errors.New("決済種別と予約参照の組み合わせが不正です")
	ErrInvalidPaymentTransition = errors.New("決済の状態遷移が不正です")
	ErrPaymentAlreadyFinal      = errors.New("決済は既に終端状態です")
	ErrUserIDRequired           = errors.New("ユーザーIDは必須です")
	ErrInvalidAmount            = errors.New("決済金額は0より大きい必要があります")
)
