package booking

import "errors"

// 状態遷移のエラー定義
var (
	ErrInvalidTransition  = errors.New("現在の状態から遷移できません")
	ErrAlreadyFinal       = errors.New("予約は既に終端状態です")
	ErrConcurrentConflict = errors.New("同一レコードへの操作が競合しました")
)
