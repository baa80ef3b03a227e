package audit

import "errors"

// Audit ドメインのエラー定義
var (
	ErrTableNameRequired = errors.New("テーブル名は必須です")
	ErrRecordIDRequired  = errors.New("レコードIDは必須です")
	ErrInvalidOperation  = errors.New("操作種別が不正です")
	ErrInvalidSnapshot   = errors.New("操作種別とスナップショットの組み合わせが不正です")
)
