package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status は予約・搭乗のライフサイクル状態を表す
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusBoarded    Status = "boarded"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Lifecycle は予約種別ごとの正規遷移チェーンを表す
// チェーンは前進方向のみ。キャンセルは非終端状態からのみ可能
type Lifecycle struct {
	chain []Status
}

// HotelLifecycle はホテル予約の遷移チェーン
var HotelLifecycle = Lifecycle{chain: []Status{
	StatusPending, StatusConfirmed, StatusCheckedIn, StatusCheckedOut,
}}

// FlightLifecycle はフライト予約の遷移チェーン
var FlightLifecycle = Lifecycle{chain: []Status{
	StatusPending, StatusConfirmed, StatusCheckedIn, StatusBoarded, StatusCompleted,
}}

// Contains は状態がチェーンに含まれるかを返す（cancelled も有効な状態）
func (l Lifecycle) Contains(s Status) bool {
	if s == StatusCancelled {
		return true
	}
	return l.index(s) >= 0
}

// IsTerminal は状態が終端（チェーン末尾またはキャンセル済み）かを返す
func (l Lifecycle) IsTerminal(s Status) bool {
	if s == StatusCancelled {
		return true
	}
	return len(l.chain) > 0 && s == l.chain[len(l.chain)-1]
}

// CanAdvance は from から to への前進遷移が正当かを検証する
// to が直接の後続でない場合は ErrInvalidTransition、
// from が終端の場合は ErrAlreadyFinal を返す
func (l Lifecycle) CanAdvance(from, to Status) error {
	if l.IsTerminal(from) {
		return ErrAlreadyFinal
	}
	i := l.index(from)
	j := l.index(to)
	if i < 0 || j < 0 || j != i+1 {
		return ErrInvalidTransition
	}
	return nil
}

// CanCancel は from からのキャンセルが正当かを検証する
func (l Lifecycle) CanCancel(from Status) error {
	if l.IsTerminal(from) {
		return ErrAlreadyFinal
	}
	return nil
}

func (l Lifecycle) index(s Status) int {
	for i, c := range l.chain {
		if c == s {
			return i
		}
	}
	return -1
}

// NewReference は予約参照コードを生成する
// 形式: <プレフィックス>-<YYYYMMDD>-<ランダム8文字>
func NewReference(prefix string, now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return prefix + "-" + now.Format("20060102") + "-" + suffix
}
