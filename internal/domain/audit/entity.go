package audit

import "time"

// Operation は監査対象の操作種別を表す
type Operation string

const (
	OperationInsert Operation = "INSERT"
	OperationUpdate Operation = "UPDATE"
	OperationDelete Operation = "DELETE"
)

// RetentionPeriod は監査ログの保持期間。これより古いエントリのみ削除ジョブの対象
const RetentionPeriod = 365 * 24 * time.Hour

// Entry は監査ログエントリを表す（追記専用）
// 観測対象の変更と同一トランザクション内で必ず1件だけ記録される。
// INSERT は変更後のみ、DELETE は変更前のみ、UPDATE は両方のスナップショットを持つ
type Entry struct {
	ID        int64
	TableName string
	Operation Operation
	RecordID  string
	UserID    *string
	OldData   map[string]any
	NewData   map[string]any
	CreatedAt time.Time
}

// NewInsert は INSERT 操作の監査エントリを作成する
func NewInsert(tableName, recordID string, userID *string, after map[string]any) *Entry {
	return &Entry{
		TableName: tableName,
		Operation: OperationInsert,
		RecordID:  recordID,
		UserID:    userID,
		NewData:   after,
		CreatedAt: time.Now(),
	}
}

// NewUpdate は UPDATE 操作の監査エントリを作成する
func NewUpdate(tableName, recordID string, userID *string, before, after map[string]any) *Entry {
	return &Entry{
		TableName: tableName,
		Operation: OperationUpdate,
		RecordID:  recordID,
		UserID:    userID,
		OldData:   before,
		NewData:   after,
		CreatedAt: time.Now(),
	}
}

// NewDelete は DELETE 操作の監査エントリを作成する
// 予約・決済は物理削除しない運用のため、現状は管理操作のみが使用する
func NewDelete(tableName, recordID string, userID *string, before map[string]any) *Entry {
	return &Entry{
		TableName: tableName,
		Operation: OperationDelete,
		RecordID:  recordID,
		UserID:    userID,
		OldData:   before,
		CreatedAt: time.Now(),
	}
}

// Validate は監査エントリのスナップショット規則を検証する
func (e *Entry) Validate() error {
	if e.TableName == "" {
		return ErrTableNameRequired
	}
	if e.RecordID == "" {
		return ErrRecordIDRequired
	}
	switch e.Operation {
	case OperationInsert:
		if e.NewData == nil || e.OldData != nil {
			return ErrInvalidSnapshot
		}
	case OperationUpdate:
		if e.OldData == nil || e.NewData == nil {
			return ErrInvalidSnapshot
		}
	case OperationDelete:
		if e.OldData == nil || e.NewData != nil {
			return ErrInvalidSnapshot
		}
	default:
		return ErrInvalidOperation
	}
	return nil
}
