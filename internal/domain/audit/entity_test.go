package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry_Validate(t *testing.T) {
	snap := map[string]any{"status": "pending"}
	userID := "user-123"

	tests := []struct {
		name    string
		entry   *Entry
		wantErr error
	}{
		{"INSERT は変更後のみ", NewInsert("reservations", "res-1", &userID, snap), nil},
		{"UPDATE は両方", NewUpdate("reservations", "res-1", &userID, snap, snap), nil},
		{"DELETE は変更前のみ", NewDelete("payments", "pay-1", nil, snap), nil},
		{"INSERT に変更後なしは不正", &Entry{TableName: "reservations", Operation: OperationInsert, RecordID: "res-1"}, ErrInvalidSnapshot},
		{"UPDATE に変更前なしは不正", &Entry{TableName: "reservations", Operation: OperationUpdate, RecordID: "res-1", NewData: snap}, ErrInvalidSnapshot},
		{"DELETE に変更後ありは不正", &Entry{TableName: "payments", Operation: OperationDelete, RecordID: "pay-1", OldData: snap, NewData: snap}, ErrInvalidSnapshot},
		{"テーブル名未指定", &Entry{Operation: OperationInsert, RecordID: "res-1", NewData: snap}, ErrTableNameRequired},
		{"レコードID未指定", &Entry{TableName: "reservations", Operation: OperationInsert, NewData: snap}, ErrRecordIDRequired},
		{"不明な操作種別", &Entry{TableName: "reservations", Operation: Operation("TRUNCATE"), RecordID: "res-1"}, ErrInvalidOperation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestNewUpdate_KeepsBothSnapshots(t *testing.T) {
	before := map[string]any{"status": "pending"}
	after := map[string]any{"status": "confirmed"}
	e := NewUpdate("reservations", "res-1", nil, before, after)

	assert.Equal(t, OperationUpdate, e.Operation)
	assert.Equal(t, "pending", e.OldData["status"])
	assert.Equal(t, "confirmed", e.NewData["status"])
	assert.Nil(t, e.UserID)
	assert.False(t, e.CreatedAt.IsZero())
}
