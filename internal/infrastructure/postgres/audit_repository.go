package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iSnowdy/Frostel/internal/domain/audit"
	"github.com/iSnowdy/Frostel/internal/domain/transaction"
)

type auditRow struct {
	ID        int64          `db:"id"`
	TableName string         `db:"table_name"`
	Operation string         `db:"operation"`
	RecordID  string         `db:"record_id"`
	UserID    sql.NullString `db:"user_id"`
	OldData   []byte         `db:"old_data"`
	NewData   []byte         `db:"new_data"`
	CreatedAt time.Time      `db:"created_at"`
}

func (r *auditRow) toEntity() (*audit.Entry, error) {
	e := &audit.Entry{
		ID:        r.ID,
		TableName: r.TableName,
		Operation: audit.Operation(r.Operation),
		RecordID:  r.RecordID,
		CreatedAt: r.CreatedAt,
	}
	if r.UserID.Valid {
		v := r.UserID.String
		e.UserID = &v
	}
	if len(r.OldData) > 0 {
		if err := json.Unmarshal(r.OldData, &e.OldData); err != nil {
			return nil, fmt.Errorf("変更前スナップショットの復元に失敗: %w", err)
		}
	}
	if len(r.NewData) > 0 {
		if err := json.Unmarshal(r.NewData, &e.NewData); err != nil {
			return nil, fmt.Errorf("変更後スナップショットの復元に失敗: %w", err)
		}
	}
	return e, nil
}

const auditColumns = `id, table_name, operation, record_id, user_id, old_data, new_data, created_at`

// AuditRepository は監査ログの追記専用ストア
// 削除は保持期間ポリシーの DeleteOlderThan のみ
type AuditRepository struct{ db *sqlx.DB }

func NewAuditRepository(db *sqlx.DB) *AuditRepository { return &AuditRepository{db: db} }

func (r *AuditRepository) Insert(ctx context.Context, tx transaction.Tx, e *audit.Entry) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errTxRequired
	}
	if err := e.Validate(); err != nil {
		return err
	}

	var oldData, newData []byte
	var err error
	if e.OldData != nil {
		if oldData, err = json.Marshal(e.OldData); err != nil {
			return fmt.Errorf("変更前スナップショットの変換に失敗: %w", err)
		}
	}
	if e.NewData != nil {
		if newData, err = json.Marshal(e.NewData); err != nil {
			return fmt.Errorf("変更後スナップショットの変換に失敗: %w", err)
		}
	}

	query := `INSERT INTO audit_logs (table_name, operation, record_id, user_id, old_data, new_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := sqlxTx.QueryRowContext(ctx, query,
		e.TableName, string(e.Operation), e.RecordID, e.UserID,
		oldData, newData, e.CreatedAt,
	).Scan(&e.ID); err != nil {
		return fmt.Errorf("監査エントリ記録に失敗: %w", err)
	}
	return nil
}

func (r *AuditRepository) ListByRecord(ctx context.Context, tableName, recordID string, limit, offset int) ([]*audit.Entry, error) {
	var rows []auditRow
	query := `SELECT ` + auditColumns + ` FROM audit_logs
		WHERE table_name = $1 AND record_id = $2
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	if err := r.db.SelectContext(ctx, &rows, query, tableName, recordID, limit, offset); err != nil {
		return nil, fmt.Errorf("監査ログ取得に失敗: %w", err)
	}
	return toEntries(rows)
}

func (r *AuditRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*audit.Entry, error) {
	var rows []auditRow
	query := `SELECT ` + auditColumns + ` FROM audit_logs
		WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("監査ログ取得に失敗: %w", err)
	}
	return toEntries(rows)
}

func (r *AuditRepository) ListByTimeRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*audit.Entry, error) {
	var rows []auditRow
	query := `SELECT ` + auditColumns + ` FROM audit_logs
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	if err := r.db.SelectContext(ctx, &rows, query, from, to, limit, offset); err != nil {
		return nil, fmt.Errorf("監査ログ取得に失敗: %w", err)
	}
	return toEntries(rows)
}

func (r *AuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM audit_logs WHERE created_at < $1`
	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("監査ログ削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

func toEntries(rows []auditRow) ([]*audit.Entry, error) {
	result := make([]*audit.Entry, 0, len(rows))
	for i := range rows {
		e, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, nil
}

var _ audit.Repository = (*AuditRepository)(nil)
