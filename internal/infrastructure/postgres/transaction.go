package postgres

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/iSnowdy/Frostel/internal/domain/transaction"
)

// errTxRequired はトランザクション必須の操作をトランザクション外から呼んだ場合に返す
var errTxRequired = errors.New("トランザクションが必要です")

// TxWrapper は sqlx.Tx を transaction.Tx として公開する
// Commit / Rollback は埋め込みの sqlx.Tx がそのまま提供する
type TxWrapper struct {
	*sqlx.Tx
}

// TxManager は sqlx ベースの transaction.Manager 実装
type TxManager struct {
	db *sqlx.DB
}

func NewTxManager(db *sqlx.DB) *TxManager {
	return &TxManager{db: db}
}

func (m *TxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &TxWrapper{Tx: tx}, nil
}

// UnwrapTx はリポジトリ実装向けに transaction.Tx から sqlx.Tx を取り出す
// 別実装の Tx が渡された場合は nil を返す
func UnwrapTx(tx transaction.Tx) *sqlx.Tx {
	if w, ok := tx.(*TxWrapper); ok {
		return w.Tx
	}
	return nil
}

var _ transaction.Manager = (*TxManager)(nil)
