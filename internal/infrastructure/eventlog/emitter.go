// Package eventlog は確定したインカム請求を操作履歴に記録する。
// ログとメトリクスはコミット後に呼び出し元が出力する。
package eventlog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"ubi-server/internal/domain/event"
	"ubi-server/internal/domain/transaction"
)

// Emitter event.Emitterの実装。呼び出し元と同じ原子単位の中で履歴を保存する
type Emitter struct {
	transactionRepo transaction.TransactionRepository
}

// NewEmitter 新しいEmitterを作成
func NewEmitter(transactionRepo transaction.TransactionRepository) *Emitter {
	return &Emitter{transactionRepo: transactionRepo}
}

// EmitClaimSettled 請求を自己宛ての履歴として保存する
func (e *Emitter) EmitClaimSettled(ctx context.Context, settled event.ClaimSettled) error {
	txn, err := transaction.NewTransaction(
		NewTransactionID(),
		settled.Claimant,
		settled.Claimant,
		transaction.TransactionTypeClaim,
		settled.Quantity,
		settled.Memo(),
	)
	if err != nil {
		return fmt.Errorf("failed to build claim record: %w", err)
	}
	if err := e.transactionRepo.Save(ctx, txn); err != nil {
		return fmt.Errorf("failed to save claim record: %w", err)
	}
	return nil
}

// NewTransactionID 履歴IDを生成
func NewTransactionID() string {
	return "txn_" + uuid.NewString()
}
