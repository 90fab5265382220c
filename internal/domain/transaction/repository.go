package transaction

import (
	"context"
)

// TransactionRepository トランザクションリポジトリインターフェース
type TransactionRepository interface {
	// Save トランザクションを保存
	Save(ctx context.Context, transaction *Transaction) error

	// FindByTransactionID トランザクションIDでトランザクションを取得
	FindByTransactionID(ctx context.Context, transactionID string) (*Transaction, error)

	// FindByAccount アカウントが主体または相手のトランザクション一覧を取得（新しい順、ページネーション対応）
	FindByAccount(ctx context.Context, account string, limit, offset int) ([]*Transaction, error)
}
