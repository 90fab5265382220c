package transaction

import (
	"fmt"
)

// TransactionType トランザクションタイプを表す値オブジェクト
type TransactionType string

const (
	TransactionTypeCreate   TransactionType = "create"   // 通貨作成
	TransactionTypeIssue    TransactionType = "issue"    // 発行
	TransactionTypeRetire   TransactionType = "retire"   // 償却
	TransactionTypeTransfer TransactionType = "transfer" // 送金
	TransactionTypeClaim    TransactionType = "claim"    // インカム請求
	TransactionTypeOpen     TransactionType = "open"     // 残高レコード作成
	TransactionTypeClose    TransactionType = "close"    // 残高レコード削除
)

// NewTransactionType 新しいTransactionTypeを作成
func NewTransactionType(s string) (TransactionType, error) {
	tt := TransactionType(s)
	if !tt.Valid() {
		return "", fmt.Errorf("invalid transaction type: %s", s)
	}
	return tt, nil
}

// String 文字列表現を返す
func (tt TransactionType) String() string {
	return string(tt)
}

// Valid 有効なトランザクションタイプかどうかを返す
func (tt TransactionType) Valid() bool {
	switch tt {
	case TransactionTypeCreate, TransactionTypeIssue, TransactionTypeRetire, TransactionTypeTransfer,
		TransactionTypeClaim, TransactionTypeOpen, TransactionTypeClose:
		return true
	default:
		return false
	}
}
