package history

import "ubi-server/internal/domain/transaction"

// GetTransactionHistoryRequest トランザクション履歴取得リクエスト
type GetTransactionHistoryRequest struct {
	Account         string
	Limit           int
	Offset          int
	Symbol          string // optional: "UBI"
	TransactionType string // optional: "transfer", "claim", etc.
}

// GetTransactionHistoryResponse トランザクション履歴取得レスポンス
type GetTransactionHistoryResponse struct {
	Transactions []*transaction.Transaction
	Total        int
	Limit        int
	Offset       int
}
