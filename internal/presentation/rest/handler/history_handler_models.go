package handler

// TransactionItem 操作履歴アイテム
// @Description 操作履歴アイテム
type TransactionItem struct {
	TransactionID   string `json:"transaction_id" example:"txn_0b6c7d3e-8f1a-4a55-9d1e-1f2a3b4c5d6e"`
	TransactionType string `json:"transaction_type" example:"transfer"`
	Account         string `json:"account" example:"alice.jc"`
	Counterparty    string `json:"counterparty" example:"bob"`
	Quantity        string `json:"quantity" example:"1.5000 UBI"`
	Memo            string `json:"memo" example:"coffee"`
	CreatedAt       string `json:"created_at" example:"2024-01-01T12:00:00Z"`
}

// TransactionHistoryResponse 操作履歴レスポンス
// @Description 操作履歴レスポンス
type TransactionHistoryResponse struct {
	Transactions []TransactionItem `json:"transactions"`
	Total        int               `json:"total" example:"1"`
	Limit        int               `json:"limit" example:"50"`
	Offset       int               `json:"offset" example:"0"`
}
