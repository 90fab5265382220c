package handler

// CreateCurrencyRequest 通貨作成リクエスト
// @Description 通貨作成リクエスト
type CreateCurrencyRequest struct {
	Issuer    string `json:"issuer" example:"ubi.jc"`
	MaxSupply string `json:"max_supply" example:"1000000000.0000 UBI"`
}

// CurrencyStatsResponse 通貨統計レスポンス
// @Description 通貨統計レスポンス
type CurrencyStatsResponse struct {
	Symbol         string `json:"symbol" example:"UBI"`
	Precision      uint8  `json:"precision" example:"4"`
	Supply         string `json:"supply" example:"12.0000 UBI"`
	MaxSupply      string `json:"max_supply" example:"1000000000.0000 UBI"`
	Issuer         string `json:"issuer" example:"ubi.jc"`
	RetireIsPublic bool   `json:"retire_is_public" example:"true"`
}

// SupplyResponse 供給量レスポンス
// @Description 供給量レスポンス
type SupplyResponse struct {
	Symbol    string `json:"symbol" example:"UBI"`
	Supply    string `json:"supply" example:"12.0000 UBI"`
	MaxSupply string `json:"max_supply" example:"1000000000.0000 UBI"`
}

// IssueRequest 発行リクエスト
// @Description 発行リクエスト
type IssueRequest struct {
	To       string `json:"to" example:"alice.jc"`
	Quantity string `json:"quantity" example:"10.0000 UBI"`
	Memo     string `json:"memo" example:"airdrop"`
}

// RetireRequest 償却リクエスト
// @Description 償却リクエスト
type RetireRequest struct {
	Quantity string `json:"quantity" example:"1.0000 UBI"`
	Memo     string `json:"memo" example:"burn"`
}

// TransferRequest 送金リクエスト
// @Description 送金リクエスト
type TransferRequest struct {
	From     string `json:"from" example:"alice.jc"`
	To       string `json:"to" example:"bob"`
	Quantity string `json:"quantity" example:"1.5000 UBI"`
	Memo     string `json:"memo" example:"coffee"`
}

// OpenBalanceRequest 残高レコード作成リクエスト
// @Description 残高レコード作成リクエスト
type OpenBalanceRequest struct {
	Symbol string `json:"symbol" example:"4,UBI"`
	Payer  string `json:"payer" example:"alice.jc"`
}

// ClaimItem 操作中に確定したインカム請求
// @Description 操作中に確定したインカム請求
type ClaimItem struct {
	Account      string `json:"account" example:"alice.jc"`
	Quantity     string `json:"quantity" example:"5.0000 UBI"`
	NextClaimDay string `json:"next_claim_day" example:"1970-04-17"`
	LostDays     uint32 `json:"lost_days" example:"0"`
	Memo         string `json:"memo" example:"[UBI] +5.0000 UBI (next: 1970-04-17)"`
}

// OperationResult 更新操作レスポンス
// @Description 更新操作レスポンス
type OperationResult struct {
	TransactionID string      `json:"transaction_id,omitempty" example:"txn_0b6c7d3e-8f1a-4a55-9d1e-1f2a3b4c5d6e"`
	Status        string      `json:"status" example:"completed"`
	Claims        []ClaimItem `json:"claims"`
}

// BalanceResponse 残高レスポンス
// @Description 残高レスポンス
type BalanceResponse struct {
	Owner   string `json:"owner" example:"alice.jc"`
	Symbol  string `json:"symbol" example:"UBI"`
	Balance string `json:"balance" example:"5.0000 UBI"`
	Payer   string `json:"payer" example:"alice.jc"`
}

// ClaimWindowResponse 請求ウィンドウレスポンス
// @Description 請求ウィンドウレスポンス
type ClaimWindowResponse struct {
	Owner           string `json:"owner" example:"alice.jc"`
	Symbol          string `json:"symbol" example:"UBI"`
	Eligible        bool   `json:"eligible" example:"true"`
	LastClaimDay    uint32 `json:"last_claim_day" example:"105"`
	NextClaimDay    string `json:"next_claim_day" example:"1970-04-17"`
	Today           string `json:"today" example:"1970-04-16"`
	PendingQuantity string `json:"pending_quantity,omitempty" example:"0.0000 UBI"`
	PendingLostDays uint32 `json:"pending_lost_days" example:"0"`
}

// ErrorResponse エラーレスポンス
// @Description エラーレスポンス
type ErrorResponse struct {
	Error   string `json:"error" example:"insufficient_balance"`
	Message string `json:"message" example:"overdrawn balance"`
	Code    string `json:"code,omitempty" example:"insufficient_balance"`
}
