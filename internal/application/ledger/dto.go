package ledger

// CreateCurrencyRequest 通貨作成リクエスト
type CreateCurrencyRequest struct {
	Issuer    string
	MaxSupply string // "1000000.0000 UBI"
}

// IssueRequest 発行リクエスト
type IssueRequest struct {
	Symbol   string // optional: パスで指定されたシンボルコード
	To       string
	Quantity string
	Memo     string
}

// RetireRequest 償却リクエスト
type RetireRequest struct {
	Symbol   string // optional
	Quantity string
	Memo     string
}

// TransferRequest 送金リクエスト
type TransferRequest struct {
	From     string
	To       string
	Quantity string
	Memo     string
}

// OpenRequest 残高レコード作成リクエスト
type OpenRequest struct {
	Owner  string
	Symbol string // "4,UBI"
	Payer  string
}

// CloseRequest 残高レコード削除リクエスト
type CloseRequest struct {
	Owner  string
	Symbol string // "UBI"
}

// OperationResponse 更新操作のレスポンス
type OperationResponse struct {
	TransactionID string
	Claims        []ClaimResponse
	Status        string
}

// ClaimResponse 操作中に確定したインカム請求
type ClaimResponse struct {
	Account      string
	Quantity     string
	NextClaimDay string
	LostDays     uint32
	Memo         string
}

// CurrencyResponse 通貨統計レスポンス
type CurrencyResponse struct {
	Symbol         string
	Precision      uint8
	Supply         string
	MaxSupply      string
	Issuer         string
	RetireIsPublic bool
}

// SupplyResponse 供給量レスポンス
type SupplyResponse struct {
	Symbol    string
	Supply    string
	MaxSupply string
}

// BalanceResponse 残高レスポンス
type BalanceResponse struct {
	Owner   string
	Symbol  string
	Balance string
	Payer   string
}

// ClaimWindowResponse 請求ウィンドウレスポンス
type ClaimWindowResponse struct {
	Owner           string
	Symbol          string
	Eligible        bool
	LastClaimDay    uint32
	NextClaimDay    string
	Today           string
	PendingQuantity string // 現時点で請求した場合の付与量
	PendingLostDays uint32
}

// AuditResponse 不変条件の検査結果
type AuditResponse struct {
	Symbol      string
	Supply      string
	MaxSupply   string
	Circulating string
	Consistent  bool
}

// RegisterAccountResponse アカウント登録レスポンス
type RegisterAccountResponse struct {
	Name      string
	CreatedAt string
}
