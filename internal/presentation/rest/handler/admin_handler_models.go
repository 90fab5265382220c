package handler

// GenerateTokenRequest トークン発行リクエスト
// @Description トークン発行リクエスト
type GenerateTokenRequest struct {
	Account   string   `json:"account" example:"alice.jc"`
	Cosigners []string `json:"cosigners,omitempty" example:"ubi.jc"`
}

// GenerateTokenResponse トークン発行レスポンス
// @Description トークン発行レスポンス
type GenerateTokenResponse struct {
	Token     string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJ1c2VyX2lkIjoiYWxpY2UuamMifQ.signature"`
	ExpiresIn int    `json:"expires_in" example:"3600"`
	TokenType string `json:"token_type" example:"Bearer"`
}

// RegisterAccountRequest アカウント登録リクエスト
// @Description アカウント登録リクエスト
type RegisterAccountRequest struct {
	Name string `json:"name" example:"alice.jc"`
}

// AccountResponse アカウントレスポンス
// @Description アカウントレスポンス
type AccountResponse struct {
	Name      string `json:"name" example:"alice.jc"`
	CreatedAt string `json:"created_at" example:"2024-01-01T12:00:00Z"`
}

// AuditResponse 監査レスポンス
// @Description 供給量と残高合計の一致検査結果
type AuditResponse struct {
	Symbol      string `json:"symbol" example:"UBI"`
	Supply      string `json:"supply" example:"12.0000 UBI"`
	MaxSupply   string `json:"max_supply" example:"1000000000.0000 UBI"`
	Circulating string `json:"circulating" example:"12.0000 UBI"`
	Consistent  bool   `json:"consistent" example:"true"`
}
