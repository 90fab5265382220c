package auth

// GenerateTokenRequest トークン生成リクエスト
type GenerateTokenRequest struct {
	Account   string
	Cosigners []string // 同じ操作を承認する追加アカウント
}

// GenerateTokenResponse トークン生成レスポンス
type GenerateTokenResponse struct {
	Token     string
	ExpiresIn int64  // 秒単位
	TokenType string // "Bearer"
}

// Principal 検証済みトークンが表すアカウント
type Principal struct {
	Account   string
	Cosigners []string
}

// Accounts 承認済みアカウントの一覧（本人を先頭に含む）
func (p *Principal) Accounts() []string {
	return append([]string{p.Account}, p.Cosigners...)
}
