package eligibility

import (
	"strings"
	"sync"
)

// Oracle アカウントがインカムを受け取れるかを判定する。
// 実装は副作用を持たず、1回の操作中に同じアカウントへ複数回問い合わせてはならない。
type Oracle interface {
	IsEligible(account string) bool
}

// Func 関数をOracleとして扱うアダプター
type Func func(account string) bool

// IsEligible 関数を呼び出す
func (f Func) IsEligible(account string) bool {
	return f(account)
}

// Always 全アカウントを対象とするOracle
type Always struct{}

// IsEligible 常にtrue
func (Always) IsEligible(string) bool { return true }

// Never どのアカウントも対象としないOracle
type Never struct{}

// IsEligible 常にfalse
func (Never) IsEligible(string) bool { return false }

// Suffix アカウント名の接尾辞で判定するOracle（例: ".jc"）
type Suffix struct {
	suffix string
}

// NewSuffix 新しいSuffixを作成
func NewSuffix(suffix string) *Suffix {
	return &Suffix{suffix: suffix}
}

// IsEligible アカウント名が接尾辞で終わり、接尾辞以外の部分があるか
func (s *Suffix) IsEligible(account string) bool {
	return len(account) > len(s.suffix) && strings.HasSuffix(account, s.suffix)
}

// AllowList 許可リストで判定するOracle。KYC済みアカウントの登録・取消に使う。
type AllowList struct {
	mu       sync.RWMutex
	accounts map[string]struct{}
}

// NewAllowList 新しいAllowListを作成
func NewAllowList(accounts ...string) *AllowList {
	l := &AllowList{accounts: make(map[string]struct{}, len(accounts))}
	for _, a := range accounts {
		l.accounts[a] = struct{}{}
	}
	return l
}

// IsEligible 許可リストに含まれるか
func (l *AllowList) IsEligible(account string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.accounts[account]
	return ok
}

// Grant アカウントを許可リストに追加
func (l *AllowList) Grant(account string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts[account] = struct{}{}
}

// Revoke アカウントを許可リストから削除
func (l *AllowList) Revoke(account string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.accounts, account)
}

// New 設定値からOracleを作成する。
// rule: "suffix" / "allowlist" / "all" / "none"
func New(rule, suffix string, allowList []string) Oracle {
	switch rule {
	case "all":
		return Always{}
	case "none":
		return Never{}
	case "allowlist":
		return NewAllowList(allowList...)
	default:
		return NewSuffix(suffix)
	}
}
