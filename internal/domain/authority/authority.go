// Package authority は1回の操作に付随する署名済みアカウントの集合を扱う。
// 署名の検証自体はホスト側（JWTミドルウェア等）で行われる。
package authority

import (
	"context"
)

type contextKey struct{}

// Set 操作を承認したアカウントの集合
type Set map[string]struct{}

// NewSet 新しいSetを作成
func NewSet(accounts ...string) Set {
	s := make(Set, len(accounts))
	for _, a := range accounts {
		if a != "" {
			s[a] = struct{}{}
		}
	}
	return s
}

// Has アカウントの承認があるか
func (s Set) Has(account string) bool {
	_, ok := s[account]
	return ok
}

// Accounts 承認済みアカウントの一覧を返す
func (s Set) Accounts() []string {
	out := make([]string, 0, len(s))
	for a := range s {
		out = append(out, a)
	}
	return out
}

// WithAuthorizations 承認済みアカウントをコンテキストに設定
func WithAuthorizations(ctx context.Context, accounts ...string) context.Context {
	return context.WithValue(ctx, contextKey{}, NewSet(accounts...))
}

// FromContext コンテキストから承認済みアカウントの集合を取得
func FromContext(ctx context.Context) Set {
	s, ok := ctx.Value(contextKey{}).(Set)
	if !ok {
		return Set{}
	}
	return s
}

// HasAuth コンテキストにアカウントの承認があるか
func HasAuth(ctx context.Context, account string) bool {
	return FromContext(ctx).Has(account)
}
