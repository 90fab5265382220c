package transaction

import (
	"context"
)

// TransactionManager トランザクション管理インターフェース。
// fnがエラーを返すかpanicした場合、fn内で行われた変更はすべて破棄される。
// リポジトリはfnに渡されたコンテキストを使うことで同じ原子単位に参加する。
type TransactionManager interface {
	// WithTransaction トランザクション内で関数を実行
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
