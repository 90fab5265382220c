package ledger

import (
	"context"
)

// StatsRepository 通貨供給量リポジトリインターフェース
type StatsRepository interface {
	// FindBySymbol シンボルコードで供給量を取得（存在しない場合はErrCurrencyNotFound）
	FindBySymbol(ctx context.Context, code string) (*CurrencyStats, error)

	// Create 新しい通貨を作成
	Create(ctx context.Context, stats *CurrencyStats) error

	// Save 供給量を保存
	Save(ctx context.Context, stats *CurrencyStats) error
}

// BalanceRepository 残高リポジトリインターフェース
type BalanceRepository interface {
	// Find 所有者とシンボルコードで残高を取得（存在しない場合はErrNoBalance）
	Find(ctx context.Context, owner, code string) (*Balance, error)

	// Create 新しい残高レコードを作成
	Create(ctx context.Context, balance *Balance) error

	// Save 残高を保存
	Save(ctx context.Context, balance *Balance) error

	// Delete 残高レコードを削除
	Delete(ctx context.Context, owner, code string) error

	// SumBySymbol シンボルコードごとの残高合計を返す（監査用）
	SumBySymbol(ctx context.Context, code string) (int64, error)
}
