package memory

import (
	"context"

	"ubi-server/internal/domain/ledger"
)

// StatsRepository ledger.StatsRepositoryのインメモリ実装
type StatsRepository struct {
	store *Store
}

// NewStatsRepository 新しいStatsRepositoryを作成
func NewStatsRepository(store *Store) *StatsRepository {
	return &StatsRepository{store: store}
}

// FindBySymbol シンボルコードで供給量を取得
func (r *StatsRepository) FindBySymbol(ctx context.Context, code string) (*ledger.CurrencyStats, error) {
	var found ledger.CurrencyStats
	err := r.store.read(ctx, func(st *state) error {
		s, ok := st.stats[code]
		if !ok {
			return ledger.ErrCurrencyNotFound
		}
		found = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

// Create 新しい通貨を作成
func (r *StatsRepository) Create(ctx context.Context, stats *ledger.CurrencyStats) error {
	return r.store.write(ctx, func(st *state) error {
		code := stats.Symbol().Code()
		if _, ok := st.stats[code]; ok {
			return ledger.ErrDuplicateCurrency
		}
		st.stats[code] = *stats
		return nil
	})
}

// Save 供給量を保存
func (r *StatsRepository) Save(ctx context.Context, stats *ledger.CurrencyStats) error {
	return r.store.write(ctx, func(st *state) error {
		code := stats.Symbol().Code()
		if _, ok := st.stats[code]; !ok {
			return ledger.ErrCurrencyNotFound
		}
		st.stats[code] = *stats
		return nil
	})
}

// BalanceRepository ledger.BalanceRepositoryのインメモリ実装
type BalanceRepository struct {
	store *Store
}

// NewBalanceRepository 新しいBalanceRepositoryを作成
func NewBalanceRepository(store *Store) *BalanceRepository {
	return &BalanceRepository{store: store}
}

// Find 所有者とシンボルコードで残高を取得
func (r *BalanceRepository) Find(ctx context.Context, owner, code string) (*ledger.Balance, error) {
	var found ledger.Balance
	err := r.store.read(ctx, func(st *state) error {
		b, ok := st.balances[ownerKey{owner, code}]
		if !ok {
			return ledger.ErrNoBalance
		}
		found = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

// Create 新しい残高レコードを作成
func (r *BalanceRepository) Create(ctx context.Context, balance *ledger.Balance) error {
	return r.store.write(ctx, func(st *state) error {
		key := ownerKey{balance.Owner(), balance.Symbol().Code()}
		if _, ok := st.balances[key]; ok {
			return ErrDuplicateKey
		}
		st.balances[key] = *balance
		return nil
	})
}

// Save 残高を保存
func (r *BalanceRepository) Save(ctx context.Context, balance *ledger.Balance) error {
	return r.store.write(ctx, func(st *state) error {
		key := ownerKey{balance.Owner(), balance.Symbol().Code()}
		if _, ok := st.balances[key]; !ok {
			return ledger.ErrNoBalance
		}
		st.balances[key] = *balance
		return nil
	})
}

// Delete 残高レコードを削除
func (r *BalanceRepository) Delete(ctx context.Context, owner, code string) error {
	return r.store.write(ctx, func(st *state) error {
		key := ownerKey{owner, code}
		if _, ok := st.balances[key]; !ok {
			return ledger.ErrBalanceNotFound
		}
		delete(st.balances, key)
		return nil
	})
}

// SumBySymbol シンボルコードごとの残高合計を返す
func (r *BalanceRepository) SumBySymbol(ctx context.Context, code string) (int64, error) {
	var sum int64
	err := r.store.read(ctx, func(st *state) error {
		for key, b := range st.balances {
			if key.code == code {
				sum += b.Amount().Amount()
			}
		}
		return nil
	})
	return sum, err
}
