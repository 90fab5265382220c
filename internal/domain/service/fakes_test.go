package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ubi-server/internal/domain/claim"
	"ubi-server/internal/domain/ledger"
)

type fakeStatsRepo struct {
	stats map[string]*ledger.CurrencyStats
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{stats: map[string]*ledger.CurrencyStats{}}
}

func (r *fakeStatsRepo) FindBySymbol(_ context.Context, code string) (*ledger.CurrencyStats, error) {
	st, ok := r.stats[code]
	if !ok {
		return nil, ledger.ErrCurrencyNotFound
	}
	return st, nil
}

func (r *fakeStatsRepo) Create(_ context.Context, st *ledger.CurrencyStats) error {
	r.stats[st.Symbol().Code()] = st
	return nil
}

func (r *fakeStatsRepo) Save(_ context.Context, st *ledger.CurrencyStats) error {
	r.stats[st.Symbol().Code()] = st
	return nil
}

type fakeBalanceRepo struct {
	balances map[string]*ledger.Balance
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{balances: map[string]*ledger.Balance{}}
}

func (r *fakeBalanceRepo) Find(_ context.Context, owner, code string) (*ledger.Balance, error) {
	b, ok := r.balances[owner+"/"+code]
	if !ok {
		return nil, ledger.ErrNoBalance
	}
	return b, nil
}

func (r *fakeBalanceRepo) Create(_ context.Context, b *ledger.Balance) error {
	r.balances[b.Owner()+"/"+b.Symbol().Code()] = b
	return nil
}

func (r *fakeBalanceRepo) Save(_ context.Context, b *ledger.Balance) error {
	r.balances[b.Owner()+"/"+b.Symbol().Code()] = b
	return nil
}

func (r *fakeBalanceRepo) Delete(_ context.Context, owner, code string) error {
	delete(r.balances, owner+"/"+code)
	return nil
}

func (r *fakeBalanceRepo) SumBySymbol(_ context.Context, code string) (int64, error) {
	var sum int64
	for _, b := range r.balances {
		if b.Symbol().Code() == code {
			sum += b.Amount().Amount()
		}
	}
	return sum, nil
}

type fakeWindowRepo struct {
	windows map[string]*claim.Window
}

func newFakeWindowRepo() *fakeWindowRepo {
	return &fakeWindowRepo{windows: map[string]*claim.Window{}}
}

func (r *fakeWindowRepo) Find(_ context.Context, owner, code string) (*claim.Window, error) {
	w, ok := r.windows[owner+"/"+code]
	if !ok {
		return nil, claim.ErrWindowNotFound
	}
	return w, nil
}

func (r *fakeWindowRepo) Create(_ context.Context, w *claim.Window) error {
	r.windows[w.Owner()+"/"+w.SymbolCode()] = w
	return nil
}

func (r *fakeWindowRepo) Save(_ context.Context, w *claim.Window) error {
	r.windows[w.Owner()+"/"+w.SymbolCode()] = w
	return nil
}

func (r *fakeWindowRepo) Delete(_ context.Context, owner, code string) error {
	delete(r.windows, owner+"/"+code)
	return nil
}

// MockBalanceRepository モック残高リポジトリ
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) Find(ctx context.Context, owner, code string) (*ledger.Balance, error) {
	args := m.Called(ctx, owner, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Balance), args.Error(1)
}

func (m *MockBalanceRepository) Create(ctx context.Context, b *ledger.Balance) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBalanceRepository) Save(ctx context.Context, b *ledger.Balance) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBalanceRepository) Delete(ctx context.Context, owner, code string) error {
	args := m.Called(ctx, owner, code)
	return args.Error(0)
}

func (m *MockBalanceRepository) SumBySymbol(ctx context.Context, code string) (int64, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(int64), args.Error(1)
}
