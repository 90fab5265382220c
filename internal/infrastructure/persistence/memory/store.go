// Package memory は台帳をプロセス内に保持する永続化層を提供する。
// トランザクション中の変更はコミットまで他の読み手から見えない。
package memory

import (
	"context"
	"errors"
	"sync"

	"ubi-server/internal/domain/account"
	"ubi-server/internal/domain/claim"
	"ubi-server/internal/domain/ledger"
	"ubi-server/internal/domain/transaction"
)

// ErrDuplicateKey 同じキーのレコードが既に存在する
var ErrDuplicateKey = errors.New("duplicate key")

type ownerKey struct {
	owner string
	code  string
}

type state struct {
	stats        map[string]ledger.CurrencyStats
	balances     map[ownerKey]ledger.Balance
	windows      map[ownerKey]claim.Window
	transactions []transaction.Transaction
	accounts     map[string]account.Account
}

func newState() state {
	return state{
		stats:    map[string]ledger.CurrencyStats{},
		balances: map[ownerKey]ledger.Balance{},
		windows:  map[ownerKey]claim.Window{},
		accounts: map[string]account.Account{},
	}
}

func (s state) clone() state {
	c := state{
		stats:        make(map[string]ledger.CurrencyStats, len(s.stats)),
		balances:     make(map[ownerKey]ledger.Balance, len(s.balances)),
		windows:      make(map[ownerKey]claim.Window, len(s.windows)),
		transactions: make([]transaction.Transaction, len(s.transactions)),
		accounts:     make(map[string]account.Account, len(s.accounts)),
	}
	for k, v := range s.stats {
		c.stats[k] = v
	}
	for k, v := range s.balances {
		c.balances[k] = v
	}
	for k, v := range s.windows {
		c.windows[k] = v
	}
	copy(c.transactions, s.transactions)
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	return c
}

// Store プロセス内の台帳データ。エンティティは値で保持し、取得時にコピーを返す
type Store struct {
	txMu sync.Mutex // 書き込みを直列化する
	mu   sync.RWMutex
	data state
}

// NewStore 新しいStoreを作成
func NewStore() *Store {
	return &Store{data: newState()}
}

type stagedKey struct {
	store *Store
}

// staged トランザクション中のステージング状態を返す
func (s *Store) staged(ctx context.Context) (*state, bool) {
	st, ok := ctx.Value(stagedKey{s}).(*state)
	return st, ok
}

// read 読み取り。トランザクション内ならステージング状態、外ならコミット済みの状態を参照する
func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if st, ok := s.staged(ctx); ok {
		return fn(st)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&s.data)
}

// write 書き込み。トランザクション外の書き込みは実行中のトランザクションの完了を待つ
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if st, ok := s.staged(ctx); ok {
		return fn(st)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.data)
}

// TransactionManager Storeに対するステージング付きトランザクション管理
type TransactionManager struct {
	store *Store
}

// NewTransactionManager 新しいトランザクションマネージャーを作成
func NewTransactionManager(store *Store) *TransactionManager {
	return &TransactionManager{store: store}
}

// WithTransaction トランザクション内で関数を実行する。
// 変更はコンテキストに載せたコピーに対して行い、fnが成功した場合のみ入れ替える。
// エラーまたはpanicの場合はコピーを破棄する。入れ子の呼び出しは外側のトランザクションに参加する。
func (tm *TransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s := tm.store
	if _, ok := s.staged(ctx); ok {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	staged := s.data.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, stagedKey{s}, &staged)); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = staged
	s.mu.Unlock()
	return nil
}
