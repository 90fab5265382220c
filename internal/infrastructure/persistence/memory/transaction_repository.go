package memory

import (
	"context"

	"ubi-server/internal/domain/transaction"
)

// TransactionRepository transaction.TransactionRepositoryのインメモリ実装
type TransactionRepository struct {
	store *Store
}

// NewTransactionRepository 新しいTransactionRepositoryを作成
func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

// Save トランザクションを保存
func (r *TransactionRepository) Save(ctx context.Context, t *transaction.Transaction) error {
	return r.store.write(ctx, func(st *state) error {
		for _, existing := range st.transactions {
			if existing.TransactionID() == t.TransactionID() {
				return transaction.ErrDuplicateTransactionID
			}
		}
		st.transactions = append(st.transactions, *t)
		return nil
	})
}

// FindByTransactionID トランザクションIDでトランザクションを取得
func (r *TransactionRepository) FindByTransactionID(ctx context.Context, transactionID string) (*transaction.Transaction, error) {
	var found *transaction.Transaction
	err := r.store.read(ctx, func(st *state) error {
		for _, t := range st.transactions {
			if t.TransactionID() == transactionID {
				found = &t
				return nil
			}
		}
		return transaction.ErrTransactionNotFound
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// FindByAccount アカウントが主体または相手のトランザクション一覧を新しい順に取得
func (r *TransactionRepository) FindByAccount(ctx context.Context, account string, limit, offset int) ([]*transaction.Transaction, error) {
	var result []*transaction.Transaction
	err := r.store.read(ctx, func(st *state) error {
		skipped := 0
		for i := len(st.transactions) - 1; i >= 0 && len(result) < limit; i-- {
			t := st.transactions[i]
			if t.Account() != account && t.Counterparty() != account {
				continue
			}
			if skipped < offset {
				skipped++
				continue
			}
			result = append(result, &t)
		}
		return nil
	})
	return result, err
}
