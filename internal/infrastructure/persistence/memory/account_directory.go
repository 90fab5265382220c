package memory

import (
	"context"

	"ubi-server/internal/domain/account"
)

// AccountDirectory account.Directoryのインメモリ実装
type AccountDirectory struct {
	store *Store
}

// NewAccountDirectory 新しいAccountDirectoryを作成
func NewAccountDirectory(store *Store) *AccountDirectory {
	return &AccountDirectory{store: store}
}

// Exists アカウントが存在するか
func (d *AccountDirectory) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := d.store.read(ctx, func(st *state) error {
		_, exists = st.accounts[name]
		return nil
	})
	return exists, err
}

// Register アカウントを登録
func (d *AccountDirectory) Register(ctx context.Context, a *account.Account) error {
	return d.store.write(ctx, func(st *state) error {
		if _, ok := st.accounts[a.Name()]; ok {
			return account.ErrAccountAlreadyExists
		}
		st.accounts[a.Name()] = *a
		return nil
	})
}
