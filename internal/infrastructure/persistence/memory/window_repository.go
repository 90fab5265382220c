package memory

import (
	"context"

	"ubi-server/internal/domain/claim"
)

// WindowRepository claim.WindowRepositoryのインメモリ実装
type WindowRepository struct {
	store *Store
}

// NewWindowRepository 新しいWindowRepositoryを作成
func NewWindowRepository(store *Store) *WindowRepository {
	return &WindowRepository{store: store}
}

// Find 所有者とシンボルコードでウィンドウを取得
func (r *WindowRepository) Find(ctx context.Context, owner, code string) (*claim.Window, error) {
	var found claim.Window
	err := r.store.read(ctx, func(st *state) error {
		w, ok := st.windows[ownerKey{owner, code}]
		if !ok {
			return claim.ErrWindowNotFound
		}
		found = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

// Create 新しいウィンドウを作成
func (r *WindowRepository) Create(ctx context.Context, window *claim.Window) error {
	return r.store.write(ctx, func(st *state) error {
		key := ownerKey{window.Owner(), window.SymbolCode()}
		if _, ok := st.windows[key]; ok {
			return claim.ErrAlreadyExists
		}
		st.windows[key] = *window
		return nil
	})
}

// Save ウィンドウを保存。最終請求日の後退は拒否する
func (r *WindowRepository) Save(ctx context.Context, window *claim.Window) error {
	return r.store.write(ctx, func(st *state) error {
		key := ownerKey{window.Owner(), window.SymbolCode()}
		current, ok := st.windows[key]
		if !ok {
			return claim.ErrWindowNotFound
		}
		if window.LastClaimDay() < current.LastClaimDay() {
			return claim.ErrNonMonotonic
		}
		st.windows[key] = *window
		return nil
	})
}

// Delete ウィンドウを削除
func (r *WindowRepository) Delete(ctx context.Context, owner, code string) error {
	return r.store.write(ctx, func(st *state) error {
		key := ownerKey{owner, code}
		if _, ok := st.windows[key]; !ok {
			return claim.ErrWindowNotFound
		}
		delete(st.windows, key)
		return nil
	})
}
