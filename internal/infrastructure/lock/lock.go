// Package lock は通貨単位の操作を直列化するロックを提供する。
package lock

import (
	"context"
	"errors"
	"sync"
)

// ErrLockTimeout ロックの取得がタイムアウトした
var ErrLockTimeout = errors.New("timed out acquiring lock")

// Locker キー単位の排他ロック
type Locker interface {
	// Acquire キーのロックを取得し、解放関数を返す。ctxが終了した場合はエラーを返す
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Local プロセス内のキー単位ミューテックス
type Local struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

// NewLocal 新しいLocalを作成
func NewLocal() *Local {
	return &Local{locks: make(map[string]chan struct{})}
}

func (l *Local) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[key] = ch
	}
	return ch
}

// Acquire キーのロックを取得
func (l *Local) Acquire(ctx context.Context, key string) (func(), error) {
	ch := l.slot(key)
	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-ch }) }, nil
	case <-ctx.Done():
		return nil, errors.Join(ErrLockTimeout, ctx.Err())
	}
}
