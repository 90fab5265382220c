package claim

import (
	"context"
)

// WindowRepository 請求ウィンドウリポジトリインターフェース
type WindowRepository interface {
	// Find 所有者とシンボルコードでウィンドウを取得（存在しない場合はErrWindowNotFound）
	Find(ctx context.Context, owner, code string) (*Window, error)

	// Create 新しいウィンドウを作成
	Create(ctx context.Context, window *Window) error

	// Save ウィンドウを保存
	Save(ctx context.Context, window *Window) error

	// Delete ウィンドウを削除
	Delete(ctx context.Context, owner, code string) error
}
