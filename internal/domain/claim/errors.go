package claim

import "errors"

var (
	// ErrWindowNotFound 請求ウィンドウが存在しない
	ErrWindowNotFound = errors.New("claim window not found")
	// ErrAlreadyExists 請求ウィンドウが既に存在する
	ErrAlreadyExists = errors.New("claim window already exists")
	// ErrNonMonotonic 最終請求日が後退する（不変条件違反）
	ErrNonMonotonic = errors.New("claim window cannot move backwards")
)
