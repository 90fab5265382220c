package ledger

import (
	"errors"

	"ubi-server/internal/domain/asset"
)

var (
	// ErrInvalidSymbol シンボルが無効
	ErrInvalidSymbol = asset.ErrInvalidSymbol
	// ErrInvalidAmount 数量が無効
	ErrInvalidAmount = asset.ErrInvalidAmount
	// ErrSymbolMismatch シンボル精度が一致しない
	ErrSymbolMismatch = asset.ErrSymbolMismatch
	// ErrOverflow 表現可能な範囲を超えた
	ErrOverflow = asset.ErrOverflow

	// ErrDuplicateCurrency 同じシンボルの通貨が既に存在する
	ErrDuplicateCurrency = errors.New("token with symbol already exists")
	// ErrCurrencyNotFound 通貨が存在しない
	ErrCurrencyNotFound = errors.New("token with symbol does not exist")
	// ErrUnauthorized 必要な権限がない
	ErrUnauthorized = errors.New("missing required authority")
	// ErrSupplyExceeded 最大供給量を超える
	ErrSupplyExceeded = errors.New("quantity exceeds available supply")
	// ErrInsufficientSupply 供給量が不足している
	ErrInsufficientSupply = errors.New("quantity exceeds current supply")
	// ErrInsufficientBalance 残高不足
	ErrInsufficientBalance = errors.New("overdrawn balance")
	// ErrNoBalance 残高レコードが存在しない
	ErrNoBalance = errors.New("no balance object found")
	// ErrBalanceNotFound クローズ対象の残高レコードが存在しない
	ErrBalanceNotFound = errors.New("balance row already deleted or never existed")
	// ErrNonZeroBalance 残高がゼロではない
	ErrNonZeroBalance = errors.New("cannot close because the balance is not zero")
	// ErrMemoTooLong メモが長すぎる
	ErrMemoTooLong = errors.New("memo has more than 256 bytes")
	// ErrAccountNotFound アカウントが存在しない
	ErrAccountNotFound = errors.New("account does not exist")
	// ErrClaimPending 当日分のインカムが既に請求済み
	ErrClaimPending = errors.New("cannot close yet: income was already claimed for today")
)
