package asset

import "errors"

var (
	// ErrInvalidSymbol シンボルが無効
	ErrInvalidSymbol = errors.New("invalid symbol")
	// ErrInvalidAmount 数量が無効（非正、または形式不正）
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrSymbolMismatch シンボルまたは精度が一致しない
	ErrSymbolMismatch = errors.New("symbol precision mismatch")
	// ErrOverflow 表現可能な範囲を超えた
	ErrOverflow = errors.New("asset amount overflow")
)
