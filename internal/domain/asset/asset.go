package asset

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// MaxAmount 表現可能な最大数量 (2^62 - 1)
	MaxAmount int64 = 1<<62 - 1
)

// Asset 固定小数点の数量を表す値オブジェクト
type Asset struct {
	amount int64 // 最小単位の整数値
	symbol Symbol
}

// New 新しいAssetを作成
func New(amount int64, symbol Symbol) (Asset, error) {
	if !symbol.IsValid() {
		return Asset{}, ErrInvalidSymbol
	}
	if amount < -MaxAmount || amount > MaxAmount {
		return Asset{}, ErrOverflow
	}
	return Asset{amount: amount, symbol: symbol}, nil
}

// Zero 数量ゼロのAssetを返す
func Zero(symbol Symbol) Asset {
	return Asset{amount: 0, symbol: symbol}
}

// MustNew テスト用ヘルパー: Newを呼び出し、エラーが発生した場合はpanicする
func MustNew(amount int64, symbol Symbol) Asset {
	a, err := New(amount, symbol)
	if err != nil {
		panic(err)
	}
	return a
}

// Parse "5.0000 UBI" 形式の文字列からAssetを作成する。
// 精度は小数点以下の桁数から決まる。
func Parse(s string) (Asset, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Asset{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	number, code := fields[0], fields[1]

	var precision uint8
	if idx := strings.IndexByte(number, '.'); idx >= 0 {
		digits := len(number) - idx - 1
		if digits == 0 || digits > MaxPrecision {
			return Asset{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
		precision = uint8(digits)
	}

	symbol, err := NewSymbol(code, precision)
	if err != nil {
		return Asset{}, err
	}

	d, err := decimal.NewFromString(number)
	if err != nil {
		return Asset{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	scaled := d.Shift(int32(precision))
	if !scaled.IsInteger() {
		return Asset{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if scaled.Abs().GreaterThan(decimal.NewFromInt(MaxAmount)) {
		return Asset{}, ErrOverflow
	}

	return Asset{amount: scaled.IntPart(), symbol: symbol}, nil
}

// Amount 最小単位の数量を返す
func (a Asset) Amount() int64 {
	return a.amount
}

// Symbol シンボルを返す
func (a Asset) Symbol() Symbol {
	return a.symbol
}

// IsValid 数量とシンボルが有効かどうかを返す
func (a Asset) IsValid() bool {
	return a.symbol.IsValid() && a.amount >= -MaxAmount && a.amount <= MaxAmount
}

// IsPositive 数量が正かどうかを返す
func (a Asset) IsPositive() bool {
	return a.amount > 0
}

// WithAmount 同じシンボルで数量を置き換えたAssetを返す
func (a Asset) WithAmount(amount int64) (Asset, error) {
	return New(amount, a.symbol)
}

// Add 同じシンボルのAssetを加算
func (a Asset) Add(b Asset) (Asset, error) {
	if a.symbol != b.symbol {
		return Asset{}, ErrSymbolMismatch
	}
	// オーバーフローチェック
	if b.amount > 0 && a.amount > MaxAmount-b.amount {
		return Asset{}, ErrOverflow
	}
	if b.amount < 0 && a.amount < -MaxAmount-b.amount {
		return Asset{}, ErrOverflow
	}
	return Asset{amount: a.amount + b.amount, symbol: a.symbol}, nil
}

// Sub 同じシンボルのAssetを減算
func (a Asset) Sub(b Asset) (Asset, error) {
	if a.symbol != b.symbol {
		return Asset{}, ErrSymbolMismatch
	}
	return a.Add(Asset{amount: -b.amount, symbol: b.symbol})
}

// Decimal 数量をdecimalとして返す（表示用）
func (a Asset) Decimal() decimal.Decimal {
	return decimal.New(a.amount, -int32(a.symbol.precision))
}

// String "5.0000 UBI" 形式の文字列表現を返す
func (a Asset) String() string {
	return a.Decimal().StringFixed(int32(a.symbol.precision)) + " " + a.symbol.code
}
