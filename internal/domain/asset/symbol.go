package asset

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// MaxPrecision 小数点以下の最大桁数
	MaxPrecision = 18
)

var symbolCodeRegex = regexp.MustCompile(`^[A-Z]{1,7}$`)

// Symbol 通貨シンボルを表す値オブジェクト（コード + 精度）
type Symbol struct {
	code      string
	precision uint8
}

// NewSymbol 新しいSymbolを作成
func NewSymbol(code string, precision uint8) (Symbol, error) {
	if !symbolCodeRegex.MatchString(code) {
		return Symbol{}, fmt.Errorf("%w: code %q", ErrInvalidSymbol, code)
	}
	if precision > MaxPrecision {
		return Symbol{}, fmt.Errorf("%w: precision %d", ErrInvalidSymbol, precision)
	}
	return Symbol{code: code, precision: precision}, nil
}

// MustNewSymbol テスト用ヘルパー: NewSymbolを呼び出し、エラーが発生した場合はpanicする
func MustNewSymbol(code string, precision uint8) Symbol {
	s, err := NewSymbol(code, precision)
	if err != nil {
		panic(err)
	}
	return s
}

// ParseSymbol "4,UBI" 形式の文字列からSymbolを作成
func ParseSymbol(s string) (Symbol, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Symbol{}, fmt.Errorf("%w: %q", ErrInvalidSymbol, s)
	}
	p, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 8)
	if err != nil {
		return Symbol{}, fmt.Errorf("%w: %q", ErrInvalidSymbol, s)
	}
	return NewSymbol(strings.TrimSpace(parts[1]), uint8(p))
}

// ValidateCode シンボルコードを検証
func ValidateCode(code string) error {
	if !symbolCodeRegex.MatchString(code) {
		return fmt.Errorf("%w: code %q", ErrInvalidSymbol, code)
	}
	return nil
}

// Code シンボルコードを返す
func (s Symbol) Code() string {
	return s.code
}

// Precision 精度を返す
func (s Symbol) Precision() uint8 {
	return s.precision
}

// Multiplier 1トークンあたりの最小単位数 (10^precision) を返す
func (s Symbol) Multiplier() int64 {
	m := int64(1)
	for i := uint8(0); i < s.precision; i++ {
		m *= 10
	}
	return m
}

// IsValid 有効なシンボルかどうかを返す
func (s Symbol) IsValid() bool {
	return symbolCodeRegex.MatchString(s.code) && s.precision <= MaxPrecision
}

// String "4,UBI" 形式の文字列表現を返す
func (s Symbol) String() string {
	return fmt.Sprintf("%d,%s", s.precision, s.code)
}
