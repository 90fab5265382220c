package ledger

import (
	"ubi-server/internal/domain/asset"
)

// Balance アカウントごとの残高エンティティ
type Balance struct {
	owner  string
	amount asset.Asset
	payer  string // レコード作成時のリソース負担者
}

// NewBalance 新しいBalanceを作成（残高ゼロ）
func NewBalance(owner string, symbol asset.Symbol, payer string) *Balance {
	return &Balance{
		owner:  owner,
		amount: asset.Zero(symbol),
		payer:  payer,
	}
}

// RestoreBalance 永続化された値からBalanceを復元
func RestoreBalance(owner string, amount asset.Asset, payer string) (*Balance, error) {
	if amount.Amount() < 0 {
		return nil, ErrInvalidAmount
	}
	return &Balance{owner: owner, amount: amount, payer: payer}, nil
}

// MustRestoreBalance テスト用ヘルパー
func MustRestoreBalance(owner string, amount asset.Asset, payer string) *Balance {
	b, err := RestoreBalance(owner, amount, payer)
	if err != nil {
		panic(err)
	}
	return b
}

// Owner 所有者を返す
func (b *Balance) Owner() string {
	return b.owner
}

// Amount 残高を返す
func (b *Balance) Amount() asset.Asset {
	return b.amount
}

// Symbol シンボルを返す
func (b *Balance) Symbol() asset.Symbol {
	return b.amount.Symbol()
}

// Payer リソース負担者を返す
func (b *Balance) Payer() string {
	return b.payer
}

// IsZero 残高がゼロかどうかを返す
func (b *Balance) IsZero() bool {
	return b.amount.Amount() == 0
}

// Credit 残高を増やす
func (b *Balance) Credit(quantity asset.Asset) error {
	if quantity.Symbol() != b.Symbol() {
		return ErrSymbolMismatch
	}
	if quantity.Amount() <= 0 {
		return ErrInvalidAmount
	}
	amount, err := b.amount.Add(quantity)
	if err != nil {
		return err
	}
	b.amount = amount
	return nil
}

// Debit 残高を減らす
func (b *Balance) Debit(quantity asset.Asset) error {
	if quantity.Symbol() != b.Symbol() {
		return ErrSymbolMismatch
	}
	if quantity.Amount() <= 0 {
		return ErrInvalidAmount
	}
	if b.amount.Amount() < quantity.Amount() {
		return ErrInsufficientBalance
	}
	amount, err := b.amount.Sub(quantity)
	if err != nil {
		return err
	}
	b.amount = amount
	return nil
}
