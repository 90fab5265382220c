package ledger

import (
	"ubi-server/internal/domain/asset"
)

// CurrencyStats 通貨ごとの供給量エンティティ
type CurrencyStats struct {
	supply         asset.Asset
	maxSupply      asset.Asset
	issuer         string
	retireIsPublic bool // trueの場合、誰でもretireを呼び出せる
}

// NewCurrencyStats 新しいCurrencyStatsを作成（供給量ゼロ）
func NewCurrencyStats(issuer string, maxSupply asset.Asset, retireIsPublic bool) (*CurrencyStats, error) {
	if !maxSupply.Symbol().IsValid() {
		return nil, ErrInvalidSymbol
	}
	if !maxSupply.IsValid() || maxSupply.Amount() <= 0 {
		return nil, ErrInvalidAmount
	}
	return &CurrencyStats{
		supply:         asset.Zero(maxSupply.Symbol()),
		maxSupply:      maxSupply,
		issuer:         issuer,
		retireIsPublic: retireIsPublic,
	}, nil
}

// RestoreCurrencyStats 永続化された値からCurrencyStatsを復元
func RestoreCurrencyStats(supply, maxSupply asset.Asset, issuer string, retireIsPublic bool) (*CurrencyStats, error) {
	if supply.Symbol() != maxSupply.Symbol() {
		return nil, ErrSymbolMismatch
	}
	if supply.Amount() < 0 || supply.Amount() > maxSupply.Amount() {
		return nil, ErrSupplyExceeded
	}
	return &CurrencyStats{
		supply:         supply,
		maxSupply:      maxSupply,
		issuer:         issuer,
		retireIsPublic: retireIsPublic,
	}, nil
}

// MustRestoreCurrencyStats テスト用ヘルパー
func MustRestoreCurrencyStats(supply, maxSupply asset.Asset, issuer string, retireIsPublic bool) *CurrencyStats {
	st, err := RestoreCurrencyStats(supply, maxSupply, issuer, retireIsPublic)
	if err != nil {
		panic(err)
	}
	return st
}

// Symbol シンボルを返す
func (s *CurrencyStats) Symbol() asset.Symbol {
	return s.supply.Symbol()
}

// Supply 現在の供給量を返す
func (s *CurrencyStats) Supply() asset.Asset {
	return s.supply
}

// MaxSupply 最大供給量を返す
func (s *CurrencyStats) MaxSupply() asset.Asset {
	return s.maxSupply
}

// Issuer 発行者を返す
func (s *CurrencyStats) Issuer() string {
	return s.issuer
}

// RetireIsPublic 誰でもretireできるかを返す
func (s *CurrencyStats) RetireIsPublic() bool {
	return s.retireIsPublic
}

// Headroom 追加発行可能な最小単位数 (max_supply - supply) を返す
func (s *CurrencyStats) Headroom() int64 {
	return s.maxSupply.Amount() - s.supply.Amount()
}

// Mint 供給量を増やす
func (s *CurrencyStats) Mint(quantity asset.Asset) error {
	if quantity.Symbol() != s.Symbol() {
		return ErrSymbolMismatch
	}
	if quantity.Amount() <= 0 {
		return ErrInvalidAmount
	}
	if quantity.Amount() > s.Headroom() {
		return ErrSupplyExceeded
	}
	supply, err := s.supply.Add(quantity)
	if err != nil {
		return err
	}
	s.supply = supply
	return nil
}

// Burn 供給量を減らす
func (s *CurrencyStats) Burn(quantity asset.Asset) error {
	if quantity.Symbol() != s.Symbol() {
		return ErrSymbolMismatch
	}
	if quantity.Amount() <= 0 {
		return ErrInvalidAmount
	}
	if quantity.Amount() > s.supply.Amount() {
		return ErrInsufficientSupply
	}
	supply, err := s.supply.Sub(quantity)
	if err != nil {
		return err
	}
	s.supply = supply
	return nil
}
