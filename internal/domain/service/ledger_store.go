package service

import (
	"context"
	"errors"
	"fmt"

	"ubi-server/internal/domain/asset"
	"ubi-server/internal/domain/ledger"
)

// LedgerStore 供給量と残高を管理するドメインサービス
type LedgerStore struct {
	statsRepo   ledger.StatsRepository
	balanceRepo ledger.BalanceRepository
}

// NewLedgerStore 新しいLedgerStoreを作成
func NewLedgerStore(statsRepo ledger.StatsRepository, balanceRepo ledger.BalanceRepository) *LedgerStore {
	return &LedgerStore{
		statsRepo:   statsRepo,
		balanceRepo: balanceRepo,
	}
}

// CreateCurrency 新しい通貨を作成する
func (s *LedgerStore) CreateCurrency(ctx context.Context, issuer string, maxSupply asset.Asset, retireIsPublic bool) (*ledger.CurrencyStats, error) {
	stats, err := ledger.NewCurrencyStats(issuer, maxSupply, retireIsPublic)
	if err != nil {
		return nil, err
	}

	if _, err := s.statsRepo.FindBySymbol(ctx, maxSupply.Symbol().Code()); err == nil {
		return nil, ledger.ErrDuplicateCurrency
	} else if !errors.Is(err, ledger.ErrCurrencyNotFound) {
		return nil, fmt.Errorf("failed to find currency: %w", err)
	}

	if err := s.statsRepo.Create(ctx, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// Stats 通貨の供給量を取得する
func (s *LedgerStore) Stats(ctx context.Context, code string) (*ledger.CurrencyStats, error) {
	return s.statsRepo.FindBySymbol(ctx, code)
}

// Balance 残高を取得する
func (s *LedgerStore) Balance(ctx context.Context, owner, code string) (*ledger.Balance, error) {
	return s.balanceRepo.Find(ctx, owner, code)
}

// Credit 残高を増やす。残高レコードが存在しない場合はpayerの負担で作成し、createdにtrueを返す
func (s *LedgerStore) Credit(ctx context.Context, owner string, quantity asset.Asset, payer string) (bool, error) {
	if quantity.Amount() <= 0 {
		return false, ledger.ErrInvalidAmount
	}

	balance, err := s.balanceRepo.Find(ctx, owner, quantity.Symbol().Code())
	if errors.Is(err, ledger.ErrNoBalance) {
		balance = ledger.NewBalance(owner, quantity.Symbol(), payer)
		if err := balance.Credit(quantity); err != nil {
			return false, err
		}
		if err := s.balanceRepo.Create(ctx, balance); err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, err
	}

	if err := balance.Credit(quantity); err != nil {
		return false, err
	}
	return false, s.balanceRepo.Save(ctx, balance)
}

// Debit 残高を減らす
func (s *LedgerStore) Debit(ctx context.Context, owner string, quantity asset.Asset) error {
	balance, err := s.balanceRepo.Find(ctx, owner, quantity.Symbol().Code())
	if err != nil {
		return err
	}
	if err := balance.Debit(quantity); err != nil {
		return err
	}
	return s.balanceRepo.Save(ctx, balance)
}

// MintIntoSupply 供給量を増やして保存する
func (s *LedgerStore) MintIntoSupply(ctx context.Context, stats *ledger.CurrencyStats, quantity asset.Asset) error {
	if err := stats.Mint(quantity); err != nil {
		return err
	}
	return s.statsRepo.Save(ctx, stats)
}

// BurnFromSupply 供給量を減らして保存する
func (s *LedgerStore) BurnFromSupply(ctx context.Context, stats *ledger.CurrencyStats, quantity asset.Asset) error {
	if err := stats.Burn(quantity); err != nil {
		return err
	}
	return s.statsRepo.Save(ctx, stats)
}

// OpenBalance 残高ゼロのレコードを作成する。既に存在する場合は何もしない
func (s *LedgerStore) OpenBalance(ctx context.Context, owner string, symbol asset.Symbol, payer string) (bool, error) {
	balance, err := s.balanceRepo.Find(ctx, owner, symbol.Code())
	if err == nil {
		if balance.Symbol() != symbol {
			return false, ledger.ErrSymbolMismatch
		}
		return false, nil
	}
	if !errors.Is(err, ledger.ErrNoBalance) {
		return false, err
	}

	if err := s.balanceRepo.Create(ctx, ledger.NewBalance(owner, symbol, payer)); err != nil {
		return false, err
	}
	return true, nil
}

// CloseBalance 残高ゼロのレコードを削除する
func (s *LedgerStore) CloseBalance(ctx context.Context, owner, code string) error {
	balance, err := s.balanceRepo.Find(ctx, owner, code)
	if errors.Is(err, ledger.ErrNoBalance) {
		return ledger.ErrBalanceNotFound
	}
	if err != nil {
		return err
	}
	if !balance.IsZero() {
		return ledger.ErrNonZeroBalance
	}
	return s.balanceRepo.Delete(ctx, owner, code)
}

// Circulating 全残高の合計を返す
func (s *LedgerStore) Circulating(ctx context.Context, code string) (int64, error) {
	return s.balanceRepo.SumBySymbol(ctx, code)
}
