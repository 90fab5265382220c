package service

import (
	"context"
	"errors"
	"fmt"

	"ubi-server/internal/domain/asset"
	"ubi-server/internal/domain/claim"
	"ubi-server/internal/domain/eligibility"
	"ubi-server/internal/domain/event"
	"ubi-server/internal/domain/ledger"
)

// Claimant 1回の操作中に評価済みの請求者
type Claimant struct {
	Account  string
	Eligible bool
}

// AccrualEngine 経過日数に応じてインカムを発行するドメインサービス
type AccrualEngine struct {
	policy          AccrualPolicy
	oracle          eligibility.Oracle
	clock           claim.Clock
	ledgerStore     *LedgerStore
	windowStore     *ClaimWindowStore
	emitter         event.Emitter
	contractAccount string
}

// NewAccrualEngine 新しいAccrualEngineを作成
func NewAccrualEngine(
	policy AccrualPolicy,
	oracle eligibility.Oracle,
	clock claim.Clock,
	ledgerStore *LedgerStore,
	windowStore *ClaimWindowStore,
	emitter event.Emitter,
	contractAccount string,
) (*AccrualEngine, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &AccrualEngine{
		policy:          policy,
		oracle:          oracle,
		clock:           clock,
		ledgerStore:     ledgerStore,
		windowStore:     windowStore,
		emitter:         emitter,
		contractAccount: contractAccount,
	}, nil
}

// Policy ポリシーを返す
func (e *AccrualEngine) Policy() AccrualPolicy {
	return e.policy
}

// Today 現在日を返す
func (e *AccrualEngine) Today() claim.Day {
	return e.clock.Today()
}

// Resolve アカウントの受給資格を評価する。コントラクトアカウントは常に対象外
func (e *AccrualEngine) Resolve(account string) Claimant {
	if account == e.contractAccount {
		return Claimant{Account: account}
	}
	return Claimant{Account: account, Eligible: e.oracle.IsEligible(account)}
}

// EnsureWindow 受給資格がありウィンドウが存在しない場合に作成する
func (e *AccrualEngine) EnsureWindow(ctx context.Context, c Claimant, code string) (bool, error) {
	if !c.Eligible {
		return false, nil
	}
	_, err := e.windowStore.Get(ctx, c.Account, code)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, claim.ErrWindowNotFound) {
		return false, err
	}
	if _, err := e.windowStore.CreateWindow(ctx, c.Account, code, e.policy.SeedDay()); err != nil {
		return false, err
	}
	return true, nil
}

// Claim 未請求のインカムを発行して請求者に付与する。
// 付与がない場合はnilを返す。statsは呼び出し元の操作と共有され、供給量が更新される。
func (e *AccrualEngine) Claim(ctx context.Context, c Claimant, stats *ledger.CurrencyStats, payer string) (*event.ClaimSettled, error) {
	if !c.Eligible {
		return nil, nil
	}
	symbol := stats.Symbol()

	window, err := e.windowStore.Get(ctx, c.Account, symbol.Code())
	if errors.Is(err, claim.ErrWindowNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	result := e.policy.Compute(window.LastClaimDay(), e.clock.Today(), symbol.Multiplier(), stats.Headroom())
	if result.Quantity == 0 {
		return nil, nil
	}

	quantity, err := asset.New(result.Quantity, symbol)
	if err != nil {
		return nil, err
	}
	if err := e.ledgerStore.MintIntoSupply(ctx, stats, quantity); err != nil {
		return nil, fmt.Errorf("failed to mint income: %w", err)
	}
	if _, err := e.ledgerStore.Credit(ctx, c.Account, quantity, payer); err != nil {
		return nil, fmt.Errorf("failed to credit income: %w", err)
	}
	if err := e.windowStore.Advance(ctx, window, result.NewLastClaimDay); err != nil {
		return nil, fmt.Errorf("failed to advance claim window of %s: %w", c.Account, err)
	}

	settled := event.ClaimSettled{
		Claimant:     c.Account,
		Quantity:     quantity,
		NextClaimDay: result.NewLastClaimDay + 1,
		LostDays:     result.LostDays,
	}
	if err := e.emitter.EmitClaimSettled(ctx, settled); err != nil {
		return nil, fmt.Errorf("failed to emit claim: %w", err)
	}
	return &settled, nil
}
