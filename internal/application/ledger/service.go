package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ubi-server/internal/domain/account"
	"ubi-server/internal/domain/asset"
	"ubi-server/internal/domain/authority"
	"ubi-server/internal/domain/claim"
	"ubi-server/internal/domain/event"
	domainledger "ubi-server/internal/domain/ledger"
	"ubi-server/internal/domain/service"
	"ubi-server/internal/domain/transaction"
	"ubi-server/internal/infrastructure/eventlog"
	"ubi-server/internal/infrastructure/lock"
	otelinfra "ubi-server/internal/infrastructure/observability/otel"
)

// LedgerApplicationService 台帳の公開操作を提供するアプリケーションサービス
type LedgerApplicationService struct {
	ledgerStore     *service.LedgerStore
	windowStore     *service.ClaimWindowStore
	engine          *service.AccrualEngine
	transactionRepo transaction.TransactionRepository
	accounts        account.Directory
	txManager       transaction.TransactionManager
	locker          lock.Locker
	contractAccount string
	logger          *otelinfra.Logger
	metrics         *otelinfra.Metrics
	tracer          trace.Tracer
}

// NewLedgerApplicationService 新しいLedgerApplicationServiceを作成
func NewLedgerApplicationService(
	ledgerStore *service.LedgerStore,
	windowStore *service.ClaimWindowStore,
	engine *service.AccrualEngine,
	transactionRepo transaction.TransactionRepository,
	accounts account.Directory,
	txManager transaction.TransactionManager,
	locker lock.Locker,
	contractAccount string,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *LedgerApplicationService {
	return &LedgerApplicationService{
		ledgerStore:     ledgerStore,
		windowStore:     windowStore,
		engine:          engine,
		transactionRepo: transactionRepo,
		accounts:        accounts,
		txManager:       txManager,
		locker:          locker,
		contractAccount: contractAccount,
		logger:          logger,
		metrics:         metrics,
		tracer:          otel.Tracer("ledger-service"),
	}
}

// operation 1回の公開操作の作業状態。受給資格は操作ごとに1回だけ評価する
type operation struct {
	s         *LedgerApplicationService
	stats     *domainledger.CurrencyStats
	claimants map[string]service.Claimant
	claims    []event.ClaimSettled
	txnID     string
}

func (s *LedgerApplicationService) newOperation(stats *domainledger.CurrencyStats) *operation {
	return &operation{s: s, stats: stats, claimants: make(map[string]service.Claimant)}
}

func (op *operation) claimant(accountName string) service.Claimant {
	c, ok := op.claimants[accountName]
	if !ok {
		c = op.s.engine.Resolve(accountName)
		op.claimants[accountName] = c
	}
	return c
}

// credit 残高を増やし、レコードを新規作成した場合は請求ウィンドウも作成する
func (op *operation) credit(ctx context.Context, owner string, quantity asset.Asset, payer string) error {
	created, err := op.s.ledgerStore.Credit(ctx, owner, quantity, payer)
	if err != nil {
		return err
	}
	if created {
		if _, err := op.s.engine.EnsureWindow(ctx, op.claimant(owner), quantity.Symbol().Code()); err != nil {
			return fmt.Errorf("failed to create claim window: %w", err)
		}
	}
	return nil
}

func (op *operation) claim(ctx context.Context, accountName, payer string) error {
	settled, err := op.s.engine.Claim(ctx, op.claimant(accountName), op.stats, payer)
	if err != nil {
		return err
	}
	if settled != nil {
		op.claims = append(op.claims, *settled)
	}
	return nil
}

func (op *operation) record(ctx context.Context, accountName, counterparty string, txnType transaction.TransactionType, quantity asset.Asset, memo string) error {
	txn, err := transaction.NewTransaction(eventlog.NewTransactionID(), accountName, counterparty, txnType, quantity, memo)
	if err != nil {
		return err
	}
	if err := op.s.transactionRepo.Save(ctx, txn); err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	if op.txnID == "" {
		op.txnID = txn.TransactionID()
	}
	return nil
}

func (op *operation) response() *OperationResponse {
	claims := make([]ClaimResponse, 0, len(op.claims))
	for _, c := range op.claims {
		claims = append(claims, ClaimResponse{
			Account:      c.Claimant,
			Quantity:     c.Quantity.String(),
			NextClaimDay: c.NextClaimDay.String(),
			LostDays:     c.LostDays,
			Memo:         c.Memo(),
		})
	}
	return &OperationResponse{TransactionID: op.txnID, Claims: claims, Status: "completed"}
}

// mutate 通貨単位のロックとトランザクションの中でfnを実行する
func (s *LedgerApplicationService) mutate(ctx context.Context, code string, fn func(ctx context.Context) error) error {
	release, err := s.locker.Acquire(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to acquire lock for %s: %w", code, err)
	}
	defer release()

	return s.txManager.WithTransaction(ctx, fn)
}

// loadStats 通貨を取得し、数量のシンボルと一致するか検証する
func (s *LedgerApplicationService) loadStats(ctx context.Context, symbol asset.Symbol) (*domainledger.CurrencyStats, error) {
	stats, err := s.ledgerStore.Stats(ctx, symbol.Code())
	if err != nil {
		return nil, err
	}
	if stats.Symbol() != symbol {
		return nil, domainledger.ErrSymbolMismatch
	}
	return stats, nil
}

// fail エラーをスパン・ログ・メトリクスに記録して返す
func (s *LedgerApplicationService) fail(ctx context.Context, span trace.Span, op string, err error, fields map[string]interface{}) error {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())
	s.metrics.RecordError(ctx, op)

	if isRejection(err) {
		s.logger.Warn(ctx, "Operation rejected", withError(fields, op, err))
	} else {
		s.logger.Error(ctx, "Operation failed", err, withError(fields, op, nil))
	}
	return err
}

// committed コミット済みの操作と、その中で確定した請求を記録する
func (s *LedgerApplicationService) committed(ctx context.Context, txnType transaction.TransactionType, stats *domainledger.CurrencyStats, claims []event.ClaimSettled, fields map[string]interface{}) {
	code := stats.Symbol().Code()
	for _, c := range claims {
		s.metrics.RecordClaim(ctx, code, c.Quantity.Amount(), c.LostDays)
		s.logger.Info(ctx, "Income claimed", map[string]interface{}{
			"operation":      fields["operation"],
			"account":        c.Claimant,
			"quantity":       c.Quantity.String(),
			"next_claim_day": c.NextClaimDay.String(),
			"lost_days":      c.LostDays,
			"memo":           c.Memo(),
		})
	}
	s.metrics.RecordTransaction(ctx, txnType.String(), code)
	s.metrics.RecordSupply(ctx, code, stats.Supply().Amount())
	s.logger.Info(ctx, "Operation committed", fields)
}

// CreateCurrency 通貨を作成
func (s *LedgerApplicationService) CreateCurrency(ctx context.Context, req *CreateCurrencyRequest) (*CurrencyResponse, error) {
	ctx, span := s.tracer.Start(ctx, "LedgerApplicationService.CreateCurrency")
	defer span.End()

	span.SetAttributes(
		attribute.String("issuer", req.Issuer),
		attribute.String("max_supply", req.MaxSupply),
	)
	fields := map[string]interface{}{
		"operation":  "create",
		"issuer":     req.Issuer,
		"max_supply": req.MaxSupply,
	}

	if !authority.HasAuth(ctx, req.Issuer) {
		return nil, s.fail(ctx, span, "create", domainledger.ErrUnauthorized, fields)
	}
	maxSupply, err := asset.Parse(req.MaxSupply)
	if err != nil {
		return nil, s.fail(ctx, span, "create", err, fields)
	}

	var stats *domainledger.CurrencyStats
	err = s.mutate(ctx, maxSupply.Symbol().Code(), func(ctx context.Context) error {
		created, err := s.ledgerStore.CreateCurrency(ctx, req.Issuer, maxSupply, req.Issuer == s.contractAccount)
		if err != nil {
			return err
		}
		stats = created
		return s.newOperation(created).record(ctx, req.Issuer, "", transaction.TransactionTypeCreate, maxSupply, "")
	})
	if err != nil {
		return nil, s.fail(ctx, span, "create", err, fields)
	}

	s.committed(ctx, transaction.TransactionTypeCreate, stats, nil, fields)
	return currencyResponse(stats), nil
}

// Issue 発行者の残高に発行し、宛先が発行者以外であれば送金する
func (s *LedgerApplicationService) Issue(ctx context.Context, req *IssueRequest) (*OperationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "LedgerApplicationService.Issue")
	defer span.End()

	span.SetAttributes(
		attribute.String("to", req.To),
		attribute.String("quantity", req.Quantity),
	)
	fields := map[string]interface{}{
		"operation": "issue",
		"to":        req.To,
		"quantity":  req.Quantity,
	}

	quantity, err := parseQuantity(req.Quantity, req.Symbol)
	if err != nil {
		return nil, s.fail(ctx, span, "issue", err, fields)
	}
	if err := validateMemo(req.Memo); err != nil {
		return nil, s.fail(ctx, span, "issue", err, fields)
	}

	var op *operation
	err = s.mutate(ctx, quantity.Symbol().Code(), func(ctx context.Context) error {
		stats, err := s.ledgerStore.Stats(ctx, quantity.Symbol().Code())
		if err != nil {
			return err
		}
		if !authority.HasAuth(ctx, stats.Issuer()) {
			return domainledger.ErrUnauthorized
		}
		if stats.Symbol() != quantity.Symbol() {
			return domainledger.ErrSymbolMismatch
		}
		op = s.newOperation(stats)

		if err := s.ledgerStore.MintIntoSupply(ctx, stats, quantity); err != nil {
			return err
		}
		if err := op.credit(ctx, stats.Issuer(), quantity, stats.Issuer()); err != nil {
			return err
		}
		if err := op.record(ctx, stats.Issuer(), req.To, transaction.TransactionTypeIssue, quantity, req.Memo); err != nil {
			return err
		}

		if req.To != stats.Issuer() {
			return s.transfer(ctx, op, stats.Issuer(), req.To, quantity, req.Memo)
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, span, "issue", err, fields)
	}

	s.committed(ctx, transaction.TransactionTypeIssue, op.stats, op.claims, fields)
	return op.response(), nil
}

// Retire 発行者の残高から償却する
func (s *LedgerApplicationService) Retire(ctx context.Context, req *RetireRequest) (*OperationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "LedgerApplicationService.Retire")
	defer span.End()

	span.SetAttributes(attribute.String("quantity", req.Quantity))
	fields := map[string]interface{}{
		"operation": "retire",
		"quantity":  req.Quantity,
	}

	quantity, err := parseQuantity(req.Quantity, req.Symbol)
	if err != nil {
		return nil, s.fail(ctx, span, "retire", err, fields)
	}
	if err := validateMemo(req.Memo); err != nil {
		return nil, s.fail(ctx, span, "retire", err, fields)
	}

	var op *operation
	err = s.mutate(ctx, quantity.Symbol().Code(), func(ctx context.Context) error {
		stats, err := s.ledgerStore.Stats(ctx, quantity.Symbol().Code())
		if err != nil {
			return err
		}
		if !stats.RetireIsPublic() && !authority.HasAuth(ctx, stats.Issuer()) {
			return domainledger.ErrUnauthorized
		}
		if stats.Symbol() != quantity.Symbol() {
			return domainledger.ErrSymbolMismatch
		}
		op = s.newOperation(stats)

		if err := s.ledgerStore.Debit(ctx, stats.Issuer(), quantity); err != nil {
			return err
		}
		if err := s.ledgerStore.BurnFromSupply(ctx, stats, quantity); err != nil {
			return err
		}
		return op.record(ctx, stats.Issuer(), "", transaction.TransactionTypeRetire, quantity, req.Memo)
	})
	if err != nil {
		return nil, s.fail(ctx, span, "retire", err, fields)
	}

	s.committed(ctx, transaction.TransactionTypeRetire, op.stats, op.claims, fields)
	return op.response(), nil
}

// Transfer 送金する。送金元に未請求のインカムがあれば残高確認の前に付与する
func (s *LedgerApplicationService) Transfer(ctx context.Context, req *TransferRequest) (*OperationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "LedgerApplicationService.Transfer")
	defer span.End()

	span.SetAttributes(
		attribute.String("from", req.From),
		attribute.String("to", req.To),
		attribute.String("quantity", req.Quantity),
	)
	fields := map[string]interface{}{
		"operation": "transfer",
		"from":      req.From,
		"to":        req.To,
		"quantity":  req.Quantity,
	}

	if !authority.HasAuth(ctx, req.From) {
		return nil, s.fail(ctx, span, "transfer", domainledger.ErrUnauthorized, fields)
	}
	quantity, err := parseQuantity(req.Quantity, "")
	if err != nil {
		return nil, s.fail(ctx, span, "transfer", err, fields)
	}
	if err := validateMemo(req.Memo); err != nil {
		return nil, s.fail(ctx, span, "transfer", err, fields)
	}

	var op *operation
	err = s.mutate(ctx, quantity.Symbol().Code(), func(ctx context.Context) error {
		stats, err := s.loadStats(ctx, quantity.Symbol())
		if err != nil {
			return err
		}
		op = s.newOperation(stats)
		return s.transfer(ctx, op, req.From, req.To, quantity, req.Memo)
	})
	if err != nil {
		return nil, s.fail(ctx, span, "transfer", err, fields)
	}

	s.committed(ctx, transaction.TransactionTypeTransfer, op.stats, op.claims, fields)
	return op.response(), nil
}

// transfer 送金の共通処理。Issueからも呼ばれる
func (s *LedgerApplicationService) transfer(ctx context.Context, op *operation, from, to string, quantity asset.Asset, memo string) error {
	exists, err := s.accounts.Exists(ctx, to)
	if err != nil {
		return fmt.Errorf("failed to check account: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", domainledger.ErrAccountNotFound, to)
	}

	if from == to {
		// 残高は変化しないが、インカムの請求と履歴は残す
		if err := op.claim(ctx, from, from); err != nil {
			return err
		}
		return op.record(ctx, from, to, transaction.TransactionTypeTransfer, quantity, memo)
	}

	payer := from
	if authority.HasAuth(ctx, to) {
		payer = to
	}

	if err := op.claim(ctx, from, payer); err != nil {
		return err
	}
	if err := s.ledgerStore.Debit(ctx, from, quantity); err != nil {
		return err
	}
	if err := op.credit(ctx, to, quantity, payer); err != nil {
		return err
	}
	return op.record(ctx, from, to, transaction.TransactionTypeTransfer, quantity, memo)
}

// Open 残高ゼロのレコードを作成し、インカムを請求する。請求ウィンドウは新規作成時のみ作る
func (s *LedgerApplicationService) Open(ctx context.Context, req *OpenRequest) (*OperationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "LedgerApplicationService.Open")
	defer span.End()

	span.SetAttributes(
		attribute.String("owner", req.Owner),
		attribute.String("symbol", req.Symbol),
		attribute.String("payer", req.Payer),
	)
	fields := map[string]interface{}{
		"operation": "open",
		"owner":     req.Owner,
		"symbol":    req.Symbol,
		"payer":     req.Payer,
	}

	if !authority.HasAuth(ctx, req.Payer) {
		return nil, s.fail(ctx, span, "open", domainledger.ErrUnauthorized, fields)
	}
	symbol, err := asset.ParseSymbol(req.Symbol)
	if err != nil {
		return nil, s.fail(ctx, span, "open", err, fields)
	}

	var op *operation
	err = s.mutate(ctx, symbol.Code(), func(ctx context.Context) error {
		stats, err := s.loadStats(ctx, symbol)
		if err != nil {
			return err
		}
		op = s.newOperation(stats)

		created, err := s.ledgerStore.OpenBalance(ctx, req.Owner, symbol, req.Payer)
		if err != nil {
			return err
		}
		if created {
			if _, err := s.engine.EnsureWindow(ctx, op.claimant(req.Owner), symbol.Code()); err != nil {
				return fmt.Errorf("failed to create claim window: %w", err)
			}
		}
		if err := op.record(ctx, req.Owner, req.Payer, transaction.TransactionTypeOpen, asset.Zero(symbol), ""); err != nil {
			return err
		}
		return op.claim(ctx, req.Owner, req.Payer)
	})
	if err != nil {
		return nil, s.fail(ctx, span, "open", err, fields)
	}

	s.committed(ctx, transaction.TransactionTypeOpen, op.stats, op.claims, fields)
	return op.response(), nil
}

// Close 残高ゼロのレコードと請求ウィンドウを削除する
func (s *LedgerApplicationService) Close(ctx context.Context, req *CloseRequest) (*OperationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "LedgerApplicationService.Close")
	defer span.End()

	span.SetAttributes(
		attribute.String("owner", req.Owner),
		attribute.String("symbol", req.Symbol),
	)
	fields := map[string]interface{}{
		"operation": "close",
		"owner":     req.Owner,
		"symbol":    req.Symbol,
	}

	if !authority.HasAuth(ctx, req.Owner) {
		return nil, s.fail(ctx, span, "close", domainledger.ErrUnauthorized, fields)
	}
	if err := asset.ValidateCode(req.Symbol); err != nil {
		return nil, s.fail(ctx, span, "close", err, fields)
	}

	var op *operation
	err := s.mutate(ctx, req.Symbol, func(ctx context.Context) error {
		stats, err := s.ledgerStore.Stats(ctx, req.Symbol)
		if err != nil {
			return err
		}
		op = s.newOperation(stats)

		balance, err := s.ledgerStore.Balance(ctx, req.Owner, req.Symbol)
		if errors.Is(err, domainledger.ErrNoBalance) {
			return domainledger.ErrBalanceNotFound
		}
		if err != nil {
			return err
		}
		if !balance.IsZero() {
			return domainledger.ErrNonZeroBalance
		}

		// 現在の受給資格に関わらず、ウィンドウが残っていれば当日分の請求済みを確認する
		window, err := s.windowStore.Get(ctx, req.Owner, req.Symbol)
		switch {
		case err == nil:
			if window.SettledThrough(s.engine.Today()) {
				return domainledger.ErrClaimPending
			}
			if err := s.windowStore.Erase(ctx, req.Owner, req.Symbol); err != nil {
				return err
			}
		case !errors.Is(err, claim.ErrWindowNotFound):
			return err
		}

		if err := s.ledgerStore.CloseBalance(ctx, req.Owner, req.Symbol); err != nil {
			return err
		}
		return op.record(ctx, req.Owner, "", transaction.TransactionTypeClose, asset.Zero(stats.Symbol()), "")
	})
	if err != nil {
		return nil, s.fail(ctx, span, "close", err, fields)
	}

	s.committed(ctx, transaction.TransactionTypeClose, op.stats, op.claims, fields)
	return op.response(), nil
}

// GetSupply 供給量を取得
func (s *LedgerApplicationService) GetSupply(ctx context.Context, code string) (*SupplyResponse, error) {
	ctx, span := s.tracer.Start(ctx, "LedgerApplicationService.GetSupply")
	defer span.End()

	span.SetAttributes(attribute.String("symbol", code))

	stats, err := s.ledgerStore.Stats(ctx, code)
	if err != nil {
		return nil, s.fail(ctx, span, "get_supply", err, map[string]interface{}{"symbol": code})
	}

	return &SupplyResponse{
		Symbol:    code,
		Supply:    stats.Supply().String(),
		MaxSupply: stats.MaxSupply().String(),
	}, nil
}

// GetStats 通貨統計を取得
func (s *LedgerApplicationService) GetStats(ctx context.Context, code string) (*CurrencyResponse, error) {
	ctx, span := s.tracer.Start(ctx, "LedgerApplicationService.GetStats")
	defer span.End()

	span.SetAttributes(attribute.String("symbol", code))

	stats, err := s.ledgerStore.Stats(ctx, code)
	if err != nil {
		return nil, s.fail(ctx, span, "get_stats", err, map[string]interface{}{"symbol": code})
	}
	return currencyResponse(stats), nil
}

// GetBalance 残高を取得
func (s *LedgerApplicationService) GetBalance(ctx context.Context, owner, code string) (*BalanceResponse, error) {
	ctx, span := s.tracer.Start(ctx, "LedgerApplicationService.GetBalance")
	defer span.End()

	span.SetAttributes(
		attribute.String("owner", owner),
		attribute.String("symbol", code),
	)

	balance, err := s.ledgerStore.Balance(ctx, owner, code)
	if err != nil {
		return nil, s.fail(ctx, span, "get_balance", err, map[string]interface{}{"owner": owner, "symbol": code})
	}

	return &BalanceResponse{
		Owner:   owner,
		Symbol:  code,
		Balance: balance.Amount().String(),
		Payer:   balance.Payer(),
	}, nil
}

// GetClaimWindow 請求ウィンドウと現時点での請求可能量を取得
func (s *LedgerApplicationService) GetClaimWindow(ctx context.Context, owner, code string) (*ClaimWindowResponse, error) {
	ctx, span := s.tracer.Start(ctx, "LedgerApplicationService.GetClaimWindow")
	defer span.End()

	span.SetAttributes(
		attribute.String("owner", owner),
		attribute.String("symbol", code),
	)
	fields := map[string]interface{}{"owner": owner, "symbol": code}

	stats, err := s.ledgerStore.Stats(ctx, code)
	if err != nil {
		return nil, s.fail(ctx, span, "get_claim_window", err, fields)
	}
	window, err := s.windowStore.Get(ctx, owner, code)
	if err != nil {
		return nil, s.fail(ctx, span, "get_claim_window", err, fields)
	}

	today := s.engine.Today()
	symbol := stats.Symbol()
	c := s.engine.Resolve(owner)

	pending := asset.Zero(symbol)
	var lostDays uint32
	if c.Eligible {
		result := s.engine.Policy().Compute(window.LastClaimDay(), today, symbol.Multiplier(), stats.Headroom())
		pending = asset.MustNew(result.Quantity, symbol)
		lostDays = result.LostDays
	}

	return &ClaimWindowResponse{
		Owner:           owner,
		Symbol:          code,
		Eligible:        c.Eligible,
		LastClaimDay:    uint32(window.LastClaimDay()),
		NextClaimDay:    window.NextClaimDay().String(),
		Today:           today.String(),
		PendingQuantity: pending.String(),
		PendingLostDays: lostDays,
	}, nil
}

// Audit 残高合計と供給量の一致、供給量の上限を検査する
func (s *LedgerApplicationService) Audit(ctx context.Context, code string) (*AuditResponse, error) {
	ctx, span := s.tracer.Start(ctx, "LedgerApplicationService.Audit")
	defer span.End()

	span.SetAttributes(attribute.String("symbol", code))
	fields := map[string]interface{}{"symbol": code}

	var (
		stats       *domainledger.CurrencyStats
		circulating int64
	)
	err := s.mutate(ctx, code, func(ctx context.Context) error {
		var err error
		stats, err = s.ledgerStore.Stats(ctx, code)
		if err != nil {
			return err
		}
		circulating, err = s.ledgerStore.Circulating(ctx, code)
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, span, "audit", err, fields)
	}

	consistent := circulating == stats.Supply().Amount() && stats.Supply().Amount() <= stats.MaxSupply().Amount()
	if !consistent {
		s.logger.Error(ctx, "Ledger invariant violated", nil, map[string]interface{}{
			"symbol":      code,
			"supply":      stats.Supply().Amount(),
			"max_supply":  stats.MaxSupply().Amount(),
			"circulating": circulating,
		})
	}

	circ, err := asset.New(circulating, stats.Symbol())
	if err != nil {
		return nil, s.fail(ctx, span, "audit", err, fields)
	}
	return &AuditResponse{
		Symbol:      code,
		Supply:      stats.Supply().String(),
		MaxSupply:   stats.MaxSupply().String(),
		Circulating: circ.String(),
		Consistent:  consistent,
	}, nil
}

// RegisterAccount アカウントを登録
func (s *LedgerApplicationService) RegisterAccount(ctx context.Context, name string) (*RegisterAccountResponse, error) {
	ctx, span := s.tracer.Start(ctx, "LedgerApplicationService.RegisterAccount")
	defer span.End()

	span.SetAttributes(attribute.String("account", name))
	fields := map[string]interface{}{"account": name}

	a, err := account.NewAccount(name)
	if err != nil {
		return nil, s.fail(ctx, span, "register_account", err, fields)
	}
	if err := s.accounts.Register(ctx, a); err != nil {
		return nil, s.fail(ctx, span, "register_account", err, fields)
	}

	s.logger.Info(ctx, "Account registered", fields)
	return &RegisterAccountResponse{
		Name:      a.Name(),
		CreatedAt: a.CreatedAt().UTC().Format(time.RFC3339),
	}, nil
}

func currencyResponse(stats *domainledger.CurrencyStats) *CurrencyResponse {
	return &CurrencyResponse{
		Symbol:         stats.Symbol().Code(),
		Precision:      stats.Symbol().Precision(),
		Supply:         stats.Supply().String(),
		MaxSupply:      stats.MaxSupply().String(),
		Issuer:         stats.Issuer(),
		RetireIsPublic: stats.RetireIsPublic(),
	}
}

// parseQuantity 数量を解析し、正の値であることとパスのシンボルとの一致を検証する
func parseQuantity(s, code string) (asset.Asset, error) {
	quantity, err := asset.Parse(s)
	if err != nil {
		return asset.Asset{}, err
	}
	if !quantity.IsPositive() {
		return asset.Asset{}, fmt.Errorf("%w: must be positive", domainledger.ErrInvalidAmount)
	}
	if code != "" && quantity.Symbol().Code() != code {
		return asset.Asset{}, domainledger.ErrSymbolMismatch
	}
	return quantity, nil
}

func validateMemo(memo string) error {
	if len(memo) > transaction.MaxMemoBytes {
		return domainledger.ErrMemoTooLong
	}
	return nil
}

var rejections = []error{
	domainledger.ErrInvalidSymbol,
	domainledger.ErrInvalidAmount,
	domainledger.ErrSymbolMismatch,
	domainledger.ErrOverflow,
	domainledger.ErrDuplicateCurrency,
	domainledger.ErrCurrencyNotFound,
	domainledger.ErrUnauthorized,
	domainledger.ErrSupplyExceeded,
	domainledger.ErrInsufficientSupply,
	domainledger.ErrInsufficientBalance,
	domainledger.ErrNoBalance,
	domainledger.ErrBalanceNotFound,
	domainledger.ErrNonZeroBalance,
	domainledger.ErrMemoTooLong,
	domainledger.ErrAccountNotFound,
	domainledger.ErrClaimPending,
	claim.ErrWindowNotFound,
	account.ErrInvalidAccountName,
	account.ErrAccountAlreadyExists,
}

// isRejection 呼び出し側の入力による失敗か。ErrNonMonotonicなどの不変条件違反はfalse
func isRejection(err error) bool {
	for _, target := range rejections {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func withError(fields map[string]interface{}, op string, err error) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+2)
	for k, v := range fields {
		out[k] = v
	}
	out["operation"] = op
	if err != nil {
		out["error"] = err.Error()
	}
	return out
}
