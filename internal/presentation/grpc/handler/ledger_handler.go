package handler

import (
	"context"
	"fmt"
	"math"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	authapp "ubi-server/internal/application/auth"
	historyapp "ubi-server/internal/application/history"
	ledgerapp "ubi-server/internal/application/ledger"
)

// LedgerHandler gRPC台帳サービスハンドラー
type LedgerHandler struct {
	ledgerService  *ledgerapp.LedgerApplicationService
	historyService *historyapp.HistoryApplicationService
	authService    *authapp.AuthApplicationService
}

var _ LedgerServiceServer = (*LedgerHandler)(nil)

// NewLedgerHandler 新しいLedgerHandlerを作成
func NewLedgerHandler(
	ledgerService *ledgerapp.LedgerApplicationService,
	historyService *historyapp.HistoryApplicationService,
	authService *authapp.AuthApplicationService,
) *LedgerHandler {
	return &LedgerHandler{
		ledgerService:  ledgerService,
		historyService: historyService,
		authService:    authService,
	}
}

// CreateCurrency 通貨作成
func (h *LedgerHandler) CreateCurrency(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	issuer, err := requireString(req, "issuer")
	if err != nil {
		return nil, err
	}
	maxSupply, err := requireString(req, "max_supply")
	if err != nil {
		return nil, err
	}

	resp, err := h.ledgerService.CreateCurrency(ctx, &ledgerapp.CreateCurrencyRequest{
		Issuer:    issuer,
		MaxSupply: maxSupply,
	})
	if err != nil {
		return nil, handleError(err)
	}
	return currencyStruct(resp)
}

// Issue 発行
func (h *LedgerHandler) Issue(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	to, err := requireString(req, "to")
	if err != nil {
		return nil, err
	}
	quantity, err := requireString(req, "quantity")
	if err != nil {
		return nil, err
	}

	resp, err := h.ledgerService.Issue(ctx, &ledgerapp.IssueRequest{
		Symbol:   stringField(req, "symbol"),
		To:       to,
		Quantity: quantity,
		Memo:     stringField(req, "memo"),
	})
	if err != nil {
		return nil, handleError(err)
	}
	return operationStruct(resp)
}

// Retire 償却
func (h *LedgerHandler) Retire(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	quantity, err := requireString(req, "quantity")
	if err != nil {
		return nil, err
	}

	resp, err := h.ledgerService.Retire(ctx, &ledgerapp.RetireRequest{
		Symbol:   stringField(req, "symbol"),
		Quantity: quantity,
		Memo:     stringField(req, "memo"),
	})
	if err != nil {
		return nil, handleError(err)
	}
	return operationStruct(resp)
}

// Transfer 送金
func (h *LedgerHandler) Transfer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	from, err := requireString(req, "from")
	if err != nil {
		return nil, err
	}
	to, err := requireString(req, "to")
	if err != nil {
		return nil, err
	}
	quantity, err := requireString(req, "quantity")
	if err != nil {
		return nil, err
	}

	resp, err := h.ledgerService.Transfer(ctx, &ledgerapp.TransferRequest{
		From:     from,
		To:       to,
		Quantity: quantity,
		Memo:     stringField(req, "memo"),
	})
	if err != nil {
		return nil, handleError(err)
	}
	return operationStruct(resp)
}

// Open 残高レコード作成
func (h *LedgerHandler) Open(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	owner, err := requireString(req, "owner")
	if err != nil {
		return nil, err
	}
	symbol, err := requireString(req, "symbol")
	if err != nil {
		return nil, err
	}
	payer, err := requireString(req, "payer")
	if err != nil {
		return nil, err
	}

	resp, err := h.ledgerService.Open(ctx, &ledgerapp.OpenRequest{
		Owner:  owner,
		Symbol: symbol,
		Payer:  payer,
	})
	if err != nil {
		return nil, handleError(err)
	}
	return operationStruct(resp)
}

// Close 残高レコード削除
func (h *LedgerHandler) Close(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	owner, err := requireString(req, "owner")
	if err != nil {
		return nil, err
	}
	symbol, err := requireString(req, "symbol")
	if err != nil {
		return nil, err
	}

	resp, err := h.ledgerService.Close(ctx, &ledgerapp.CloseRequest{
		Owner:  owner,
		Symbol: symbol,
	})
	if err != nil {
		return nil, handleError(err)
	}
	return operationStruct(resp)
}

// GetSupply 供給量取得
func (h *LedgerHandler) GetSupply(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	symbol, err := requireString(req, "symbol")
	if err != nil {
		return nil, err
	}

	resp, err := h.ledgerService.GetSupply(ctx, symbol)
	if err != nil {
		return nil, handleError(err)
	}
	return structpb.NewStruct(map[string]interface{}{
		"symbol":     resp.Symbol,
		"supply":     resp.Supply,
		"max_supply": resp.MaxSupply,
	})
}

// GetStats 通貨統計取得
func (h *LedgerHandler) GetStats(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	symbol, err := requireString(req, "symbol")
	if err != nil {
		return nil, err
	}

	resp, err := h.ledgerService.GetStats(ctx, symbol)
	if err != nil {
		return nil, handleError(err)
	}
	return currencyStruct(resp)
}

// GetBalance 残高取得
func (h *LedgerHandler) GetBalance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	owner, err := requireString(req, "owner")
	if err != nil {
		return nil, err
	}
	symbol, err := requireString(req, "symbol")
	if err != nil {
		return nil, err
	}

	resp, err := h.ledgerService.GetBalance(ctx, owner, symbol)
	if err != nil {
		return nil, handleError(err)
	}
	return structpb.NewStruct(map[string]interface{}{
		"owner":   resp.Owner,
		"symbol":  resp.Symbol,
		"balance": resp.Balance,
		"payer":   resp.Payer,
	})
}

// GetClaimWindow 請求ウィンドウ取得
func (h *LedgerHandler) GetClaimWindow(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	owner, err := requireString(req, "owner")
	if err != nil {
		return nil, err
	}
	symbol, err := requireString(req, "symbol")
	if err != nil {
		return nil, err
	}

	resp, err := h.ledgerService.GetClaimWindow(ctx, owner, symbol)
	if err != nil {
		return nil, handleError(err)
	}
	return structpb.NewStruct(map[string]interface{}{
		"owner":             resp.Owner,
		"symbol":            resp.Symbol,
		"eligible":          resp.Eligible,
		"last_claim_day":    resp.LastClaimDay,
		"next_claim_day":    resp.NextClaimDay,
		"today":             resp.Today,
		"pending_quantity":  resp.PendingQuantity,
		"pending_lost_days": resp.PendingLostDays,
	})
}

// GetTransactionHistory トランザクション履歴取得
func (h *LedgerHandler) GetTransactionHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	owner, err := requireString(req, "owner")
	if err != nil {
		return nil, err
	}
	limit, err := intField(req, "limit", 50)
	if err != nil || limit < 1 || limit > 100 {
		return nil, status.Error(codes.InvalidArgument, "invalid limit parameter")
	}
	offset, err := intField(req, "offset", 0)
	if err != nil || offset < 0 {
		return nil, status.Error(codes.InvalidArgument, "invalid offset parameter")
	}

	resp, err := h.historyService.GetTransactionHistory(ctx, &historyapp.GetTransactionHistoryRequest{
		Account:         owner,
		Limit:           limit,
		Offset:          offset,
		Symbol:          stringField(req, "symbol"),
		TransactionType: stringField(req, "transaction_type"),
	})
	if err != nil {
		return nil, handleError(err)
	}

	transactions := make([]interface{}, len(resp.Transactions))
	for i, txn := range resp.Transactions {
		transactions[i] = map[string]interface{}{
			"transaction_id":   txn.TransactionID(),
			"transaction_type": txn.TransactionType().String(),
			"account":          txn.Account(),
			"counterparty":     txn.Counterparty(),
			"quantity":         txn.Quantity().String(),
			"memo":             txn.Memo(),
			"created_at":       txn.CreatedAt().UTC().Format(time.RFC3339),
		}
	}

	return structpb.NewStruct(map[string]interface{}{
		"transactions": transactions,
		"total":        resp.Total,
		"limit":        resp.Limit,
		"offset":       resp.Offset,
	})
}

// RegisterAccount アカウント登録
func (h *LedgerHandler) RegisterAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	name, err := requireString(req, "name")
	if err != nil {
		return nil, err
	}

	resp, err := h.ledgerService.RegisterAccount(ctx, name)
	if err != nil {
		return nil, handleError(err)
	}
	return structpb.NewStruct(map[string]interface{}{
		"name":       resp.Name,
		"created_at": resp.CreatedAt,
	})
}

// Audit 供給量と残高合計の整合性検査
func (h *LedgerHandler) Audit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	symbol, err := requireString(req, "symbol")
	if err != nil {
		return nil, err
	}

	resp, err := h.ledgerService.Audit(ctx, symbol)
	if err != nil {
		return nil, handleError(err)
	}
	return structpb.NewStruct(map[string]interface{}{
		"symbol":      resp.Symbol,
		"supply":      resp.Supply,
		"max_supply":  resp.MaxSupply,
		"circulating": resp.Circulating,
		"consistent":  resp.Consistent,
	})
}

// GenerateToken アカウント用トークン発行
func (h *LedgerHandler) GenerateToken(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	account, err := requireString(req, "account")
	if err != nil {
		return nil, err
	}

	var cosigners []string
	if v, ok := req.GetFields()["cosigners"]; ok {
		for _, item := range v.GetListValue().GetValues() {
			cosigners = append(cosigners, item.GetStringValue())
		}
	}

	resp, err := h.authService.GenerateToken(ctx, &authapp.GenerateTokenRequest{
		Account:   account,
		Cosigners: cosigners,
	})
	if err != nil {
		return nil, handleError(err)
	}
	return structpb.NewStruct(map[string]interface{}{
		"token":      resp.Token,
		"expires_in": resp.ExpiresIn,
		"token_type": resp.TokenType,
	})
}

func currencyStruct(resp *ledgerapp.CurrencyResponse) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"symbol":           resp.Symbol,
		"precision":        int(resp.Precision),
		"supply":           resp.Supply,
		"max_supply":       resp.MaxSupply,
		"issuer":           resp.Issuer,
		"retire_is_public": resp.RetireIsPublic,
	})
}

func operationStruct(resp *ledgerapp.OperationResponse) (*structpb.Struct, error) {
	claims := make([]interface{}, len(resp.Claims))
	for i, c := range resp.Claims {
		claims[i] = map[string]interface{}{
			"account":        c.Account,
			"quantity":       c.Quantity,
			"next_claim_day": c.NextClaimDay,
			"lost_days":      c.LostDays,
			"memo":           c.Memo,
		}
	}
	return structpb.NewStruct(map[string]interface{}{
		"transaction_id": resp.TransactionID,
		"status":         resp.Status,
		"claims":         claims,
	})
}

func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

func requireString(req *structpb.Struct, name string) (string, error) {
	v := stringField(req, name)
	if v == "" {
		return "", status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	return v, nil
}

// intField 数値フィールドを整数として取得する。未指定ならdefを返す
func intField(req *structpb.Struct, name string, def int) (int, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return def, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	if n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return int(n.NumberValue), nil
}
