package history

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ubi-server/internal/domain/transaction"
	otelinfra "ubi-server/internal/infrastructure/observability/otel"
)

const (
	defaultLimit = 50
	maxLimit     = 100
)

// HistoryApplicationService 履歴アプリケーションサービス
type HistoryApplicationService struct {
	transactionRepo transaction.TransactionRepository
	logger          *otelinfra.Logger
	metrics         *otelinfra.Metrics
	tracer          trace.Tracer
}

// NewHistoryApplicationService 新しいHistoryApplicationServiceを作成
func NewHistoryApplicationService(
	transactionRepo transaction.TransactionRepository,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *HistoryApplicationService {
	return &HistoryApplicationService{
		transactionRepo: transactionRepo,
		logger:          logger,
		metrics:         metrics,
		tracer:          otel.Tracer("history-service"),
	}
}

// GetTransactionHistory アカウントが当事者となった操作履歴を新しい順に取得
func (s *HistoryApplicationService) GetTransactionHistory(ctx context.Context, req *GetTransactionHistoryRequest) (*GetTransactionHistoryResponse, error) {
	ctx, span := s.tracer.Start(ctx, "HistoryApplicationService.GetTransactionHistory")
	defer span.End()

	span.SetAttributes(
		attribute.String("account", req.Account),
		attribute.Int("limit", req.Limit),
		attribute.Int("offset", req.Offset),
	)

	s.logger.Info(ctx, "Getting transaction history", map[string]interface{}{
		"account":          req.Account,
		"limit":            req.Limit,
		"offset":           req.Offset,
		"symbol":           req.Symbol,
		"transaction_type": req.TransactionType,
	})

	if req.Limit <= 0 {
		req.Limit = defaultLimit
	}
	if req.Limit > maxLimit {
		req.Limit = maxLimit
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	transactions, err := s.transactionRepo.FindByAccount(ctx, req.Account, req.Limit, req.Offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to get transaction history", err, map[string]interface{}{
			"account": req.Account,
		})
		return nil, fmt.Errorf("failed to get transaction history: %w", err)
	}

	// 不正なフィルタ値は無視する
	var typeFilter transaction.TransactionType
	if req.TransactionType != "" {
		if tt, err := transaction.NewTransactionType(req.TransactionType); err == nil {
			typeFilter = tt
		}
	}

	filtered := make([]*transaction.Transaction, 0, len(transactions))
	for _, txn := range transactions {
		if req.Symbol != "" && txn.Quantity().Symbol().Code() != req.Symbol {
			continue
		}
		if typeFilter != "" && txn.TransactionType() != typeFilter {
			continue
		}
		filtered = append(filtered, txn)
	}

	s.metrics.RecordRequest(ctx, "GET", "/api/v1/accounts/{owner}/transactions")

	return &GetTransactionHistoryResponse{
		Transactions: filtered,
		Total:        len(filtered),
		Limit:        req.Limit,
		Offset:       req.Offset,
	}, nil
}
