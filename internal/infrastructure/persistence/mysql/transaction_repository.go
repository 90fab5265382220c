package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ubi-server/internal/domain/asset"
	"ubi-server/internal/domain/transaction"
)

// TransactionRepository MySQL実装のTransactionRepository
type TransactionRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewTransactionRepository 新しいTransactionRepositoryを作成
func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		tracer: otel.Tracer("transaction-repository"),
	}
}

const transactionColumns = `
	transaction_id, account, counterparty, transaction_type,
	symbol_code, symbol_precision, amount, memo, created_at`

// Save トランザクションを保存
func (r *TransactionRepository) Save(ctx context.Context, t *transaction.Transaction) error {
	ctx, span := r.tracer.Start(ctx, "TransactionRepository.Save")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.transaction_id", t.TransactionID()),
		attribute.String("db.account", t.Account()),
		attribute.String("db.transaction_type", t.TransactionType().String()),
		attribute.String("db.symbol", t.Quantity().Symbol().Code()),
		attribute.Int64("db.amount", t.Quantity().Amount()),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "transactions"),
	)

	query := `INSERT INTO transactions (` + transactionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		t.TransactionID(),
		t.Account(),
		t.Counterparty(),
		t.TransactionType().String(),
		t.Quantity().Symbol().Code(),
		t.Quantity().Symbol().Precision(),
		t.Quantity().Amount(),
		t.Memo(),
		t.CreatedAt(),
	)

	if isDuplicateEntry(err) {
		span.SetStatus(otelcodes.Error, "duplicate transaction id")
		return transaction.ErrDuplicateTransactionID
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "transaction saved")
	return nil
}

// FindByTransactionID トランザクションIDでトランザクションを取得
func (r *TransactionRepository) FindByTransactionID(ctx context.Context, transactionID string) (*transaction.Transaction, error) {
	ctx, span := r.tracer.Start(ctx, "TransactionRepository.FindByTransactionID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.transaction_id", transactionID),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "transactions"),
	)

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = ?`

	t, err := scanTransaction(r.db.conn(ctx).QueryRowContext(ctx, query, transactionID))
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(otelcodes.Ok, "transaction not found")
		return nil, transaction.ErrTransactionNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "transaction found")
	return t, nil
}

// FindByAccount アカウントが主体または相手のトランザクション一覧を新しい順に取得
func (r *TransactionRepository) FindByAccount(ctx context.Context, account string, limit, offset int) ([]*transaction.Transaction, error) {
	ctx, span := r.tracer.Start(ctx, "TransactionRepository.FindByAccount")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.account", account),
		attribute.Int("db.limit", limit),
		attribute.Int("db.offset", offset),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "transactions"),
	)

	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account = ? OR counterparty = ?
		ORDER BY created_at DESC, transaction_id DESC
		LIMIT ? OFFSET ?`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, account, account, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*transaction.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	span.SetAttributes(attribute.Int("db.result_count", len(transactions)))
	span.SetStatus(otelcodes.Ok, "transactions found")
	return transactions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*transaction.Transaction, error) {
	var id, account, counterparty, dbType, code, memo string
	var precision uint8
	var amount int64
	var createdAt time.Time

	if err := row.Scan(&id, &account, &counterparty, &dbType, &code, &precision, &amount, &memo, &createdAt); err != nil {
		return nil, err
	}

	tt, err := transaction.NewTransactionType(dbType)
	if err != nil {
		return nil, err
	}
	symbol, err := asset.NewSymbol(code, precision)
	if err != nil {
		return nil, err
	}
	quantity, err := asset.New(amount, symbol)
	if err != nil {
		return nil, err
	}
	return transaction.RestoreTransaction(id, account, counterparty, tt, quantity, memo, createdAt)
}
