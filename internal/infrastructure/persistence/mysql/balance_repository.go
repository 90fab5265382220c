package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ubi-server/internal/domain/asset"
	"ubi-server/internal/domain/ledger"
)

// BalanceRepository MySQL実装のBalanceRepository
type BalanceRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewBalanceRepository 新しいBalanceRepositoryを作成
func NewBalanceRepository(db *DB) *BalanceRepository {
	return &BalanceRepository{
		db:     db,
		tracer: otel.Tracer("balance-repository"),
	}
}

// Find 所有者とシンボルコードで残高を取得
func (r *BalanceRepository) Find(ctx context.Context, owner, code string) (*ledger.Balance, error) {
	ctx, span := r.tracer.Start(ctx, "BalanceRepository.Find")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.owner", owner),
		attribute.String("db.symbol", code),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "balances"),
	)

	query := `
		SELECT owner, symbol_code, symbol_precision, amount, payer
		FROM balances
		WHERE owner = ? AND symbol_code = ?` + forUpdate(ctx)

	var dbOwner, dbCode, payer string
	var precision uint8
	var amount int64

	err := r.db.conn(ctx).QueryRowContext(ctx, query, owner, code).Scan(
		&dbOwner,
		&dbCode,
		&precision,
		&amount,
		&payer,
	)

	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(otelcodes.Ok, "balance not found")
		return nil, ledger.ErrNoBalance
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find balance: %w", err)
	}

	span.SetAttributes(attribute.Int64("db.amount", amount))
	span.SetStatus(otelcodes.Ok, "balance found")

	symbol, err := asset.NewSymbol(dbCode, precision)
	if err != nil {
		return nil, fmt.Errorf("invalid symbol: %w", err)
	}
	quantity, err := asset.New(amount, symbol)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	b, err := ledger.RestoreBalance(dbOwner, quantity, payer)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct balance entity: %w", err)
	}
	return b, nil
}

// Create 新しい残高レコードを作成
func (r *BalanceRepository) Create(ctx context.Context, b *ledger.Balance) error {
	ctx, span := r.tracer.Start(ctx, "BalanceRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.owner", b.Owner()),
		attribute.String("db.symbol", b.Symbol().Code()),
		attribute.Int64("db.amount", b.Amount().Amount()),
		attribute.String("db.payer", b.Payer()),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "balances"),
	)

	query := `
		INSERT INTO balances (owner, symbol_code, symbol_precision, amount, payer)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		b.Owner(),
		b.Symbol().Code(),
		b.Symbol().Precision(),
		b.Amount().Amount(),
		b.Payer(),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to create balance: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "balance created")
	return nil
}

// Save 残高を保存
func (r *BalanceRepository) Save(ctx context.Context, b *ledger.Balance) error {
	ctx, span := r.tracer.Start(ctx, "BalanceRepository.Save")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.owner", b.Owner()),
		attribute.String("db.symbol", b.Symbol().Code()),
		attribute.Int64("db.amount", b.Amount().Amount()),
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.table", "balances"),
	)

	query := `
		UPDATE balances
		SET amount = ?
		WHERE owner = ? AND symbol_code = ?
	`

	result, err := r.db.conn(ctx).ExecContext(ctx, query,
		b.Amount().Amount(),
		b.Owner(),
		b.Symbol().Code(),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to save balance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		span.SetStatus(otelcodes.Error, "balance not found")
		return ledger.ErrNoBalance
	}

	span.SetStatus(otelcodes.Ok, "balance saved")
	return nil
}

// Delete 残高レコードを削除
func (r *BalanceRepository) Delete(ctx context.Context, owner, code string) error {
	ctx, span := r.tracer.Start(ctx, "BalanceRepository.Delete")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.owner", owner),
		attribute.String("db.symbol", code),
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.table", "balances"),
	)

	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM balances WHERE owner = ? AND symbol_code = ?`, owner, code)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to delete balance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ledger.ErrBalanceNotFound
	}

	span.SetStatus(otelcodes.Ok, "balance deleted")
	return nil
}

// SumBySymbol シンボルコードごとの残高合計を返す
func (r *BalanceRepository) SumBySymbol(ctx context.Context, code string) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "BalanceRepository.SumBySymbol")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.symbol", code),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "balances"),
	)

	var sum int64
	err := r.db.conn(ctx).QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM balances WHERE symbol_code = ?`, code,
	).Scan(&sum)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return 0, fmt.Errorf("failed to sum balances: %w", err)
	}

	span.SetAttributes(attribute.Int64("db.sum", sum))
	span.SetStatus(otelcodes.Ok, "balances summed")
	return sum, nil
}
