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

// StatsRepository MySQL実装のStatsRepository
type StatsRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewStatsRepository 新しいStatsRepositoryを作成
func NewStatsRepository(db *DB) *StatsRepository {
	return &StatsRepository{
		db:     db,
		tracer: otel.Tracer("stats-repository"),
	}
}

// FindBySymbol シンボルコードで供給量を取得
func (r *StatsRepository) FindBySymbol(ctx context.Context, code string) (*ledger.CurrencyStats, error) {
	ctx, span := r.tracer.Start(ctx, "StatsRepository.FindBySymbol")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.symbol", code),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "currency_stats"),
	)

	query := `
		SELECT symbol_code, symbol_precision, supply, max_supply, issuer, retire_is_public
		FROM currency_stats
		WHERE symbol_code = ?` + forUpdate(ctx)

	var dbCode, issuer string
	var precision uint8
	var supply, maxSupply int64
	var retireIsPublic bool

	err := r.db.conn(ctx).QueryRowContext(ctx, query, code).Scan(
		&dbCode,
		&precision,
		&supply,
		&maxSupply,
		&issuer,
		&retireIsPublic,
	)

	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(otelcodes.Ok, "currency not found")
		return nil, ledger.ErrCurrencyNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find currency stats: %w", err)
	}

	span.SetAttributes(
		attribute.Int64("db.supply", supply),
		attribute.Int64("db.max_supply", maxSupply),
	)
	span.SetStatus(otelcodes.Ok, "currency found")

	symbol, err := asset.NewSymbol(dbCode, precision)
	if err != nil {
		return nil, fmt.Errorf("invalid symbol: %w", err)
	}
	supplyAsset, err := asset.New(supply, symbol)
	if err != nil {
		return nil, fmt.Errorf("invalid supply: %w", err)
	}
	maxSupplyAsset, err := asset.New(maxSupply, symbol)
	if err != nil {
		return nil, fmt.Errorf("invalid max supply: %w", err)
	}

	stats, err := ledger.RestoreCurrencyStats(supplyAsset, maxSupplyAsset, issuer, retireIsPublic)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct currency stats: %w", err)
	}
	return stats, nil
}

// Create 新しい通貨を作成
func (r *StatsRepository) Create(ctx context.Context, stats *ledger.CurrencyStats) error {
	ctx, span := r.tracer.Start(ctx, "StatsRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.symbol", stats.Symbol().Code()),
		attribute.Int64("db.max_supply", stats.MaxSupply().Amount()),
		attribute.String("db.issuer", stats.Issuer()),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "currency_stats"),
	)

	query := `
		INSERT INTO currency_stats (symbol_code, symbol_precision, supply, max_supply, issuer, retire_is_public)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		stats.Symbol().Code(),
		stats.Symbol().Precision(),
		stats.Supply().Amount(),
		stats.MaxSupply().Amount(),
		stats.Issuer(),
		stats.RetireIsPublic(),
	)

	if isDuplicateEntry(err) {
		span.SetStatus(otelcodes.Error, "duplicate currency")
		return ledger.ErrDuplicateCurrency
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to create currency stats: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "currency created")
	return nil
}

// Save 供給量を保存
func (r *StatsRepository) Save(ctx context.Context, stats *ledger.CurrencyStats) error {
	ctx, span := r.tracer.Start(ctx, "StatsRepository.Save")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.symbol", stats.Symbol().Code()),
		attribute.Int64("db.supply", stats.Supply().Amount()),
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.table", "currency_stats"),
	)

	query := `
		UPDATE currency_stats
		SET supply = ?
		WHERE symbol_code = ?
	`

	result, err := r.db.conn(ctx).ExecContext(ctx, query,
		stats.Supply().Amount(),
		stats.Symbol().Code(),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to save currency stats: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		span.SetStatus(otelcodes.Error, "currency not found")
		return ledger.ErrCurrencyNotFound
	}

	span.SetStatus(otelcodes.Ok, "currency saved")
	return nil
}
