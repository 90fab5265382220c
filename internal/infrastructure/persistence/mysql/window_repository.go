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

	"ubi-server/internal/domain/claim"
)

// WindowRepository MySQL実装のWindowRepository
type WindowRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewWindowRepository 新しいWindowRepositoryを作成
func NewWindowRepository(db *DB) *WindowRepository {
	return &WindowRepository{
		db:     db,
		tracer: otel.Tracer("window-repository"),
	}
}

// Find 所有者とシンボルコードでウィンドウを取得
func (r *WindowRepository) Find(ctx context.Context, owner, code string) (*claim.Window, error) {
	ctx, span := r.tracer.Start(ctx, "WindowRepository.Find")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.owner", owner),
		attribute.String("db.symbol", code),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "claim_windows"),
	)

	query := `
		SELECT last_claim_day
		FROM claim_windows
		WHERE owner = ? AND symbol_code = ?` + forUpdate(ctx)

	var lastClaimDay uint32
	err := r.db.conn(ctx).QueryRowContext(ctx, query, owner, code).Scan(&lastClaimDay)

	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(otelcodes.Ok, "claim window not found")
		return nil, claim.ErrWindowNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find claim window: %w", err)
	}

	span.SetAttributes(attribute.Int64("db.last_claim_day", int64(lastClaimDay)))
	span.SetStatus(otelcodes.Ok, "claim window found")
	return claim.NewWindow(owner, code, claim.Day(lastClaimDay)), nil
}

// Create 新しいウィンドウを作成
func (r *WindowRepository) Create(ctx context.Context, w *claim.Window) error {
	ctx, span := r.tracer.Start(ctx, "WindowRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.owner", w.Owner()),
		attribute.String("db.symbol", w.SymbolCode()),
		attribute.Int64("db.last_claim_day", int64(w.LastClaimDay())),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "claim_windows"),
	)

	_, err := r.db.conn(ctx).ExecContext(ctx,
		`INSERT INTO claim_windows (owner, symbol_code, last_claim_day) VALUES (?, ?, ?)`,
		w.Owner(), w.SymbolCode(), uint32(w.LastClaimDay()),
	)
	if isDuplicateEntry(err) {
		span.SetStatus(otelcodes.Error, "claim window already exists")
		return claim.ErrAlreadyExists
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to create claim window: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "claim window created")
	return nil
}

// Save ウィンドウを保存。最終請求日が後退する更新は行わない
func (r *WindowRepository) Save(ctx context.Context, w *claim.Window) error {
	ctx, span := r.tracer.Start(ctx, "WindowRepository.Save")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.owner", w.Owner()),
		attribute.String("db.symbol", w.SymbolCode()),
		attribute.Int64("db.last_claim_day", int64(w.LastClaimDay())),
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.table", "claim_windows"),
	)

	query := `
		UPDATE claim_windows
		SET last_claim_day = ?
		WHERE owner = ? AND symbol_code = ? AND last_claim_day <= ?
	`

	day := uint32(w.LastClaimDay())
	result, err := r.db.conn(ctx).ExecContext(ctx, query, day, w.Owner(), w.SymbolCode(), day)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to save claim window: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Find済みの行に対する更新なので、0件は後退を意味する
		span.SetStatus(otelcodes.Error, claim.ErrNonMonotonic.Error())
		return claim.ErrNonMonotonic
	}

	span.SetStatus(otelcodes.Ok, "claim window saved")
	return nil
}

// Delete ウィンドウを削除
func (r *WindowRepository) Delete(ctx context.Context, owner, code string) error {
	ctx, span := r.tracer.Start(ctx, "WindowRepository.Delete")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.owner", owner),
		attribute.String("db.symbol", code),
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.table", "claim_windows"),
	)

	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM claim_windows WHERE owner = ? AND symbol_code = ?`, owner, code)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to delete claim window: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return claim.ErrWindowNotFound
	}

	span.SetStatus(otelcodes.Ok, "claim window deleted")
	return nil
}
