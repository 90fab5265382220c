package mysql

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ubi-server/internal/domain/account"
)

// AccountDirectory MySQL実装のaccount.Directory
type AccountDirectory struct {
	db     *DB
	tracer trace.Tracer
}

// NewAccountDirectory 新しいAccountDirectoryを作成
func NewAccountDirectory(db *DB) *AccountDirectory {
	return &AccountDirectory{
		db:     db,
		tracer: otel.Tracer("account-directory"),
	}
}

// Exists アカウントが存在するか
func (d *AccountDirectory) Exists(ctx context.Context, name string) (bool, error) {
	ctx, span := d.tracer.Start(ctx, "AccountDirectory.Exists")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.account", name),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "accounts"),
	)

	var exists bool
	err := d.db.conn(ctx).QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE name = ?)`, name,
	).Scan(&exists)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return false, fmt.Errorf("failed to check account: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "account checked")
	return exists, nil
}

// Register アカウントを登録
func (d *AccountDirectory) Register(ctx context.Context, a *account.Account) error {
	ctx, span := d.tracer.Start(ctx, "AccountDirectory.Register")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.account", a.Name()),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "accounts"),
	)

	_, err := d.db.conn(ctx).ExecContext(ctx,
		`INSERT INTO accounts (name, created_at) VALUES (?, ?)`, a.Name(), a.CreatedAt(),
	)
	if isDuplicateEntry(err) {
		span.SetStatus(otelcodes.Error, "account already exists")
		return account.ErrAccountAlreadyExists
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to register account: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "account registered")
	return nil
}
