package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics メトリクス定義
type Metrics struct {
	// 台帳操作数
	TransactionCount metric.Int64Counter

	// インカム請求数
	ClaimCount metric.Int64Counter

	// インカムとして発行した最小単位数
	ClaimedAmount metric.Int64Counter

	// 遡及上限で失効した日数
	LostDays metric.Int64Counter

	// 通貨ごとの供給量
	Supply metric.Int64Gauge

	// リクエスト数
	RequestCount metric.Int64Counter

	// レスポンス時間
	ResponseTime metric.Float64Histogram

	// エラー数
	ErrorCount metric.Int64Counter
}

// NewMetrics グローバルのメータープロバイダーからMetricsを作成
func NewMetrics(meterName string) (*Metrics, error) {
	return NewMetricsWithMeter(otel.Meter(meterName))
}

// NewMetricsWithMeter 指定したメーターからMetricsを作成
func NewMetricsWithMeter(meter metric.Meter) (*Metrics, error) {
	transactionCount, err := meter.Int64Counter(
		"ledger_transactions_total",
		metric.WithDescription("Total number of ledger operations"),
	)
	if err != nil {
		return nil, err
	}

	claimCount, err := meter.Int64Counter(
		"ledger_claims_total",
		metric.WithDescription("Total number of settled income claims"),
	)
	if err != nil {
		return nil, err
	}

	claimedAmount, err := meter.Int64Counter(
		"ledger_claimed_amount_total",
		metric.WithDescription("Income minted by claims, in minor units"),
	)
	if err != nil {
		return nil, err
	}

	lostDays, err := meter.Int64Counter(
		"ledger_claim_lost_days_total",
		metric.WithDescription("Days of income forfeited by the back-pay cap"),
	)
	if err != nil {
		return nil, err
	}

	supply, err := meter.Int64Gauge(
		"ledger_supply",
		metric.WithDescription("Current supply per currency, in minor units"),
	)
	if err != nil {
		return nil, err
	}

	requestCount, err := meter.Int64Counter(
		"requests_total",
		metric.WithDescription("Total number of requests"),
	)
	if err != nil {
		return nil, err
	}

	responseTime, err := meter.Float64Histogram(
		"response_time_seconds",
		metric.WithDescription("Response time in seconds"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"errors_total",
		metric.WithDescription("Total number of errors"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		TransactionCount: transactionCount,
		ClaimCount:       claimCount,
		ClaimedAmount:    claimedAmount,
		LostDays:         lostDays,
		Supply:           supply,
		RequestCount:     requestCount,
		ResponseTime:     responseTime,
		ErrorCount:       errorCount,
	}, nil
}

// RecordTransaction 台帳操作を記録
func (m *Metrics) RecordTransaction(ctx context.Context, transactionType, symbol string) {
	m.TransactionCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("transaction_type", transactionType),
			attribute.String("symbol", symbol),
		),
	)
}

// RecordClaim インカム請求を記録
func (m *Metrics) RecordClaim(ctx context.Context, symbol string, amount int64, lostDays uint32) {
	attrs := metric.WithAttributes(attribute.String("symbol", symbol))
	m.ClaimCount.Add(ctx, 1, attrs)
	m.ClaimedAmount.Add(ctx, amount, attrs)
	if lostDays > 0 {
		m.LostDays.Add(ctx, int64(lostDays), attrs)
	}
}

// RecordSupply 供給量を記録
func (m *Metrics) RecordSupply(ctx context.Context, symbol string, supply int64) {
	m.Supply.Record(ctx, supply,
		metric.WithAttributes(
			attribute.String("symbol", symbol),
		),
	)
}

// RecordRequest リクエストを記録
func (m *Metrics) RecordRequest(ctx context.Context, method, path string) {
	m.RequestCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordResponseTime レスポンス時間を記録
func (m *Metrics) RecordResponseTime(ctx context.Context, method, path string, duration float64) {
	m.ResponseTime.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordError エラーを記録
func (m *Metrics) RecordError(ctx context.Context, errorType string) {
	m.ErrorCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("error_type", errorType),
		),
	)
}
