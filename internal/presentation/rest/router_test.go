package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	authapp "ubi-server/internal/application/auth"
	historyapp "ubi-server/internal/application/history"
	ledgerapp "ubi-server/internal/application/ledger"
	"ubi-server/internal/domain/claim"
	"ubi-server/internal/domain/eligibility"
	"ubi-server/internal/domain/service"
	"ubi-server/internal/infrastructure/config"
	"ubi-server/internal/infrastructure/eventlog"
	"ubi-server/internal/infrastructure/lock"
	otelinfra "ubi-server/internal/infrastructure/observability/otel"
	"ubi-server/internal/infrastructure/persistence/memory"
)

const testAPIKey = "test-api-key"

func setupTestRouter(t *testing.T) *Router {
	t.Helper()

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-secret",
			Issuer:     "test",
			Expiration: time.Hour,
		},
		AdminAPI: config.AdminAPIConfig{
			Enabled: true,
			APIKey:  testAPIKey,
		},
	}

	logger := otelinfra.NewLoggerWithWriter(tracenoop.NewTracerProvider().Tracer("test"), io.Discard)
	metrics, err := otelinfra.NewMetricsWithMeter(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	store := memory.NewStore()
	transactionRepo := memory.NewTransactionRepository(store)
	ledgerStore := service.NewLedgerStore(memory.NewStatsRepository(store), memory.NewBalanceRepository(store))
	windowStore := service.NewClaimWindowStore(memory.NewWindowRepository(store))
	engine, err := service.NewAccrualEngine(
		service.AccrualPolicy{ClaimDays: 1, MaxPastClaimDays: 360, EpochDay: 100},
		eligibility.NewSuffix(".jc"),
		claim.FixedClock(103),
		ledgerStore,
		windowStore,
		eventlog.NewEmitter(transactionRepo),
		"ubi.jc",
	)
	require.NoError(t, err)

	ledgerService := ledgerapp.NewLedgerApplicationService(ledgerStore, windowStore, engine, transactionRepo,
		memory.NewAccountDirectory(store), memory.NewTransactionManager(store), lock.NewLocal(), "ubi.jc", logger, metrics)

	router, err := NewRouter(
		cfg,
		logger,
		metrics,
		authapp.NewAuthApplicationService(&cfg.JWT, logger),
		ledgerService,
		historyapp.NewHistoryApplicationService(transactionRepo, logger, metrics),
	)
	require.NoError(t, err)
	return router
}

func serve(router *Router, method, path string, headers map[string]string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.Handler().ServeHTTP(rec, req)
	return rec
}

func adminHeaders() map[string]string {
	return map[string]string{"X-API-Key": testAPIKey}
}

func bearer(t *testing.T, router *Router, account string, cosigners ...string) map[string]string {
	t.Helper()
	rec := serve(router, http.MethodPost, "/admin/tokens", adminHeaders(), map[string]interface{}{
		"account":   account,
		"cosigners": cosigners,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return map[string]string{echo.HeaderAuthorization: "Bearer " + resp["token"].(string)}
}

func TestNewRouter(t *testing.T) {
	router := setupTestRouter(t)

	assert.NotNil(t, router.echo)
	assert.NotNil(t, router.ledgerHandler)
	assert.NotNil(t, router.historyHandler)
	assert.NotNil(t, router.adminHandler)
	assert.NotNil(t, router.authHandler)

	_, err := NewRouter(nil, nil, nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestRouter_HealthCheck(t *testing.T) {
	router := setupTestRouter(t)

	rec := serve(router, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "ok", response["status"])

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestRouter_DocsEndpoints(t *testing.T) {
	router := setupTestRouter(t)

	tests := []struct {
		name        string
		path        string
		contentType string
	}{
		{"OpenAPI定義", "/openapi.yaml", "application/x-yaml"},
		{"ReDoc", "/redoc", echo.MIMETextHTMLCharsetUTF8},
		{"Swagger UI", "/swagger/index.html", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, http.MethodGet, tt.path, nil, nil)
			assert.Equal(t, http.StatusOK, rec.Code)
			if tt.contentType != "" {
				assert.Equal(t, tt.contentType, rec.Header().Get(echo.HeaderContentType))
			}
		})
	}
}

func TestRouter_AdminEndpoints(t *testing.T) {
	router := setupTestRouter(t)

	tests := []struct {
		name           string
		method         string
		path           string
		headers        map[string]string
		body           interface{}
		expectedStatus int
	}{
		{
			name:           "異常系: APIキーがない",
			method:         http.MethodPost,
			path:           "/admin/tokens",
			body:           map[string]string{"account": "alice.jc"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "異常系: APIキーが違う",
			method:         http.MethodPost,
			path:           "/admin/tokens",
			headers:        map[string]string{"X-API-Key": "wrong"},
			body:           map[string]string{"account": "alice.jc"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "正常系: トークン発行",
			method:         http.MethodPost,
			path:           "/admin/tokens",
			headers:        adminHeaders(),
			body:           map[string]string{"account": "alice.jc"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "正常系: アカウント登録",
			method:         http.MethodPost,
			path:           "/api/v1/accounts",
			headers:        adminHeaders(),
			body:           map[string]string{"name": "alice.jc"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "異常系: JWTではアカウント登録できない",
			method:         http.MethodPost,
			path:           "/api/v1/accounts",
			headers:        bearer(t, router, "alice.jc"),
			body:           map[string]string{"name": "bob"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "異常系: 存在しない通貨の監査",
			method:         http.MethodGet,
			path:           "/admin/currencies/UBI/audit",
			headers:        adminHeaders(),
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, tt.method, tt.path, tt.headers, tt.body)
			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_AuthenticatedEndpoints(t *testing.T) {
	router := setupTestRouter(t)

	rec := serve(router, http.MethodGet, "/api/v1/currencies/UBI/supply", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(router, http.MethodGet, "/api/v1/currencies/UBI/supply",
		map[string]string{echo.HeaderAuthorization: "Bearer not-a-token"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_LedgerFlow(t *testing.T) {
	router := setupTestRouter(t)

	for _, name := range []string{"ubi.jc", "alice.jc", "bob"} {
		rec := serve(router, http.MethodPost, "/admin/accounts", adminHeaders(), map[string]string{"name": name})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := serve(router, http.MethodPost, "/api/v1/currencies", bearer(t, router, "ubi.jc"), map[string]string{
		"issuer":     "ubi.jc",
		"max_supply": "1000000.0000 UBI",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	alice := bearer(t, router, "alice.jc")
	rec = serve(router, http.MethodPost, "/api/v1/accounts/alice.jc/balances", alice, map[string]string{
		"symbol": "4,UBI",
		"payer":  "alice.jc",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = serve(router, http.MethodPost, "/api/v1/transfers", alice, map[string]string{
		"from":     "alice.jc",
		"to":       "bob",
		"quantity": "1.0000 UBI",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = serve(router, http.MethodGet, "/api/v1/accounts/alice.jc/balances/UBI", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var balance map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &balance))
	// 日100からの3日分
	assert.Equal(t, "2.0000 UBI", balance["balance"])

	rec = serve(router, http.MethodGet, "/admin/currencies/UBI/audit", adminHeaders(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var audit map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &audit))
	assert.Equal(t, true, audit["consistent"])
	assert.Equal(t, "3.0000 UBI", audit["supply"])
}

func TestRouter_NotFound(t *testing.T) {
	router := setupTestRouter(t)

	rec := serve(router, http.MethodGet, "/does-not-exist", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_StartShutdown(t *testing.T) {
	router := setupTestRouter(t)

	errCh := make(chan error, 1)
	go func() {
		errCh <- router.Start("127.0.0.1:0")
	}()
	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, router.Shutdown(ctx))

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(time.Second):
		t.Fatal("server did not stop")
	}
}
