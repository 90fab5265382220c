package handler

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
	restmiddleware "ubi-server/internal/presentation/rest/middleware"
)

const contract = "ubi.jc"

type testClock struct {
	day claim.Day
}

func (c *testClock) Today() claim.Day {
	return c.day
}

// testServer メモリストアで組み立てたハンドラー一式
type testServer struct {
	e       *echo.Echo
	clock   *testClock
	auth    *authapp.AuthApplicationService
	ledger  *ledgerapp.LedgerApplicationService
	history *historyapp.HistoryApplicationService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.NewStore()
	transactionRepo := memory.NewTransactionRepository(store)

	logger := otelinfra.NewLoggerWithWriter(tracenoop.NewTracerProvider().Tracer("test"), io.Discard)
	metrics, err := otelinfra.NewMetricsWithMeter(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	clock := &testClock{day: 100}
	ledgerStore := service.NewLedgerStore(memory.NewStatsRepository(store), memory.NewBalanceRepository(store))
	windowStore := service.NewClaimWindowStore(memory.NewWindowRepository(store))
	policy := service.AccrualPolicy{ClaimDays: 1, MaxPastClaimDays: 360, EpochDay: 100}
	engine, err := service.NewAccrualEngine(policy, eligibility.NewSuffix(".jc"), clock, ledgerStore, windowStore,
		eventlog.NewEmitter(transactionRepo), contract)
	require.NoError(t, err)

	ledgerService := ledgerapp.NewLedgerApplicationService(ledgerStore, windowStore, engine, transactionRepo,
		memory.NewAccountDirectory(store), memory.NewTransactionManager(store), lock.NewLocal(), contract, logger, metrics)
	historyService := historyapp.NewHistoryApplicationService(transactionRepo, logger, metrics)
	authService := authapp.NewAuthApplicationService(&config.JWTConfig{
		Secret:     "test-secret",
		Issuer:     "test",
		Expiration: time.Hour,
	}, logger)

	for _, name := range []string{contract, "alice.jc", "bob"} {
		_, err := ledgerService.RegisterAccount(context.Background(), name)
		require.NoError(t, err)
	}

	e := echo.New()
	e.Use(restmiddleware.ErrorHandlerMiddleware(logger))

	ledgerHandler := NewLedgerHandler(ledgerService)
	historyHandler := NewHistoryHandler(historyService)
	adminHandler := NewAdminHandler(ledgerService)
	authHandler := NewAuthHandler(authService)

	api := e.Group("/api/v1")
	api.Use(restmiddleware.AuthMiddleware(authService, logger))
	api.POST("/currencies", ledgerHandler.CreateCurrency)
	api.GET("/currencies/:symbol/supply", ledgerHandler.GetSupply)
	api.GET("/currencies/:symbol/stats", ledgerHandler.GetStats)
	api.POST("/currencies/:symbol/issue", ledgerHandler.Issue)
	api.POST("/currencies/:symbol/retire", ledgerHandler.Retire)
	api.POST("/transfers", ledgerHandler.Transfer)
	api.POST("/accounts/:owner/balances", ledgerHandler.OpenBalance)
	api.DELETE("/accounts/:owner/balances/:symbol", ledgerHandler.CloseBalance)
	api.GET("/accounts/:owner/balances/:symbol", ledgerHandler.GetBalance)
	api.GET("/accounts/:owner/claims/:symbol", ledgerHandler.GetClaimWindow)
	api.GET("/accounts/:owner/transactions", historyHandler.GetTransactionHistory)

	admin := e.Group("/admin")
	admin.POST("/accounts", adminHandler.RegisterAccount)
	admin.POST("/tokens", authHandler.GenerateToken)
	admin.GET("/currencies/:symbol/audit", adminHandler.Audit)

	return &testServer{e: e, clock: clock, auth: authService, ledger: ledgerService, history: historyService}
}

// token 指定アカウントの承認を持つBearerトークンを発行する
func (s *testServer) token(t *testing.T, account string, cosigners ...string) string {
	t.Helper()
	resp, err := s.auth.GenerateToken(context.Background(), &authapp.GenerateTokenRequest{
		Account:   account,
		Cosigners: cosigners,
	})
	require.NoError(t, err)
	return resp.Token
}

// do リクエストを実行する。tokenが空の場合はAuthorizationヘッダーを付けない
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// createUBI コントラクトアカウントでUBIを作成する
func (s *testServer) createUBI(t *testing.T) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/currencies", s.token(t, contract), CreateCurrencyRequest{
		Issuer:    contract,
		MaxSupply: "1000000.0000 UBI",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
