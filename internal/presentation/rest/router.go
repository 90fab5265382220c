package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	authapp "ubi-server/internal/application/auth"
	historyapp "ubi-server/internal/application/history"
	ledgerapp "ubi-server/internal/application/ledger"
	"ubi-server/internal/infrastructure/config"
	otelinfra "ubi-server/internal/infrastructure/observability/otel"
	"ubi-server/internal/presentation/rest/handler"
	restmiddleware "ubi-server/internal/presentation/rest/middleware"
)

// Router REST APIルーター
type Router struct {
	echo           *echo.Echo
	ledgerHandler  *handler.LedgerHandler
	historyHandler *handler.HistoryHandler
	adminHandler   *handler.AdminHandler
	authHandler    *handler.AuthHandler
}

// NewRouter 新しいRouterを作成
func NewRouter(
	cfg *config.Config,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
	authService *authapp.AuthApplicationService,
	ledgerService *ledgerapp.LedgerApplicationService,
	historyService *historyapp.HistoryApplicationService,
) (*Router, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// ミドルウェアを通らなかったエラーのみここに来る
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			code = httpErr.Code
		}
		_ = c.JSON(code, restmiddleware.ErrorResponse{
			Error:   http.StatusText(code),
			Message: http.StatusText(code),
		})
	}

	setupMiddleware(e, logger, metrics)

	r := &Router{
		echo:           e,
		ledgerHandler:  handler.NewLedgerHandler(ledgerService),
		historyHandler: handler.NewHistoryHandler(historyService),
		adminHandler:   handler.NewAdminHandler(ledgerService),
		authHandler:    handler.NewAuthHandler(authService),
	}
	r.setupRoutes(cfg, logger, authService)

	SetupSwagger(e)

	return r, nil
}

// setupMiddleware ミドルウェアを設定
func setupMiddleware(e *echo.Echo, logger *otelinfra.Logger, metrics *otelinfra.Metrics) {
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-API-Key"},
	}))

	e.Use(middleware.RequestID())
	e.Use(restmiddleware.SecurityHeadersMiddleware())
	e.Use(restmiddleware.TracingMiddleware())
	e.Use(restmiddleware.MetricsMiddleware(metrics))
	e.Use(restmiddleware.LoggingMiddleware(logger))
	e.Use(restmiddleware.ErrorHandlerMiddleware(logger))
}

// setupRoutes ルーティングを設定
func (r *Router) setupRoutes(cfg *config.Config, logger *otelinfra.Logger, authService *authapp.AuthApplicationService) {
	e := r.echo
	apiKey := restmiddleware.APIKeyMiddleware(&cfg.AdminAPI, logger)

	// アカウント登録は管理キーで保護する
	e.POST("/api/v1/accounts", r.adminHandler.RegisterAccount, apiKey)

	api := e.Group("/api/v1", restmiddleware.AuthMiddleware(authService, logger))

	api.POST("/currencies", r.ledgerHandler.CreateCurrency)
	api.GET("/currencies/:symbol/supply", r.ledgerHandler.GetSupply)
	api.GET("/currencies/:symbol/stats", r.ledgerHandler.GetStats)
	api.POST("/currencies/:symbol/issue", r.ledgerHandler.Issue)
	api.POST("/currencies/:symbol/retire", r.ledgerHandler.Retire)

	api.POST("/transfers", r.ledgerHandler.Transfer)

	api.POST("/accounts/:owner/balances", r.ledgerHandler.OpenBalance)
	api.GET("/accounts/:owner/balances/:symbol", r.ledgerHandler.GetBalance)
	api.DELETE("/accounts/:owner/balances/:symbol", r.ledgerHandler.CloseBalance)
	api.GET("/accounts/:owner/claims/:symbol", r.ledgerHandler.GetClaimWindow)
	api.GET("/accounts/:owner/transactions", r.historyHandler.GetTransactionHistory)

	admin := e.Group("/admin", apiKey)
	admin.POST("/accounts", r.adminHandler.RegisterAccount)
	admin.POST("/tokens", r.authHandler.GenerateToken)
	admin.GET("/currencies/:symbol/audit", r.adminHandler.Audit)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}

// Handler http.Handlerとしてのルーターを返す
func (r *Router) Handler() http.Handler {
	return r.echo
}

// Start サーバーを起動
func (r *Router) Start(address string) error {
	return r.echo.Start(address)
}

// Shutdown 処理中のリクエストを待ってサーバーを停止
func (r *Router) Shutdown(ctx context.Context) error {
	return r.echo.Shutdown(ctx)
}
