package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	authapp "ubi-server/internal/application/auth"
	"ubi-server/internal/domain/account"
	"ubi-server/internal/domain/claim"
	"ubi-server/internal/domain/ledger"
	"ubi-server/internal/domain/transaction"
	"ubi-server/internal/infrastructure/lock"
	otelinfra "ubi-server/internal/infrastructure/observability/otel"
)

// ErrorResponse エラーレスポンス
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// domainError ドメインエラーとHTTPレスポンスの対応
type domainError struct {
	target error
	status int
	code   string
}

var domainErrors = []domainError{
	{ledger.ErrInvalidSymbol, http.StatusBadRequest, "invalid_symbol"},
	{ledger.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{ledger.ErrSymbolMismatch, http.StatusBadRequest, "symbol_mismatch"},
	{ledger.ErrOverflow, http.StatusBadRequest, "overflow"},
	{ledger.ErrMemoTooLong, http.StatusBadRequest, "memo_too_long"},
	{account.ErrInvalidAccountName, http.StatusBadRequest, "invalid_account_name"},
	{ledger.ErrUnauthorized, http.StatusForbidden, "unauthorized"},
	{authapp.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
	{ledger.ErrCurrencyNotFound, http.StatusNotFound, "currency_not_found"},
	{ledger.ErrNoBalance, http.StatusNotFound, "no_balance"},
	{ledger.ErrBalanceNotFound, http.StatusNotFound, "balance_not_found"},
	{ledger.ErrAccountNotFound, http.StatusNotFound, "account_not_found"},
	{account.ErrAccountNotFound, http.StatusNotFound, "account_not_found"},
	{claim.ErrWindowNotFound, http.StatusNotFound, "claim_window_not_found"},
	{transaction.ErrTransactionNotFound, http.StatusNotFound, "transaction_not_found"},
	{ledger.ErrDuplicateCurrency, http.StatusConflict, "duplicate_currency"},
	{ledger.ErrSupplyExceeded, http.StatusConflict, "supply_exceeded"},
	{ledger.ErrInsufficientSupply, http.StatusConflict, "insufficient_supply"},
	{ledger.ErrInsufficientBalance, http.StatusConflict, "insufficient_balance"},
	{ledger.ErrNonZeroBalance, http.StatusConflict, "non_zero_balance"},
	{ledger.ErrClaimPending, http.StatusConflict, "claim_pending"},
	{account.ErrAccountAlreadyExists, http.StatusConflict, "account_already_exists"},
	{lock.ErrLockTimeout, http.StatusServiceUnavailable, "busy"},
}

// ErrorHandlerMiddleware エラーハンドリングミドルウェア
func ErrorHandlerMiddleware(logger *otelinfra.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			return handleError(c, err, logger)
		}
	}
}

// handleError エラーを処理して適切なHTTPレスポンスを返す
func handleError(c echo.Context, err error, logger *otelinfra.Logger) error {
	ctx := c.Request().Context()

	for _, de := range domainErrors {
		if errors.Is(err, de.target) {
			logger.Warn(ctx, "Request rejected", map[string]interface{}{
				"code":  de.code,
				"error": err.Error(),
			})
			return c.JSON(de.status, ErrorResponse{
				Error:   de.code,
				Message: err.Error(),
				Code:    de.code,
			})
		}
	}

	// 不変条件違反はバグとして扱う
	if errors.Is(err, claim.ErrNonMonotonic) {
		logger.Error(ctx, "Ledger invariant violated", err, map[string]interface{}{
			"path": c.Request().URL.Path,
		})
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_server_error",
			Message: "An unexpected error occurred",
			Code:    "invariant_violation",
		})
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		logger.Warn(ctx, "HTTP error", map[string]interface{}{
			"status_code": httpErr.Code,
			"message":     httpErr.Message,
		})
		message := ""
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(httpErr.Code)
		}
		return c.JSON(httpErr.Code, ErrorResponse{
			Error:   http.StatusText(httpErr.Code),
			Message: message,
		})
	}

	logger.Error(ctx, "Internal server error", err, map[string]interface{}{
		"path": c.Request().URL.Path,
	})
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_server_error",
		Message: "An unexpected error occurred",
	})
}
