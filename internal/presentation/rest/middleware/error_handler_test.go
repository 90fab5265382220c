package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	authapp "ubi-server/internal/application/auth"
	"ubi-server/internal/domain/account"
	"ubi-server/internal/domain/claim"
	"ubi-server/internal/domain/ledger"
	"ubi-server/internal/domain/transaction"
	"ubi-server/internal/infrastructure/lock"
	otelinfra "ubi-server/internal/infrastructure/observability/otel"
)

func runErrorHandler(t *testing.T, handlerErr error) *httptest.ResponseRecorder {
	t.Helper()
	logger := otelinfra.NewLogger(noop.NewTracerProvider().Tracer("test"))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := ErrorHandlerMiddleware(logger)(func(c echo.Context) error {
		if handlerErr == nil {
			return c.String(http.StatusOK, "ok")
		}
		return handlerErr
	})

	require.NoError(t, handler(c))
	return rec
}

func TestErrorHandlerMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"正常系: エラーなし", nil, http.StatusOK, ""},
		{"異常系: 無効なシンボル", ledger.ErrInvalidSymbol, http.StatusBadRequest, "invalid_symbol"},
		{"異常系: 無効な数量", ledger.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
		{"異常系: シンボル不一致", ledger.ErrSymbolMismatch, http.StatusBadRequest, "symbol_mismatch"},
		{"異常系: オーバーフロー", ledger.ErrOverflow, http.StatusBadRequest, "overflow"},
		{"異常系: メモが長すぎる", ledger.ErrMemoTooLong, http.StatusBadRequest, "memo_too_long"},
		{"異常系: 無効なアカウント名", account.ErrInvalidAccountName, http.StatusBadRequest, "invalid_account_name"},
		{"異常系: 権限なし", ledger.ErrUnauthorized, http.StatusForbidden, "unauthorized"},
		{"異常系: 無効なトークン", authapp.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
		{"異常系: 通貨が存在しない", ledger.ErrCurrencyNotFound, http.StatusNotFound, "currency_not_found"},
		{"異常系: 残高行がない", ledger.ErrNoBalance, http.StatusNotFound, "no_balance"},
		{"異常系: クローズ対象の残高がない", ledger.ErrBalanceNotFound, http.StatusNotFound, "balance_not_found"},
		{"異常系: アカウントが存在しない", ledger.ErrAccountNotFound, http.StatusNotFound, "account_not_found"},
		{"異常系: 請求ウィンドウがない", claim.ErrWindowNotFound, http.StatusNotFound, "claim_window_not_found"},
		{"異常系: 取引が存在しない", transaction.ErrTransactionNotFound, http.StatusNotFound, "transaction_not_found"},
		{"異常系: 通貨が重複", ledger.ErrDuplicateCurrency, http.StatusConflict, "duplicate_currency"},
		{"異常系: 供給上限超過", ledger.ErrSupplyExceeded, http.StatusConflict, "supply_exceeded"},
		{"異常系: 供給量不足", ledger.ErrInsufficientSupply, http.StatusConflict, "insufficient_supply"},
		{"異常系: 残高不足", ledger.ErrInsufficientBalance, http.StatusConflict, "insufficient_balance"},
		{"異常系: 残高がゼロではない", ledger.ErrNonZeroBalance, http.StatusConflict, "non_zero_balance"},
		{"異常系: 当日の請求済み", ledger.ErrClaimPending, http.StatusConflict, "claim_pending"},
		{"異常系: アカウント重複", account.ErrAccountAlreadyExists, http.StatusConflict, "account_already_exists"},
		{"異常系: ロック取得タイムアウト", lock.ErrLockTimeout, http.StatusServiceUnavailable, "busy"},
		{"異常系: ラップされたエラー", fmt.Errorf("transfer: %w", ledger.ErrInsufficientBalance), http.StatusConflict, "insufficient_balance"},
		{"異常系: 結合されたエラー", errors.Join(lock.ErrLockTimeout, errors.New("context deadline exceeded")), http.StatusServiceUnavailable, "busy"},
		{"異常系: 不変条件違反", claim.ErrNonMonotonic, http.StatusInternalServerError, "invariant_violation"},
		{"異常系: 未知のエラー", errors.New("unknown error"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := runErrorHandler(t, tt.err)
			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.err == nil {
				return
			}
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedCode, resp.Code)
		})
	}
}

func TestErrorHandlerMiddleware_HTTPError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "異常系: 文字列メッセージ",
			err:             echo.NewHTTPError(http.StatusBadRequest, "bad request"),
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "bad request",
		},
		{
			name:            "異常系: 文字列以外のメッセージ",
			err:             echo.NewHTTPError(http.StatusNotFound, 123),
			expectedStatus:  http.StatusNotFound,
			expectedMessage: http.StatusText(http.StatusNotFound),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := runErrorHandler(t, tt.err)
			assert.Equal(t, tt.expectedStatus, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedMessage, resp.Message)
		})
	}
}
