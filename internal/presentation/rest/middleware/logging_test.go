package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	otelinfra "ubi-server/internal/infrastructure/observability/otel"
)

// lastLogEntry バッファ内の最後のログエントリを返す
func lastLogEntry(t *testing.T, buf *bytes.Buffer) otelinfra.LogEntry {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	var entry otelinfra.LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name            string
		handler         echo.HandlerFunc
		expectedLevel   string
		expectedMessage string
		expectErr       bool
	}{
		{
			name:            "正常系: 完了ログ",
			handler:         func(c echo.Context) error { return c.String(http.StatusOK, "ok") },
			expectedLevel:   "INFO",
			expectedMessage: "HTTP request completed",
		},
		{
			name:            "異常系: 4xxは警告",
			handler:         func(c echo.Context) error { return c.String(http.StatusConflict, "conflict") },
			expectedLevel:   "WARN",
			expectedMessage: "HTTP request rejected",
		},
		{
			name:            "異常系: 書き込み済みの5xx",
			handler:         func(c echo.Context) error { return c.String(http.StatusInternalServerError, "oops") },
			expectedLevel:   "ERROR",
			expectedMessage: "HTTP request failed",
		},
		{
			name:            "異常系: エラー返却",
			handler:         func(c echo.Context) error { return errors.New("boom") },
			expectedLevel:   "ERROR",
			expectedMessage: "HTTP request failed",
			expectErr:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := otelinfra.NewLoggerWithWriter(noop.NewTracerProvider().Tracer("test"), &buf)

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/currencies/UBI/supply", nil)
			req.Header.Set(echo.HeaderXRequestID, "req-1")
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetPath("/api/v1/currencies/:symbol/supply")

			err := LoggingMiddleware(logger)(tt.handler)(c)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			entry := lastLogEntry(t, &buf)
			assert.Equal(t, tt.expectedLevel, entry.Level)
			assert.Equal(t, tt.expectedMessage, entry.Message)
			assert.Equal(t, "/api/v1/currencies/:symbol/supply", entry.Fields["route"])
			assert.Equal(t, "req-1", entry.Fields["request_id"])
			assert.Contains(t, entry.Fields, "duration_ms")
		})
	}
}

func TestLoggingMiddleware_IncludesUserID(t *testing.T) {
	var buf bytes.Buffer
	logger := otelinfra.NewLoggerWithWriter(noop.NewTracerProvider().Tracer("test"), &buf)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/currencies/UBI/transfers", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := LoggingMiddleware(logger)(func(c echo.Context) error {
		c.Set("user_id", "alice.jc")
		return c.NoContent(http.StatusCreated)
	})
	require.NoError(t, handler(c))

	entry := lastLogEntry(t, &buf)
	assert.Equal(t, "alice.jc", entry.Fields["user_id"])
	assert.EqualValues(t, http.StatusCreated, entry.Fields["status_code"])
}
