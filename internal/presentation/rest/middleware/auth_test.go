package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	authapp "ubi-server/internal/application/auth"
	"ubi-server/internal/domain/authority"
	"ubi-server/internal/infrastructure/config"
	otelinfra "ubi-server/internal/infrastructure/observability/otel"
)

func newAuthService() *authapp.AuthApplicationService {
	cfg := &config.JWTConfig{
		Secret:     "test-secret",
		Issuer:     "test",
		Expiration: time.Hour,
	}
	return authapp.NewAuthApplicationService(cfg, otelinfra.NewLogger(noop.NewTracerProvider().Tracer("test")))
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestAuthMiddleware(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name           string
		header         func(*testing.T) string
		expectedStatus int
	}{
		{
			name:           "異常系: Authorizationヘッダーがない",
			header:         func(*testing.T) string { return "" },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "異常系: Bearer形式ではない",
			header:         func(*testing.T) string { return "InvalidFormat token" },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "異常系: 無効なトークン",
			header:         func(*testing.T) string { return "Bearer invalid-token" },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "異常系: user_idがない",
			header: func(t *testing.T) string {
				return "Bearer " + signToken(t, "test-secret", jwt.MapClaims{"other_claim": "value", "exp": exp})
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "異常系: user_idが文字列ではない",
			header: func(t *testing.T) string {
				return "Bearer " + signToken(t, "test-secret", jwt.MapClaims{"user_id": 123, "exp": exp})
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "異常系: シークレットが異なる",
			header: func(t *testing.T) string {
				return "Bearer " + signToken(t, "wrong-secret", jwt.MapClaims{"user_id": "alice.jc", "exp": exp})
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "異常系: 期限切れ",
			header: func(t *testing.T) string {
				return "Bearer " + signToken(t, "test-secret", jwt.MapClaims{"user_id": "alice.jc", "exp": time.Now().Add(-time.Minute).Unix()})
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "正常系: 有効なトークン",
			header: func(t *testing.T) string {
				return "Bearer " + signToken(t, "test-secret", jwt.MapClaims{"user_id": "alice.jc", "exp": exp})
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := otelinfra.NewLogger(noop.NewTracerProvider().Tracer("test"))

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if h := tt.header(t); h != "" {
				req.Header.Set("Authorization", h)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := AuthMiddleware(newAuthService(), logger)(func(c echo.Context) error {
				return c.String(http.StatusOK, "ok")
			})

			require.NoError(t, handler(c))
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestAuthMiddleware_SetsAuthorizations(t *testing.T) {
	authService := newAuthService()
	logger := otelinfra.NewLogger(noop.NewTracerProvider().Tracer("test"))

	resp, err := authService.GenerateToken(context.Background(), &authapp.GenerateTokenRequest{
		Account:   "alice.jc",
		Cosigners: []string{"bob"},
	})
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := AuthMiddleware(authService, logger)(func(c echo.Context) error {
		userID, ok := c.Get("user_id").(string)
		assert.True(t, ok)
		assert.Equal(t, "alice.jc", userID)

		ctx := c.Request().Context()
		assert.True(t, authority.HasAuth(ctx, "alice.jc"))
		assert.True(t, authority.HasAuth(ctx, "bob"))
		assert.False(t, authority.HasAuth(ctx, "carol.jc"))
		return c.String(http.StatusOK, "ok")
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
