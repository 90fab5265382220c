package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	authapp "ubi-server/internal/application/auth"
	"ubi-server/internal/domain/authority"
	otelinfra "ubi-server/internal/infrastructure/observability/otel"
)

// AuthMiddleware JWT認証ミドルウェア。
// トークンのuser_idとcosignersを操作の承認済みアカウントとしてコンテキストに設定する
func AuthMiddleware(authService *authapp.AuthApplicationService, logger *otelinfra.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn(ctx, "Missing authorization header", nil)
				return c.JSON(401, ErrorResponse{
					Error:   "unauthorized",
					Message: "Missing authorization header",
				})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Warn(ctx, "Invalid authorization header format", nil)
				return c.JSON(401, ErrorResponse{
					Error:   "unauthorized",
					Message: "Invalid authorization header format",
				})
			}

			principal, err := authService.VerifyToken(parts[1])
			if err != nil {
				logger.Warn(ctx, "Invalid token", map[string]interface{}{
					"error": err.Error(),
				})
				return c.JSON(401, ErrorResponse{
					Error:   "unauthorized",
					Message: "Invalid or expired token",
				})
			}

			c.Set("user_id", principal.Account)
			ctx = authority.WithAuthorizations(ctx, principal.Accounts()...)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
