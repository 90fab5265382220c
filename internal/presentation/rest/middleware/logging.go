package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	otelinfra "ubi-server/internal/infrastructure/observability/otel"
)

// LoggingMiddleware アクセスログミドルウェア
func LoggingMiddleware(logger *otelinfra.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			logger.Debug(req.Context(), "HTTP request started", map[string]interface{}{
				"method":      req.Method,
				"path":        req.URL.Path,
				"remote_addr": c.RealIP(),
				"user_agent":  req.UserAgent(),
			})

			err := next(c)

			status := responseStatus(c, err)
			fields := map[string]interface{}{
				"method":      req.Method,
				"path":        req.URL.Path,
				"route":       c.Path(),
				"status_code": status,
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if userID, ok := c.Get("user_id").(string); ok {
				fields["user_id"] = userID
			}
			if requestID := req.Header.Get(echo.HeaderXRequestID); requestID != "" {
				fields["request_id"] = requestID
			}

			// ErrorHandlerMiddlewareの内側ではerrがnilでもステータスで判定する
			ctx := c.Request().Context()
			switch {
			case err != nil && status >= http.StatusInternalServerError:
				logger.Error(ctx, "HTTP request failed", err, fields)
			case status >= http.StatusInternalServerError:
				logger.Error(ctx, "HTTP request failed", nil, fields)
			case status >= http.StatusBadRequest:
				logger.Warn(ctx, "HTTP request rejected", fields)
			default:
				logger.Info(ctx, "HTTP request completed", fields)
			}

			return err
		}
	}
}
