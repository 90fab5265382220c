package interceptor

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	authapp "ubi-server/internal/application/auth"
	"ubi-server/internal/domain/authority"
	otelinfra "ubi-server/internal/infrastructure/observability/otel"
)

type contextKey string

// UserIDKey 認証済みアカウントのコンテキストキー
const UserIDKey contextKey = "user_id"

// AuthInterceptor JWT認証インターセプター。
// 検証済みアカウントと連署アカウントを承認としてコンテキストに載せる
func AuthInterceptor(authService *authapp.AuthApplicationService, logger *otelinfra.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			logger.Warn(ctx, "Missing metadata", map[string]interface{}{"method": info.FullMethod})
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		authHeaders := md.Get("authorization")
		if len(authHeaders) == 0 {
			logger.Warn(ctx, "Missing authorization header", map[string]interface{}{"method": info.FullMethod})
			return nil, status.Error(codes.Unauthenticated, "missing authorization header")
		}

		tokenString, found := strings.CutPrefix(authHeaders[0], "Bearer ")
		if !found || tokenString == "" {
			logger.Warn(ctx, "Invalid authorization header format", map[string]interface{}{"method": info.FullMethod})
			return nil, status.Error(codes.Unauthenticated, "invalid authorization header format")
		}

		principal, err := authService.VerifyToken(tokenString)
		if err != nil {
			logger.Warn(ctx, "Invalid token", map[string]interface{}{
				"method": info.FullMethod,
				"error":  err.Error(),
			})
			return nil, status.Error(codes.Unauthenticated, "invalid or expired token")
		}

		ctx = context.WithValue(ctx, UserIDKey, principal.Account)
		ctx = authority.WithAuthorizations(ctx, principal.Accounts()...)

		return handler(ctx, req)
	}
}

// ByMethod メソッドごとにインターセプターを切り替える。
// adminMethodsに含まれるメソッドはadminで、それ以外はuserで処理する
func ByMethod(adminMethods []string, admin, user grpc.UnaryServerInterceptor) grpc.UnaryServerInterceptor {
	set := make(map[string]struct{}, len(adminMethods))
	for _, m := range adminMethods {
		set[m] = struct{}{}
	}

	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if _, ok := set[info.FullMethod]; ok {
			return admin(ctx, req, info, handler)
		}
		return user(ctx, req, info, handler)
	}
}
