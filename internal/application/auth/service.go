package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"ubi-server/internal/domain/account"
	"ubi-server/internal/infrastructure/config"
	otelinfra "ubi-server/internal/infrastructure/observability/otel"
)

// ErrInvalidToken トークンが無効
var ErrInvalidToken = errors.New("invalid or expired token")

const (
	claimAccount   = "user_id"
	claimCosigners = "cosigners"
)

// AuthApplicationService 認証アプリケーションサービス
type AuthApplicationService struct {
	jwtConfig *config.JWTConfig
	logger    *otelinfra.Logger
}

// NewAuthApplicationService 新しいAuthApplicationServiceを作成
func NewAuthApplicationService(jwtConfig *config.JWTConfig, logger *otelinfra.Logger) *AuthApplicationService {
	return &AuthApplicationService{
		jwtConfig: jwtConfig,
		logger:    logger,
	}
}

// GenerateToken アカウントの承認を表すJWTトークンを生成
func (s *AuthApplicationService) GenerateToken(ctx context.Context, req *GenerateTokenRequest) (*GenerateTokenResponse, error) {
	tracer := otel.Tracer("auth-service")
	ctx, span := tracer.Start(ctx, "AuthApplicationService.GenerateToken")
	defer span.End()

	span.SetAttributes(
		attribute.String("account", req.Account),
		attribute.StringSlice("cosigners", req.Cosigners),
	)

	for _, name := range append([]string{req.Account}, req.Cosigners...) {
		if err := account.ValidateName(name); err != nil {
			err = fmt.Errorf("%w: %q", err, name)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.logger.Warn(ctx, "Invalid account in token request", map[string]interface{}{
				"error": err.Error(),
			})
			return nil, err
		}
	}

	now := time.Now()
	expiresAt := now.Add(s.jwtConfig.Expiration)

	claims := jwt.MapClaims{
		claimAccount: req.Account,
		"iss":        s.jwtConfig.Issuer,
		"iat":        now.Unix(),
		"exp":        expiresAt.Unix(),
	}
	if len(req.Cosigners) > 0 {
		claims[claimCosigners] = req.Cosigners
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error(ctx, "Failed to generate token", err, map[string]interface{}{
			"account": req.Account,
		})
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info(ctx, "Token generated successfully", map[string]interface{}{
		"account":    req.Account,
		"cosigners":  req.Cosigners,
		"expires_at": expiresAt.Unix(),
	})

	return &GenerateTokenResponse{
		Token:     tokenString,
		ExpiresIn: int64(s.jwtConfig.Expiration.Seconds()),
		TokenType: "Bearer",
	}, nil
}

// VerifyToken トークンを検証し、承認済みアカウントを返す
func (s *AuthApplicationService) VerifyToken(tokenString string) (*Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwtConfig.Secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: invalid claims", ErrInvalidToken)
	}

	accountName, ok := claims[claimAccount].(string)
	if !ok || accountName == "" {
		return nil, fmt.Errorf("%w: missing user_id", ErrInvalidToken)
	}

	principal := &Principal{Account: accountName}
	if raw, ok := claims[claimCosigners].([]interface{}); ok {
		for _, v := range raw {
			if name, ok := v.(string); ok && name != "" {
				principal.Cosigners = append(principal.Cosigners, name)
			}
		}
	}
	return principal, nil
}
