package interceptor

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"ubi-server/internal/infrastructure/config"
	otelinfra "ubi-server/internal/infrastructure/observability/otel"
)

func TestAPIKeyInterceptor(t *testing.T) {
	enabled := &config.AdminAPIConfig{Enabled: true, APIKey: "test-api-key"}
	restricted := &config.AdminAPIConfig{Enabled: true, APIKey: "test-api-key", AllowedIPs: []string{"10.0.0.0/8"}}

	tests := []struct {
		name          string
		config        *config.AdminAPIConfig
		md            metadata.MD
		peerAddr      net.Addr
		expectedCode  codes.Code
		expectedError string
	}{
		{
			name:         "正常系: 有効なAPIキー",
			config:       enabled,
			md:           metadata.Pairs("x-api-key", "test-api-key"),
			expectedCode: codes.OK,
		},
		{
			name:          "異常系: APIキーが空",
			config:        enabled,
			md:            metadata.MD{},
			expectedCode:  codes.Unauthenticated,
			expectedError: "missing X-API-Key metadata",
		},
		{
			name:          "異常系: 無効なAPIキー",
			config:        enabled,
			md:            metadata.Pairs("x-api-key", "invalid-key"),
			expectedCode:  codes.Unauthenticated,
			expectedError: "invalid API key",
		},
		{
			name:          "異常系: 管理APIが無効化されている",
			config:        &config.AdminAPIConfig{Enabled: false, APIKey: "test-api-key"},
			md:            metadata.Pairs("x-api-key", "test-api-key"),
			expectedCode:  codes.PermissionDenied,
			expectedError: "admin API is disabled",
		},
		{
			name:          "異常系: メタデータが存在しない",
			config:        enabled,
			expectedCode:  codes.Unauthenticated,
			expectedError: "missing metadata",
		},
		{
			name:         "正常系: X-Forwarded-ForがCIDRに含まれる",
			config:       restricted,
			md:           metadata.Pairs("x-api-key", "test-api-key", "x-forwarded-for", "10.1.2.3, 192.168.0.1"),
			expectedCode: codes.OK,
		},
		{
			name:         "正常系: 接続元アドレスがCIDRに含まれる",
			config:       restricted,
			md:           metadata.Pairs("x-api-key", "test-api-key"),
			peerAddr:     &net.TCPAddr{IP: net.ParseIP("10.9.9.9"), Port: 5000},
			expectedCode: codes.OK,
		},
		{
			name:          "異常系: 許可されていないIP",
			config:        restricted,
			md:            metadata.Pairs("x-api-key", "test-api-key", "x-real-ip", "192.168.0.1"),
			expectedCode:  codes.PermissionDenied,
			expectedError: "IP address not allowed",
		},
		{
			name:          "異常系: 前方一致だけのIPは許可しない",
			config:        &config.AdminAPIConfig{Enabled: true, APIKey: "test-api-key", AllowedIPs: []string{"10.0.0.1"}},
			md:            metadata.Pairs("x-api-key", "test-api-key", "x-real-ip", "10.0.0.10"),
			expectedCode:  codes.PermissionDenied,
			expectedError: "IP address not allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interceptor := APIKeyInterceptor(tt.config, otelinfra.NewLogger(noop.NewTracerProvider().Tracer("test")))

			ctx := context.Background()
			if tt.md != nil {
				ctx = metadata.NewIncomingContext(ctx, tt.md)
			}
			if tt.peerAddr != nil {
				ctx = peer.NewContext(ctx, &peer.Peer{Addr: tt.peerAddr})
			}

			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return "success", nil
			}
			info := &grpc.UnaryServerInfo{FullMethod: "/ubi.v1.LedgerService/Audit"}

			resp, err := interceptor(ctx, "test-request", info, handler)

			if tt.expectedCode == codes.OK {
				require.NoError(t, err)
				assert.Equal(t, "success", resp)
				return
			}
			require.Error(t, err)
			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, tt.expectedCode, st.Code())
			assert.Contains(t, st.Message(), tt.expectedError)
		})
	}
}
