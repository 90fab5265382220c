package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ubi-server/internal/domain/asset"
	"ubi-server/internal/domain/claim"
)

func TestClaimSettled_Memo(t *testing.T) {
	sym := asset.MustNewSymbol("UBI", 4)

	tests := []struct {
		name  string
		event ClaimSettled
		want  string
	}{
		{
			name: "正常系: 失効なし",
			event: ClaimSettled{
				Claimant:     "alice.jc",
				Quantity:     asset.MustNew(50000, sym),
				NextClaimDay: claim.Day(19782),
			},
			want: "[UBI] +5.0000 UBI (next: 2024-02-29)",
		},
		{
			name: "正常系: 失効あり",
			event: ClaimSettled{
				Claimant:     "alice.jc",
				Quantity:     asset.MustNew(3610000, sym),
				NextClaimDay: claim.Day(19782),
				LostDays:     39,
			},
			want: "[UBI] +361.0000 UBI (next: 2024-02-29) (lost: 39 days of income)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.Memo())
		})
	}
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.EmitClaimSettled(context.Background(), ClaimSettled{Claimant: "a"}))
	assert.Len(t, r.Events, 1)
}
