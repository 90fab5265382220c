package claim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindow_Advance(t *testing.T) {
	tests := []struct {
		name     string
		day      Day
		wantErr  error
		wantLast Day
	}{
		{"正常系: 前進", 110, nil, 110},
		{"正常系: 同日", 105, nil, 105},
		{"異常系: 後退", 104, ErrNonMonotonic, 105},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWindow("alice.jc", "UBI", 105)
			err := w.Advance(tt.day)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantLast, w.LastClaimDay())
			assert.Equal(t, tt.wantLast+1, w.NextClaimDay())
		})
	}

	t.Run("異常系: 連続した前進の後に後退しても最終請求日は変わらない", func(t *testing.T) {
		w := NewWindow("alice.jc", "UBI", 100)
		require.NoError(t, w.Advance(105))
		require.NoError(t, w.Advance(105))

		assert.ErrorIs(t, w.Advance(104), ErrNonMonotonic)
		assert.Equal(t, Day(105), w.LastClaimDay())
		assert.Equal(t, Day(106), w.NextClaimDay())
	})
}

func TestWindow_SettledThrough(t *testing.T) {
	w := NewWindow("alice.jc", "UBI", 105)
	assert.Equal(t, "alice.jc", w.Owner())
	assert.Equal(t, "UBI", w.SymbolCode())
	assert.True(t, w.SettledThrough(104))
	assert.True(t, w.SettledThrough(105))
	assert.False(t, w.SettledThrough(106))
}
