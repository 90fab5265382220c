package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "正常系: 一般的な名前", input: "alice", wantErr: false},
		{name: "正常系: ドット区切り", input: "alice.jc", wantErr: false},
		{name: "正常系: 12文字", input: "abcdefghij12", wantErr: false},
		{name: "異常系: 13文字", input: "abcdefghij123", wantErr: true},
		{name: "異常系: 大文字", input: "Alice", wantErr: true},
		{name: "異常系: 使用不可の数字", input: "alice6", wantErr: true},
		{name: "異常系: 末尾ドット", input: "alice.", wantErr: true},
		{name: "異常系: 空文字列", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAccountName)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewAccount(t *testing.T) {
	a, err := NewAccount("bob.jc")
	require.NoError(t, err)
	assert.Equal(t, "bob.jc", a.Name())
	assert.False(t, a.CreatedAt().IsZero())

	_, err = NewAccount("BOB")
	assert.ErrorIs(t, err, ErrInvalidAccountName)
}
