package transaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransactionType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TransactionType
		wantErr bool
	}{
		{name: "正常系: create", input: "create", want: TransactionTypeCreate},
		{name: "正常系: issue", input: "issue", want: TransactionTypeIssue},
		{name: "正常系: retire", input: "retire", want: TransactionTypeRetire},
		{name: "正常系: transfer", input: "transfer", want: TransactionTypeTransfer},
		{name: "正常系: claim", input: "claim", want: TransactionTypeClaim},
		{name: "正常系: open", input: "open", want: TransactionTypeOpen},
		{name: "正常系: close", input: "close", want: TransactionTypeClose},
		{name: "異常系: 無効な値", input: "grant", wantErr: true},
		{name: "異常系: 空文字列", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTransactionType(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				assert.Equal(t, tt.input, got.String())
			}
		})
	}
}
