package eventlog

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ubi-server/internal/domain/asset"
	"ubi-server/internal/domain/claim"
	"ubi-server/internal/domain/event"
	"ubi-server/internal/domain/transaction"
	"ubi-server/internal/infrastructure/persistence/memory"
)

func TestEmitter_EmitClaimSettled(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := memory.NewTransactionRepository(store)

	emitter := NewEmitter(repo)
	ubi := asset.MustNewSymbol("UBI", 4)

	settled := event.ClaimSettled{
		Claimant:     "alice.jc",
		Quantity:     asset.MustNew(3610000, ubi),
		NextClaimDay: claim.Day(401),
		LostDays:     39,
	}
	require.NoError(t, emitter.EmitClaimSettled(ctx, settled))

	txns, err := repo.FindByAccount(ctx, "alice.jc", 10, 0)
	require.NoError(t, err)
	require.Len(t, txns, 1)

	txn := txns[0]
	assert.True(t, strings.HasPrefix(txn.TransactionID(), "txn_"))
	assert.Equal(t, transaction.TransactionTypeClaim, txn.TransactionType())
	assert.Equal(t, "alice.jc", txn.Counterparty())
	assert.Equal(t, int64(3610000), txn.Quantity().Amount())
	assert.Equal(t, settled.Memo(), txn.Memo())
	assert.Contains(t, txn.Memo(), "(lost: 39 days of income)")
}

func TestNewTransactionID(t *testing.T) {
	a, b := NewTransactionID(), NewTransactionID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, len("txn_")+36)
}
