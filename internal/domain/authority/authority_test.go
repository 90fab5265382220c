package authority

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasAuth(t *testing.T) {
	ctx := WithAuthorizations(context.Background(), "alice", "", "bob")

	assert.True(t, HasAuth(ctx, "alice"))
	assert.True(t, HasAuth(ctx, "bob"))
	assert.False(t, HasAuth(ctx, "carol"))
	assert.False(t, HasAuth(ctx, ""))
	assert.ElementsMatch(t, []string{"alice", "bob"}, FromContext(ctx).Accounts())

	assert.False(t, HasAuth(context.Background(), "alice"))
}
