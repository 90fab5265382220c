package openapi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpec(t *testing.T) {
	spec := string(Spec)

	assert.True(t, strings.HasPrefix(spec, "openapi: 3."))
	for _, path := range []string{
		"/api/v1/currencies:",
		"/api/v1/transfers:",
		"/api/v1/accounts/{owner}/balances/{symbol}:",
		"/api/v1/accounts/{owner}/claims/{symbol}:",
		"/admin/tokens:",
	} {
		assert.Contains(t, spec, path)
	}
}
