package session

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()

	assert.True(t, strings.HasPrefix(a.String(), "eio-"))
	assert.Len(t, a.String(), len("eio-")+36)
	assert.NotEqual(t, a, b)
	assert.Equal(t, ID("conn:"+a.String()), a.PrefixID("conn:"))
}

func TestContextIDs(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ID(""), ConnectionID(ctx))
	assert.Equal(t, ID(""), ServerID(ctx))

	ctx = WithConnectionID(ctx, "eio-local")
	ctx = WithServerID(ctx, "abc123")
	assert.Equal(t, ID("eio-local"), ConnectionID(ctx))
	assert.Equal(t, ID("abc123"), ServerID(ctx))
}
