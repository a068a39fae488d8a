package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetSetRemove(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Get(ctx, "access_token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "access_token", "abc"))
	v, ok, err := m.Get(ctx, "access_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	require.NoError(t, m.Remove(ctx, "access_token"))
	require.NoError(t, m.Remove(ctx, "access_token"))
	_, ok, _ = m.Get(ctx, "access_token")
	assert.False(t, ok)
}
