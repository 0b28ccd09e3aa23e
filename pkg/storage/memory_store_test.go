package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("http://files.local")

	require.NoError(t, store.Put(ctx, "summaries/SUM-1.md", strings.NewReader("# Fall"), 6, "text/markdown"))

	data, err := store.Get(ctx, "summaries/SUM-1.md")
	require.NoError(t, err)
	assert.Equal(t, "# Fall", string(data))

	url, err := store.PresignGet(ctx, "summaries/SUM-1.md", PresignExpiry)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://files.local/summaries/SUM-1.md?expires="))

	require.NoError(t, store.Put(ctx, "users/u1/Mietvertrag 2024.pdf", strings.NewReader("%PDF"), 4, "application/pdf"))
	url, err = store.PresignGet(ctx, "users/u1/Mietvertrag 2024.pdf", PresignExpiry)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://files.local/users/u1/Mietvertrag%202024.pdf?expires="))

	require.NoError(t, store.Delete(ctx, "summaries/SUM-1.md"))
	_, err = store.Get(ctx, "summaries/SUM-1.md")
	assert.ErrorIs(t, err, ErrNotFound)
}
