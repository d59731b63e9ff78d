package caching

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUseCache(t *testing.T) {
	local, err := NewCacheLocal()
	require.NoError(t, err)
	ctx := context.Background()

	calls := 0
	callback := func() (int, error) {
		calls++
		return 42, nil
	}

	v, err := UseCache(ctx, local, "answer", time.Minute, callback)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)

	// second read is served from the cache, callback stays untouched
	v, err = UseCache(ctx, local, "answer", time.Minute, callback)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)
}

func TestUseCache_CallbackError(t *testing.T) {
	local, err := NewCacheLocal()
	require.NoError(t, err)
	ctx := context.Background()

	wantErr := assert.AnError
	_, err = UseCache(ctx, local, "broken", time.Minute, func() (string, error) {
		return "", wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	// a failed callback must not poison the key
	v, err := UseCache(ctx, local, "broken", time.Minute, func() (string, error) {
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", v)
}
