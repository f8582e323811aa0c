package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"storefront/internal/cache"
)

func TestAttemptStore_FailsOpenWithoutRedis(t *testing.T) {
	store := NewAttemptStore(nil, 5, time.Minute)
	ctx := context.Background()

	n, err := store.RecordFailure(ctx, "jane@example.com")
	assert.NoError(t, err)
	assert.Zero(t, n)

	locked, err := store.Locked(ctx, "jane@example.com")
	assert.NoError(t, err)
	assert.False(t, locked)

	assert.NoError(t, store.Reset(ctx, "jane@example.com"))
}

func TestAttemptStore_UnreachableRedis(t *testing.T) {
	c := cache.New("127.0.0.1:1", "", 0)
	t.Cleanup(func() { _ = c.Close() })
	store := NewAttemptStore(c, 1, time.Minute)

	locked, err := store.Locked(context.Background(), "jane@example.com")
	assert.NoError(t, err)
	assert.False(t, locked)
}

func TestAttemptStore_DisabledLimit(t *testing.T) {
	store := NewAttemptStore(nil, 0, time.Minute)
	locked, err := store.Locked(context.Background(), "jane@example.com")
	assert.NoError(t, err)
	assert.False(t, locked)
}

func TestAttemptKey_CaseInsensitive(t *testing.T) {
	assert.Equal(t, attemptKey("Jane@Example.com"), attemptKey("jane@example.com"))
}
