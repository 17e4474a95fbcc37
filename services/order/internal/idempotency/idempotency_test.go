package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_FirstValueWinsUntilExpiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(time.Hour)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	v, err := m.Lookup(ctx, "k1")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, m.Remember(ctx, "k1", "order-a"))
	require.NoError(t, m.Remember(ctx, "k1", "order-b"))

	v, err = m.Lookup(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "order-a", v)

	now = now.Add(2 * time.Hour)
	v, err = m.Lookup(ctx, "k1")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, m.Remember(ctx, "k1", "order-c"))
	v, _ = m.Lookup(ctx, "k1")
	assert.Equal(t, "order-c", v)
}

func TestRedis_ErrorsSurface(t *testing.T) {
	t.Parallel()

	r := NewRedis("127.0.0.1:1", "", 0)
	t.Cleanup(func() { _ = r.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := r.Lookup(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, r.Remember(ctx, "k", "v"))
	assert.Equal(t, "idempotent-key:k", redisKey("k"))
}
