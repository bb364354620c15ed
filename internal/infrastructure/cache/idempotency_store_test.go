package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopIdempotencyStore(t *testing.T) {
	var s NoopIdempotencyStore
	for i := 0; i < 2; i++ {
		ok, err := s.Reserve(context.Background(), "c", "k")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.NoError(t, s.Release(context.Background(), "c", "k"))
}

func TestRedisIdempotencyStore_Key(t *testing.T) {
	s := NewRedisIdempotencyStore(nil, "", 0)
	assert.Equal(t, "gestao:idempotency:c1:abc", s.key("c1", "abc"))
	assert.Equal(t, defaultKeyPrefix, s.keyPrefix)
}
