package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memCache) Delete(ctx context.Context, keys ...string) error { return nil }

func (m *memCache) DeletePrefix(ctx context.Context, prefix string) error { return nil }

func TestKey(t *testing.T) {
	assert.Equal(t, "services:slug:web-design", Key("services", "slug", "web-design"))
}

func TestJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := &memCache{data: map[string][]byte{}}

	SetJSON(ctx, c, "k", map[string]int{"total": 3}, time.Minute)

	var got map[string]int
	assert.True(t, GetJSON(ctx, c, "k", &got))
	assert.Equal(t, 3, got["total"])
	assert.False(t, GetJSON(ctx, c, "missing", &got))
}

func TestNoopNeverHits(t *testing.T) {
	ctx := context.Background()
	c := NewNoop()
	SetJSON(ctx, c, "k", "v", time.Minute)
	var got string
	assert.False(t, GetJSON(ctx, c, "k", &got))
	assert.False(t, GetJSON(ctx, nil, "k", &got))
}
