// Package idempotency remembers which order an Idempotency-Key produced so a
// retried checkout returns the first order instead of placing a second one.
package idempotency

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const DefaultTTL = 24 * time.Hour

type Store interface {
	// Lookup returns the remembered value or "" when the key is unknown.
	Lookup(ctx context.Context, key string) (string, error)
	// Remember stores value under key unless the key is already taken.
	Remember(ctx context.Context, key, value string) error
}

type Redis struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedis(addr, password string, db int) *Redis {
	return &Redis{
		Client: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		TTL:    DefaultTTL,
	}
}

func (r *Redis) Lookup(ctx context.Context, key string) (string, error) {
	val, err := r.Client.Get(ctx, redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func (r *Redis) Remember(ctx context.Context, key, value string) error {
	return r.Client.SetNX(ctx, redisKey(key), value, r.ttl()).Err()
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.Client.Close()
}

func (r *Redis) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return DefaultTTL
}

func redisKey(key string) string {
	return "idempotent-key:" + key
}

// Memory is a process-local Store for single instance setups and tests.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	TTL     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	value   string
	expires time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{entries: map[string]memoryEntry{}, TTL: ttl, now: time.Now}
}

func (m *Memory) Lookup(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return "", nil
	}
	if m.now().After(e.expires) {
		delete(m.entries, key)
		return "", nil
	}
	return e.value, nil
}

func (m *Memory) Remember(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[key]; ok && !m.now().After(e.expires) {
		return nil
	}
	m.entries[key] = memoryEntry{value: value, expires: m.now().Add(m.TTL)}
	return nil
}
