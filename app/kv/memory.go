package kv

import (
	"context"
	"sort"
	"strings"

	"github.com/patrickmn/go-cache"
)

var _ Store = (*Memory)(nil)

// Memory is an in-process backend on top of go-cache with expiration
// disabled. It is the default for tests and for throwaway runs.
type Memory struct {
	c *cache.Cache
}

func NewMemory() *Memory {
	return &Memory{c: cache.New(cache.NoExpiration, 0)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, nil
	}
	return v.([]byte), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	// Copy so later caller-side mutation cannot leak into the store.
	m.c.Set(key, append([]byte(nil), value...), cache.NoExpiration)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

func (m *Memory) Keys(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	for k := range m.c.Items() {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *Memory) Close() error {
	m.c.Flush()
	return nil
}
