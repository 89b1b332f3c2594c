package db

import (
	"context"

	"github.com/modela/identity-gateway/internal/core/ports"
)

type namespaced struct {
	inner  ports.KeyValueStore
	prefix string
}

// Namespace returns a view of store in which every key is prefixed. Each
// browser gets its own view, so the same record key never collides.
func Namespace(store ports.KeyValueStore, prefix string) ports.KeyValueStore {
	return &namespaced{inner: store, prefix: prefix}
}

func (n *namespaced) Get(ctx context.Context, key string) (string, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	return n.inner.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.prefix+key)
}
