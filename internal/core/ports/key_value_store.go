package ports

import "context"

// KeyValueStore persists opaque string records by key. Get returns
// domain.ErrRecordNotFound for a missing key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by stores backed by a remote dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}
