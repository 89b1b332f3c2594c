package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/modela/identity-gateway/internal/core/domain"
	"github.com/modela/identity-gateway/internal/infrastructure/db/memory"
	"github.com/modela/identity-gateway/internal/pkg/config"
)

func TestNamespace_IsolatesClients(t *testing.T) {
	ctx := context.Background()
	shared := memory.NewStore()
	a := Namespace(shared, "client:a:")
	b := Namespace(shared, "client:b:")

	if err := a.Set(ctx, domain.IdentityRecordKey, "alice"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := b.Get(ctx, domain.IdentityRecordKey); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected b to see nothing, got %v", err)
	}
	if v, err := shared.Get(ctx, "client:a:modela_user"); err != nil || v != "alice" {
		t.Fatalf("expected prefixed key in backing store, got %q, %v", v, err)
	}
	if err := a.Delete(ctx, domain.IdentityRecordKey); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if shared.Len() != 0 {
		t.Fatalf("expected backing store empty")
	}
}

func TestOpen_MemoryAndBolt(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{}
	cfg.Storage.Driver = config.DriverMemory

	store, closeFn, err := Open(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if err := store.Ping(ctx); err != nil {
		t.Fatalf("ping memory: %v", err)
	}
	_ = closeFn(ctx)

	cfg.Storage.Driver = config.DriverBolt
	cfg.Bolt.Path = filepath.Join(t.TempDir(), "modela.db")
	store, closeFn, err = Open(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	defer closeFn(ctx)
	if err := store.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("bolt set: %v", err)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Driver = "etcd"
	if _, _, err := Open(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
