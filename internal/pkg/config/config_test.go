package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Port != "8080" || cfg.Env != "development" || cfg.Storage.Driver != DriverMemory {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Session.TTL != 7*24*time.Hour {
		t.Fatalf("expected 7 day session ttl, got %v", cfg.Session.TTL)
	}
	if cfg.Session.BackendLatency != 500*time.Millisecond {
		t.Fatalf("unexpected backend latency %v", cfg.Session.BackendLatency)
	}
	if cfg.SecureCookies() {
		t.Fatalf("development must not require secure cookies")
	}
}

func TestLoadWith_ProductionIsSecure(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":            "production",
		"STORAGE_DRIVER": "redis",
		"REDIS_ADDR":     "cache:6379",
	}))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !cfg.SecureCookies() {
		t.Fatalf("production must require secure cookies")
	}
	if cfg.Redis.Addr != "cache:6379" {
		t.Fatalf("unexpected redis addr %q", cfg.Redis.Addr)
	}
}

func TestLoadWith_UnknownDriver(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{"STORAGE_DRIVER": "etcd"}))
	if err == nil {
		t.Fatalf("expected unknown driver to be rejected")
	}
}
