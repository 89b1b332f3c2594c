package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage drivers for the identity record store.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverMongo  = "mongo"
	DriverBolt   = "bolt"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Session SessionConfig
	Audit   AuditConfig
	Storage StorageConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Bolt    BoltConfig
}

type SessionConfig struct {
	TTL            time.Duration `env:"SESSION_TTL,     default=168h"`
	BackendLatency time.Duration `env:"BACKEND_LATENCY, default=500ms"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
	Buffer  int `env:"AUDIT_BUFFER,  default=256"`
}

type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER, default=memory"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=modela"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type BoltConfig struct {
	Path string `env:"BOLT_PATH, default=modela.db"`
}

// IsDevelopment reports whether the service runs in local development.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// SecureCookies reports whether cookies must carry the Secure attribute.
// Only development runs over plain HTTP.
func (c *Config) SecureCookies() bool {
	return !c.IsDevelopment()
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadWith reads configuration through the given lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}

	switch cfg.Storage.Driver {
	case DriverMemory, DriverRedis, DriverMongo, DriverBolt:
	default:
		return nil, fmt.Errorf("config: unknown storage driver %q", cfg.Storage.Driver)
	}
	return &cfg, nil
}
