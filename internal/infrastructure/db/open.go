// Package db selects and opens the identity record store configured for the
// service.
package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/modela/identity-gateway/internal/core/ports"
	boltstore "github.com/modela/identity-gateway/internal/infrastructure/db/bolt"
	"github.com/modela/identity-gateway/internal/infrastructure/db/memory"
	mongostore "github.com/modela/identity-gateway/internal/infrastructure/db/mongo"
	redisstore "github.com/modela/identity-gateway/internal/infrastructure/db/redis"
	"github.com/modela/identity-gateway/internal/pkg/config"
)

// Store is a record store that can report its own health.
type Store interface {
	ports.KeyValueStore
	ports.Pinger
}

// CloseFunc releases the connections behind a Store.
type CloseFunc func(ctx context.Context) error

// Open connects the driver named by cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Store, CloseFunc, error) {
	log = log.With().Str("driver", cfg.Storage.Driver).Logger()

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		log.Warn().Msg("using in-memory identity store, records are lost on restart")
		return memory.NewStore(), func(context.Context) error { return nil }, nil

	case config.DriverRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
		return redisstore.NewIdentityStore(client, cfg.Session.TTL), func(context.Context) error {
			return client.Close()
		}, nil

	case config.DriverMongo:
		client, database, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		store := mongostore.NewRecordStore(database, cfg.Session.TTL)
		if err := store.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to ensure identity record indexes")
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		return store, client.Disconnect, nil

	case config.DriverBolt:
		store, err := boltstore.Open(cfg.Bolt.Path)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("path", cfg.Bolt.Path).Msg("opened bolt identity store")
		return store, func(context.Context) error { return store.Close() }, nil
	}

	return nil, nil, fmt.Errorf("db: unknown storage driver %q", cfg.Storage.Driver)
}
