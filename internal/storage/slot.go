// Package storage provides string-keyed, string-valued durable slots used to
// persist the selection set between sessions.
package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Slot is a synchronous key/value store. Get returns routinetypes.ErrSlotNotFound
// for a key that was never written.
type Slot interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Driver names a Slot implementation.
type Driver string

// Supported drivers.
const (
	DriverMemory   Driver = "memory"
	DriverFile     Driver = "file"
	DriverSQLite   Driver = "sqlite"
	DriverRedis    Driver = "redis"
	DriverPostgres Driver = "postgres"
)

// Option configures NewSlot.
type Option func(*slotConfig)

type slotConfig struct {
	path        string
	redisClient *redis.Client
	redisAddr   string
	redisPrefix string
	postgresDSN string
}

// WithPath sets the file path for the file and sqlite drivers.
func WithPath(path string) Option {
	return func(c *slotConfig) { c.path = path }
}

// WithRedisClient sets an existing client for the redis driver.
func WithRedisClient(client *redis.Client) Option {
	return func(c *slotConfig) { c.redisClient = client }
}

// WithRedisAddr sets the address used to dial redis when no client is given.
func WithRedisAddr(addr string) Option {
	return func(c *slotConfig) { c.redisAddr = addr }
}

// WithRedisPrefix sets the key prefix for the redis driver (default "routineshell:").
func WithRedisPrefix(prefix string) Option {
	return func(c *slotConfig) { c.redisPrefix = prefix }
}

// WithPostgresDSN sets the connection string for the postgres driver.
func WithPostgresDSN(dsn string) Option {
	return func(c *slotConfig) { c.postgresDSN = dsn }
}

// NewSlot creates a Slot for the given driver.
func NewSlot(ctx context.Context, driver Driver, opts ...Option) (Slot, error) {
	cfg := &slotConfig{redisPrefix: "routineshell:"}
	for _, opt := range opts {
		opt(cfg)
	}

	switch driver {
	case DriverMemory:
		return NewMemorySlot(), nil

	case DriverFile:
		if cfg.path == "" {
			return nil, fmt.Errorf("%w: file driver requires a path", ErrInvalidConfig)
		}
		return NewFileSlot(cfg.path), nil

	case DriverSQLite:
		if cfg.path == "" {
			return nil, fmt.Errorf("%w: sqlite driver requires a path", ErrInvalidConfig)
		}
		return OpenSQLiteSlot(ctx, cfg.path)

	case DriverRedis:
		client := cfg.redisClient
		if client == nil {
			if cfg.redisAddr == "" {
				return nil, fmt.Errorf("%w: redis driver requires a client or address", ErrInvalidConfig)
			}
			client = redis.NewClient(&redis.Options{Addr: cfg.redisAddr})
		}
		return NewRedisSlot(client, cfg.redisPrefix), nil

	case DriverPostgres:
		if cfg.postgresDSN == "" {
			return nil, fmt.Errorf("%w: postgres driver requires a DSN", ErrInvalidConfig)
		}
		return OpenPostgresSlot(ctx, cfg.postgresDSN)

	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidDriver, driver)
	}
}
