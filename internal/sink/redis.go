package sink

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rzpsarthak13/rowgate/internal/core"
	"github.com/rzpsarthak13/rowgate/internal/registry"
)

// RedisSink implements core.Sink using Redis.
// Each Put stores the value with SET and appends the key to the table index
// list "<namespace:>table:index" with RPUSH, in a single pipeline.
type RedisSink struct {
	mu        sync.RWMutex
	client    redis.UniversalClient
	namespace string
	ttl       time.Duration
	closed    bool
}

// RedisOptions holds connection settings for a RedisSink.
type RedisOptions struct {
	Endpoints    []string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewRedisSink connects to Redis and checks the connection with a ping.
func NewRedisSink(opts RedisOptions, namespace string, ttl time.Duration) (*RedisSink, error) {
	if len(opts.Endpoints) == 0 {
		return nil, fmt.Errorf("at least one endpoint is required")
	}

	// Only single-node Redis is supported
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Endpoints[0],
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	})

	// Test connection
	dialTimeout := opts.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisSinkFromClient(client, namespace, ttl), nil
}

// NewRedisSinkFromClient wraps an existing client.
func NewRedisSinkFromClient(client redis.UniversalClient, namespace string, ttl time.Duration) *RedisSink {
	return &RedisSink{
		client:    client,
		namespace: namespace,
		ttl:       ttl,
	}
}

// IndexKey returns the name of the list holding the exported keys of table.
func (r *RedisSink) IndexKey(table string) string {
	if r.namespace != "" {
		return r.namespace + ":" + table + ":index"
	}
	return table + ":index"
}

// Put stores a key-value pair with the configured TTL and indexes the key.
func (r *RedisSink) Put(ctx context.Context, table string, key string, value []byte) error {
	if err := checkEntry(key, value); err != nil {
		return err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return ErrSinkClosed
	}

	log.Printf("[REDIS] SET operation - Key: %s, Value Size: %d bytes, TTL: %v", key, len(value), r.ttl)

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, value, r.ttl)
	pipe.RPush(ctx, r.IndexKey(table), key)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[REDIS] ERROR: Failed to set key %s: %v", key, err)
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Close closes the connection to Redis.
func (r *RedisSink) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.client.Close()
}

// RedisSinkFactory implements the SinkFactory interface for Redis.
type RedisSinkFactory struct{}

// Type returns the type identifier for this factory.
func (f *RedisSinkFactory) Type() string {
	return "redis"
}

// Validate validates the Redis-specific configuration.
func (f *RedisSinkFactory) Validate(config registry.InternalExportConfig) error {
	if config.SinkType != "redis" {
		return fmt.Errorf("invalid type for Redis factory: %s", config.SinkType)
	}
	redisConfig := config.Redis
	if len(redisConfig.Endpoints) == 0 {
		return fmt.Errorf("at least one endpoint is required for Redis")
	}
	if redisConfig.DB < 0 || redisConfig.DB > 15 {
		return fmt.Errorf("Redis DB must be between 0 and 15, got: %d", redisConfig.DB)
	}
	if redisConfig.PoolSize <= 0 {
		return fmt.Errorf("pool_size must be greater than 0, got: %d", redisConfig.PoolSize)
	}
	if redisConfig.MinIdleConns < 0 {
		return fmt.Errorf("min_idle_conns must be non-negative, got: %d", redisConfig.MinIdleConns)
	}
	if redisConfig.DialTimeout <= 0 {
		return fmt.Errorf("dial_timeout must be greater than 0, got: %v", redisConfig.DialTimeout)
	}
	return nil
}

// Create creates a new Redis sink.
func (f *RedisSinkFactory) Create(config registry.InternalExportConfig) (core.Sink, error) {
	redisConfig := config.Redis
	s, err := NewRedisSink(RedisOptions{
		Endpoints:    redisConfig.Endpoints,
		Password:     redisConfig.Password,
		DB:           redisConfig.DB,
		PoolSize:     redisConfig.PoolSize,
		MinIdleConns: redisConfig.MinIdleConns,
		DialTimeout:  redisConfig.DialTimeout,
		ReadTimeout:  redisConfig.ReadTimeout,
		WriteTimeout: redisConfig.WriteTimeout,
	}, config.Namespace, config.TTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis sink: %w", err)
	}
	return s, nil
}

func init() {
	register(&RedisSinkFactory{})
}
