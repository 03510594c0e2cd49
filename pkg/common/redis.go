package common

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meridiandb/meridian/pkg/types"
)

// RedisClient wraps a universal redis client so repositories share one
// connection pool regardless of single/cluster mode.
type RedisClient struct {
	redis.UniversalClient
}

type redisClientOption func(*redis.UniversalOptions)

// WithClientName labels connections for server-side introspection.
func WithClientName(name string) redisClientOption {
	return func(o *redis.UniversalOptions) {
		o.ClientName = name
	}
}

// NewRedisClient connects and pings the configured redis deployment.
func NewRedisClient(cfg types.RedisConfig, opts ...redisClientOption) (*RedisClient, error) {
	options := &redis.UniversalOptions{
		Addrs:       cfg.Addrs,
		Password:    cfg.Password,
		DialTimeout: cfg.DialTimeout,
	}
	if options.DialTimeout == 0 {
		options.DialTimeout = 5 * time.Second
	}
	if cfg.InsecureSkipVerify {
		options.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	for _, opt := range opts {
		opt(options)
	}

	var client redis.UniversalClient
	if cfg.Mode == types.RedisModeCluster {
		client = redis.NewClusterClient(options.Cluster())
	} else {
		client = redis.NewClient(options.Simple())
	}

	ctx, cancel := context.WithTimeout(context.Background(), options.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{UniversalClient: client}, nil
}
