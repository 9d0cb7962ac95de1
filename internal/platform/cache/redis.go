// Package cache builds the Redis client that backs login sessions.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options selects the Redis endpoint. URL, when set, takes precedence over
// the discrete fields.
type Options struct {
	URL      string
	Addr     string
	Password string
	DB       int
}

func (o Options) redisOptions() (*redis.Options, error) {
	if url := strings.TrimSpace(o.URL); url != "" {
		opts, err := redis.ParseURL(url)
		if err != nil {
			return nil, fmt.Errorf("platform/cache: parse url: %w", err)
		}
		return opts, nil
	}
	if o.Addr == "" {
		return nil, fmt.Errorf("platform/cache: address required")
	}
	return &redis.Options{Addr: o.Addr, Password: o.Password, DB: o.DB}, nil
}

// New creates a Redis client and verifies connectivity within five seconds.
func New(ctx context.Context, o Options) (*redis.Client, error) {
	opts, err := o.redisOptions()
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("platform/cache: ping %s: %w", opts.Addr, err)
	}
	return client, nil
}
