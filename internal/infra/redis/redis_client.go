package redis

import (
	"context"

	"github.com/go-redis/redis/v8"

	"interview-prep-subscription/internal/config"
)

type Client struct {
	cli *redis.Client
}

// NewClient connects and pings; a service configured without redis should
// simply not call this (the locker is optional).
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*Client, error) {
	opts := &redis.Options{
		Addr:     cfg.URL,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	c := redis.NewClient(opts)
	if err := c.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Client{cli: c}, nil
}

func (c *Client) Close() error { return c.cli.Close() }
