package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ViewGate admits the first view of a viewer per job within a window.
type ViewGate interface {
	// Admit returns true when no view for key was admitted within ttl.
	Admit(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// RedisViewGate implements ViewGate with SET NX PX.
type RedisViewGate struct {
	client *redis.Client
	prefix string
}

func NewRedisViewGate(client *redis.Client) *RedisViewGate {
	return &RedisViewGate{client: client, prefix: "jobview:"}
}

// NewRedisViewGateFromURL connects using a redis:// URL.
func NewRedisViewGateFromURL(redisURL string) (*RedisViewGate, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return NewRedisViewGate(redis.NewClient(opt)), nil
}

func (g *RedisViewGate) Admit(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.prefix+key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set view gate: %w", err)
	}
	return ok, nil
}

func (g *RedisViewGate) Close() error {
	return g.client.Close()
}

func viewGateKey(jobID, viewer string) string {
	return jobID + ":" + viewer
}
