package redis

import (
	"context"
	"time"

	"travel-journal/config"
	"travel-journal/internal/global/sentry/tracing"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Client 未配置 redis 时为 nil
var Client *redis.Client

func Init(ctx context.Context) error {
	c := config.Get().Redis
	if c.Host == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     c.Host + ":" + c.Port,
		Password: c.Password,
		DB:       c.DB,
	})
	if tracing.IsEnabled() {
		client.AddHook(tracing.NewRedisSentryHook())
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return errors.Wrap(err, "ping redis")
	}
	Client = client
	return nil
}

func Close() error {
	if Client == nil {
		return nil
	}
	return Client.Close()
}
