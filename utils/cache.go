package utils

import (
	"agenda-backend/config"
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// NewCacheClient connects to REDIS_ADDR. It returns nil, nil when no address
// is configured.
func NewCacheClient(ctx context.Context) (*redis.Client, error) {
	if config.AppConfig.RedisAddr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// CacheTTL is TEMPLATE_CACHE_TTL_SECONDS as a duration.
func CacheTTL() time.Duration {
	secs := config.AppConfig.TemplateCacheTTL
	if secs <= 0 {
		secs = 300
	}
	return time.Duration(secs) * time.Second
}
