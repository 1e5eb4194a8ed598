package services

import (
	"context"
	"encoding/json"
	"time"

	"agenda-backend/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TemplateCache holds availability templates keyed by provider. Misses and
// failures fall through to the database.
type TemplateCache interface {
	Get(ctx context.Context, providerID uuid.UUID) (*models.AvailabilityTemplate, bool)
	Set(ctx context.Context, tpl *models.AvailabilityTemplate)
	Invalidate(ctx context.Context, providerID uuid.UUID)
}

type RedisTemplateCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTemplateCache(client *redis.Client, ttl time.Duration) *RedisTemplateCache {
	return &RedisTemplateCache{client: client, ttl: ttl}
}

func templateKey(providerID uuid.UUID) string {
	return "agenda:template:" + providerID.String()
}

func (c *RedisTemplateCache) Get(ctx context.Context, providerID uuid.UUID) (*models.AvailabilityTemplate, bool) {
	raw, err := c.client.Get(ctx, templateKey(providerID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			zap.L().Debug("template cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var tpl models.AvailabilityTemplate
	if err := json.Unmarshal(raw, &tpl); err != nil {
		return nil, false
	}
	return &tpl, true
}

func (c *RedisTemplateCache) Set(ctx context.Context, tpl *models.AvailabilityTemplate) {
	raw, err := json.Marshal(tpl)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, templateKey(tpl.ProviderID), raw, c.ttl).Err(); err != nil {
		zap.L().Debug("template cache write failed", zap.Error(err))
	}
}

func (c *RedisTemplateCache) Invalidate(ctx context.Context, providerID uuid.UUID) {
	if err := c.client.Del(ctx, templateKey(providerID)).Err(); err != nil {
		zap.L().Warn("template cache invalidation failed",
			zap.String("provider_id", providerID.String()), zap.Error(err))
	}
}
