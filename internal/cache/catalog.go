package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MichelSalibaa/ZiadSupplies/internal/domain"
	"github.com/redis/go-redis/v9"
)

// CatalogCache keeps a short-lived snapshot of the catalog so the API does
// not hit postgres on every page load.
type CatalogCache interface {
	Get(ctx context.Context) (*domain.Catalog, error)
	Set(ctx context.Context, catalog *domain.Catalog) error
	Invalidate(ctx context.Context) error
}

type redisCatalogCache struct {
	redisClient *redis.Client
	key         string
	ttl         time.Duration
}

func NewRedisCatalogCache(redisClient *redis.Client, ttl time.Duration) CatalogCache {
	return &redisCatalogCache{
		redisClient: redisClient,
		key:         "ziad:catalog:snapshot",
		ttl:         ttl,
	}
}

func (c *redisCatalogCache) Get(ctx context.Context) (*domain.Catalog, error) {
	val, err := c.redisClient.Get(ctx, c.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // No snapshot cached
		}
		return nil, fmt.Errorf("failed to get catalog snapshot: %w", err)
	}

	var catalog domain.Catalog
	if err := json.Unmarshal(val, &catalog); err != nil {
		return nil, fmt.Errorf("failed to decode catalog snapshot: %w", err)
	}

	return &catalog, nil
}

func (c *redisCatalogCache) Set(ctx context.Context, catalog *domain.Catalog) error {
	data, err := json.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("failed to encode catalog snapshot: %w", err)
	}

	if err := c.redisClient.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store catalog snapshot: %w", err)
	}
	return nil
}

func (c *redisCatalogCache) Invalidate(ctx context.Context) error {
	if err := c.redisClient.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate catalog snapshot: %w", err)
	}
	return nil
}
