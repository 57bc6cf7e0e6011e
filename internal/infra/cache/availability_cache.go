package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"travelid/internal/domain/booking"
	"travelid/internal/pkg/config"
)

const keyPrefix = "avail:"

// listingSegment maps a booking kind to the listing it affects; cache keys
// are namespaced by listing, not by resource kind.
var listingSegment = map[booking.Kind]string{
	booking.KindRoom:     "hotels",
	booking.KindSeat:     "flights",
	booking.KindActivity: "activities",
}

// AvailabilityCache is a read-through cache over listing results. Every
// operation is best effort: a redis failure is logged and the caller falls
// back to the database.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewAvailabilityCache(client *redis.Client, cfg config.RedisConfig, logger *slog.Logger) *AvailabilityCache {
	return &AvailabilityCache{
		client: client,
		ttl:    cfg.CacheTTL,
		logger: logger,
	}
}

func (c *AvailabilityCache) Get(ctx context.Context, key string, dest any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache get failed", "key", key, "error", err.Error())
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warn("cache entry corrupt, dropping", "key", key, "error", err.Error())
		c.client.Del(ctx, key)
		return false
	}
	return true
}

func (c *AvailabilityCache) Set(ctx context.Context, key string, val any) {
	raw, err := json.Marshal(val)
	if err != nil {
		c.logger.Warn("cache marshal failed", "key", key, "error", err.Error())
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", "key", key, "error", err.Error())
	}
}

// Invalidate drops cached listings for the given catalog kinds after a write
// changed occupancy. Keys are grouped per kind so one attach does not flush
// unrelated listings.
func (c *AvailabilityCache) Invalidate(ctx context.Context, kinds ...booking.Kind) {
	for _, kind := range kinds {
		segment, ok := listingSegment[kind]
		if !ok {
			continue
		}
		pattern := fmt.Sprintf("%s%s:*", keyPrefix, segment)
		iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			c.logger.Warn("cache scan failed", "pattern", pattern, "error", err.Error())
			continue
		}
		if len(keys) == 0 {
			continue
		}
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			c.logger.Warn("cache invalidation failed", "pattern", pattern, "error", err.Error())
		}
	}
}

func Connect(cfg config.RedisConfig) (*redis.Client, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}
