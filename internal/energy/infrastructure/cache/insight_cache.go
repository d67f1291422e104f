// Package cache provides a Redis-backed read-through cache for insight
// reports. The cache is strictly optional; every failure degrades to a miss.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"github.com/felixgeelhaar/monkmode/internal/energy/application/services"
)

// InsightCache caches computed insight reports in Redis behind a circuit
// breaker, so a struggling Redis cannot slow the insight path down.
type InsightCache struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker[string]
	ttl     time.Duration
	logger  *slog.Logger
}

// NewInsightCache connects to Redis. The URL follows the
// redis://[user:pass@]host:port/db convention.
func NewInsightCache(url string, ttl time.Duration, logger *slog.Logger) (*InsightCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "insight-cache",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &InsightCache{client: client, breaker: breaker, ttl: ttl, logger: logger}, nil
}

func (c *InsightCache) Get(ctx context.Context, userID uuid.UUID, daysBack int) (*services.EnergyInsights, bool) {
	payload, err := c.breaker.Execute(func() (string, error) {
		return c.client.Get(ctx, c.key(userID, daysBack)).Result()
	})
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.WarnContext(ctx, "insight cache read failed",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		return nil, false
	}

	var insights services.EnergyInsights
	if err := json.Unmarshal([]byte(payload), &insights); err != nil {
		c.logger.WarnContext(ctx, "insight cache entry corrupt, discarding",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		return nil, false
	}
	return &insights, true
}

func (c *InsightCache) Set(ctx context.Context, userID uuid.UUID, daysBack int, insights *services.EnergyInsights) {
	payload, err := json.Marshal(insights)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to marshal insights for cache",
			slog.String("error", err.Error()))
		return
	}

	_, err = c.breaker.Execute(func() (string, error) {
		return "", c.client.Set(ctx, c.key(userID, daysBack), payload, c.ttl).Err()
	})
	if err != nil {
		c.logger.WarnContext(ctx, "insight cache write failed",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
	}
}

func (c *InsightCache) Close() error { return c.client.Close() }

func (c *InsightCache) key(userID uuid.UUID, daysBack int) string {
	return fmt.Sprintf("monkmode:insights:%s:%d", userID, daysBack)
}
