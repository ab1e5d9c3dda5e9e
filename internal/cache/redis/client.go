package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/reviewlens/backend/pkg/circuitbreaker"
	"github.com/reviewlens/backend/pkg/logger"
	"github.com/reviewlens/backend/pkg/retry"
)

var ErrCacheMiss = errors.New("cache miss")

// Client memoizes analysis results keyed by input content hash. All calls go
// through a circuit breaker so a dead Redis degrades to recomputation
// instead of stalling every run.
type Client struct {
	client  *redis.Client
	breaker *circuitbreaker.CircuitBreaker
	ttl     time.Duration
}

func NewClient(host string, port int, password string, db int, ttl time.Duration) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := retry.Do(ctx, retry.Config{MaxAttempts: 3, Logger: logger.Log}, func() error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	breaker := circuitbreaker.NewCircuitBreaker("analysis-cache", circuitbreaker.Config{
		FailureThreshold: 3,
		Timeout:          30 * time.Second,
		Logger:           logger.Log,
	})

	logger.Info("Redis cache initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Client{client: client, breaker: breaker, ttl: ttl}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) GetResult(ctx context.Context, contentHash string, dest interface{}) error {
	// A miss is a successful round trip; only transport errors should count
	// against the breaker.
	miss := false
	err := c.breaker.Execute(ctx, func() error {
		data, err := c.client.Get(ctx, resultKey(contentHash)).Bytes()
		if err == redis.Nil {
			miss = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get cached result: %w", err)
		}
		if err := json.Unmarshal(data, dest); err != nil {
			return fmt.Errorf("failed to unmarshal cached result: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if miss {
		return ErrCacheMiss
	}
	return nil
}

func (c *Client) SetResult(ctx context.Context, contentHash string, result interface{}) error {
	return c.breaker.Execute(ctx, func() error {
		data, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		if err := c.client.Set(ctx, resultKey(contentHash), data, c.ttl).Err(); err != nil {
			return fmt.Errorf("failed to cache result: %w", err)
		}
		return nil
	})
}

func resultKey(contentHash string) string {
	return fmt.Sprintf("analysis:%s", contentHash)
}
