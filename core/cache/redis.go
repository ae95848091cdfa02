package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/SujalTripathi/slotswapper/core/constants"
	"github.com/SujalTripathi/slotswapper/core/logger"

	"github.com/redis/go-redis/v9"
)

type ICache interface {
	BlacklistToken(ctx context.Context, token string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
}

type Cache struct {
	client *redis.Client
}

type CacheConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func InitCache(config CacheConfig) (*Cache, error) {
	logger.Info("Initializing redis cache...")

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to ping redis", "error", err)
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	c := &Cache{client: client}
	logger.Info("Redis cache initialized successfully", "host", config.Host, "port", config.Port)
	return c, nil
}

// BlacklistToken marks a token as revoked until its natural expiry
func (c *Cache) BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // token already expired, nothing to do
	}
	key := constants.RedisKeyTokenBlacklist + token
	if err := c.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		logger.Error("Cache:BlacklistToken", err)
		return err
	}
	return nil
}

func (c *Cache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	key := constants.RedisKeyTokenBlacklist + token
	_, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Error("Cache:IsTokenBlacklisted", err)
		return false, err
	}
	return true, nil
}
