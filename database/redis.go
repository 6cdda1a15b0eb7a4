package database

import (
	"context"
	"time"

	"learnhub/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// InitRedis returns a client when REDIS_ADDR is set and reachable, nil otherwise
func InitRedis(cfg *config.Config, log *logrus.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("Failed to connect to Redis. Token blacklist cache disabled.")
		_ = client.Close()
		return nil
	}

	log.Info("Connected to Redis successfully")
	return client
}
