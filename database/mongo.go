package database

import (
	"context"
	"fmt"
	"time"

	"learnhub/config"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo opens the client-log database when MONGO_URI is set. It
// returns nil, nil when Mongo is not configured.
func ConnectMongo(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*mongo.Database, error) {
	if cfg.MongoURI == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(50).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	log.WithField("database", cfg.MongoDatabase).Info("Connected to MongoDB")
	return client.Database(cfg.MongoDatabase), nil
}
