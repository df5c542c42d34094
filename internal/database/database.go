// Package database provides MongoDB connection management.
package database

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Config holds MongoDB connection configuration.
type Config struct {
	URI            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
}

// ConfigFromEnv creates a Config from environment variables.
func ConfigFromEnv() Config {
	connectTimeout, _ := time.ParseDuration(getEnvOrDefault("MONGODB_CONNECT_TIMEOUT", "10s"))
	maxPool, _ := strconv.ParseUint(getEnvOrDefault("MONGODB_MAX_POOL_SIZE", "100"), 10, 64)

	return Config{
		URI:            getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		Database:       getEnvOrDefault("MONGODB_DATABASE", "air_quality"),
		Collection:     getEnvOrDefault("MONGODB_COLLECTION", "hourly_data"),
		ConnectTimeout: connectTimeout,
		MaxPoolSize:    maxPool,
	}
}

// Connect creates a MongoDB client and verifies the connection with a
// ping. The returned client is a long-lived shared handle; callers
// disconnect it on shutdown.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return client, nil
}

// ReadingsCollection returns the handle for the hourly readings
// collection configured in cfg.
func ReadingsCollection(client *mongo.Client, cfg Config) *mongo.Collection {
	return client.Database(cfg.Database).Collection(cfg.Collection)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
