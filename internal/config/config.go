package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL string // CASEBOARD_DATABASE_URL (required)
	HTTPAddr    string // CASEBOARD_HTTP_ADDR (default ":8080")
	NATSURL     string // CASEBOARD_NATS_URL (optional, empty = no events)
	AuthToken   string // CASEBOARD_AUTH_TOKEN (optional, empty = auth disabled)

	// Snapshot settings
	SnapshotInterval   time.Duration // CASEBOARD_SNAPSHOT_INTERVAL (default 3m; 0 = disabled)
	SnapshotS3Bucket   string        // CASEBOARD_SNAPSHOT_S3_BUCKET (enables S3 when set)
	SnapshotS3Endpoint string        // CASEBOARD_SNAPSHOT_S3_ENDPOINT (custom endpoint for MinIO)
	SnapshotS3Region   string        // CASEBOARD_SNAPSHOT_S3_REGION (default "us-east-1")
	SnapshotS3Key      string        // CASEBOARD_SNAPSHOT_S3_KEY (default "caseboard/cases.jsonl")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:        os.Getenv("CASEBOARD_DATABASE_URL"),
		HTTPAddr:           envOrDefault("CASEBOARD_HTTP_ADDR", ":8080"),
		NATSURL:            os.Getenv("CASEBOARD_NATS_URL"),
		AuthToken:          os.Getenv("CASEBOARD_AUTH_TOKEN"),
		SnapshotS3Bucket:   os.Getenv("CASEBOARD_SNAPSHOT_S3_BUCKET"),
		SnapshotS3Endpoint: os.Getenv("CASEBOARD_SNAPSHOT_S3_ENDPOINT"),
		SnapshotS3Region:   envOrDefault("CASEBOARD_SNAPSHOT_S3_REGION", "us-east-1"),
		SnapshotS3Key:      envOrDefault("CASEBOARD_SNAPSHOT_S3_KEY", "caseboard/cases.jsonl"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("CASEBOARD_DATABASE_URL is required")
	}

	intervalStr := envOrDefault("CASEBOARD_SNAPSHOT_INTERVAL", "3m")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("CASEBOARD_SNAPSHOT_INTERVAL: %w", err)
		}
		c.SnapshotInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
