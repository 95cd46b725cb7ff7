// Package config reads the client's settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/dukerupert/repapp/internal/api"
	"github.com/dukerupert/repapp/internal/receipt"
)

type Config struct {
	APIURL      string
	DBPath      string
	LogLevel    string
	StoreSecret string
	LinkPrefix  string
	JoinDelay   time.Duration
	MetricsFile string
	Receipts    receipt.Config
}

// Load reads variables from the environment after applying envFiles. A
// missing file is skipped; variables already set are never overridden.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Config{
		APIURL:      getenv("REPAPP_API_URL", api.DefaultBaseURL),
		DBPath:      getenv("REPAPP_DB_PATH", "repapp.db"),
		LogLevel:    getenv("REPAPP_LOG_LEVEL", "info"),
		StoreSecret: os.Getenv("REPAPP_STORE_SECRET"),
		LinkPrefix:  os.Getenv("REPAPP_LINK_PREFIX"),
		JoinDelay:   time.Second,
		MetricsFile: os.Getenv("REPAPP_METRICS_FILE"),
		Receipts: receipt.Config{
			Endpoint:  os.Getenv("REPAPP_S3_ENDPOINT"),
			Bucket:    os.Getenv("REPAPP_S3_BUCKET"),
			Region:    os.Getenv("REPAPP_S3_REGION"),
			AccessKey: os.Getenv("REPAPP_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("REPAPP_S3_SECRET_KEY"),
			PublicURL: os.Getenv("REPAPP_S3_PUBLIC_URL"),
		},
	}

	if v := os.Getenv("REPAPP_JOIN_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("invalid REPAPP_JOIN_DELAY %q", v)
		}
		cfg.JoinDelay = d
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
