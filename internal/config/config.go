// Package config reads rentalcore settings from RENTAL_* environment
// variables, optionally preloaded from a .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"rentalcore/internal/auth"
	"rentalcore/internal/blob"
	"rentalcore/internal/collection"
)

// Environment variable names.
const (
	EnvStorageDriver = "RENTAL_STORAGE_DRIVER"
	EnvSQLitePath    = "RENTAL_SQLITE_PATH"
	EnvPostgresDSN   = "RENTAL_POSTGRES_DSN"
	EnvBlobDriver    = "RENTAL_BLOB_DRIVER"
	EnvBlobFSRoot    = "RENTAL_BLOB_FS_ROOT"
	EnvBlobPrefix    = "RENTAL_BLOB_PREFIX"
	EnvS3Bucket      = "RENTAL_BLOB_S3_BUCKET"
	EnvS3Region      = "RENTAL_BLOB_S3_REGION"
	EnvS3Endpoint    = "RENTAL_BLOB_S3_ENDPOINT"
	EnvS3AccessKey   = "RENTAL_BLOB_S3_ACCESS_KEY_ID"
	EnvS3SecretKey   = "RENTAL_BLOB_S3_SECRET_ACCESS_KEY"
	EnvS3PathStyle   = "RENTAL_BLOB_S3_PATH_STYLE"
	EnvLogLevel      = "RENTAL_LOG_LEVEL"
	EnvLoginBurst    = "RENTAL_LOGIN_BURST"
	EnvLoginRefill   = "RENTAL_LOGIN_REFILL"
	EnvSeed          = "RENTAL_SEED"
)

const defaultSQLitePath = "rental.db"

// Config is the resolved runtime configuration.
type Config struct {
	Storage  collection.BackendConfig
	LogLevel slog.Level
	Throttle auth.ThrottleConfig
	// Seed installs the demo data on an empty store at startup.
	Seed bool
}

// LookupFunc resolves one environment variable.
type LookupFunc func(key string) (string, bool)

// Load reads .env from the working directory when present, then resolves
// the configuration from the process environment. Variables already set in
// the environment win over .env entries.
func Load() (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}
	return FromLookup(os.LookupEnv)
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// FromLookup resolves the configuration through lookup.
func FromLookup(lookup LookupFunc) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := Config{
		Storage: collection.BackendConfig{
			Driver:      collection.StorageDriver(strings.ToLower(get(EnvStorageDriver, string(collection.StorageSQLite)))),
			SQLitePath:  get(EnvSQLitePath, defaultSQLitePath),
			PostgresDSN: get(EnvPostgresDSN, ""),
			BlobPrefix:  get(EnvBlobPrefix, ""),
			Blob: blob.Config{
				Driver: blob.Driver(strings.ToLower(get(EnvBlobDriver, string(blob.DriverFilesystem)))),
				FSRoot: get(EnvBlobFSRoot, ""),
				S3: blob.S3Config{
					Bucket:          get(EnvS3Bucket, ""),
					Region:          get(EnvS3Region, ""),
					Endpoint:        get(EnvS3Endpoint, ""),
					AccessKeyID:     get(EnvS3AccessKey, ""),
					SecretAccessKey: get(EnvS3SecretKey, ""),
				},
			},
		},
		Throttle: auth.DefaultThrottle,
		Seed:     true,
	}

	switch cfg.Storage.Driver {
	case collection.StorageMemory, collection.StorageSQLite, collection.StoragePostgres, collection.StorageBlob:
	default:
		return Config{}, fmt.Errorf("%s: unknown storage driver %q", EnvStorageDriver, cfg.Storage.Driver)
	}

	var err error
	if cfg.Storage.Blob.S3.PathStyle, err = parseBool(EnvS3PathStyle, get(EnvS3PathStyle, "false")); err != nil {
		return Config{}, err
	}
	if cfg.Seed, err = parseBool(EnvSeed, get(EnvSeed, "true")); err != nil {
		return Config{}, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(get(EnvLogLevel, "info"))); err != nil {
		return Config{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
	}
	if v := get(EnvLoginBurst, ""); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil || burst < 0 {
			return Config{}, fmt.Errorf("%s: expected a non-negative integer, got %q", EnvLoginBurst, v)
		}
		cfg.Throttle.Burst = burst
	}
	if v := get(EnvLoginRefill, ""); v != "" {
		refill, err := time.ParseDuration(v)
		if err != nil || refill <= 0 {
			return Config{}, fmt.Errorf("%s: expected a positive duration, got %q", EnvLoginRefill, v)
		}
		cfg.Throttle.Refill = refill
	}
	return cfg, nil
}

func parseBool(key, v string) (bool, error) {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
