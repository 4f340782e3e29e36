// Copyright (c) 2026 Lumina. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (storage, blob) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Storage mode selectors. The mode picks the primary tier of the key-value
// fallback chain; lower tiers always sit behind it.
const (
	StorageModeRedis  = "redis"
	StorageModeFile   = "file"
	StorageModeMemory = "memory"
)

// # Configuration Schema

// Config holds all runtime configuration for the Lumina API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// StorageMode selects the primary key-value backend: redis | file | memory.
	StorageMode string `env:"STORAGE_MODE" envDefault:"file"`

	// DataDir is where the file storage backend keeps its JSON documents.
	DataDir string `env:"DATA_DIR" envDefault:"./data"`

	// UploadsDir is where the local blob store keeps uploaded image files.
	UploadsDir string `env:"UPLOADS_DIR" envDefault:"./uploads"`

	// Key-Value store (Redis), required only when STORAGE_MODE=redis.
	RedisURL string `env:"REDIS_URL"`

	// Object Storage (Cloudflare R2 / S3-compatible). When S3Bucket is set the
	// blob store runs in serverless mode; otherwise images live on local disk.
	S3Bucket        string `env:"S3_BUCKET"`
	S3Region        string `env:"S3_REGION"   envDefault:"auto"`
	S3Endpoint      string `env:"S3_ENDPOINT"`
	S3AccessKey     string `env:"S3_ACCESS_KEY"`
	S3SecretKey     string `env:"S3_SECRET_KEY"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`

	// Admin panel credentials. The password is stored as a bcrypt hash.
	AdminUsername     string `env:"ADMIN_USERNAME"      envDefault:"admin"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH,required"`

	// SessionSecret signs the admin session token (HS256).
	SessionSecret string `env:"SESSION_SECRET,required"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	// Validate the storage mode early so misconfiguration fails at startup.
	switch cfg.StorageMode {
	case StorageModeRedis, StorageModeFile, StorageModeMemory:
	default:
		return nil, fmt.Errorf("config: unknown STORAGE_MODE %q", cfg.StorageMode)
	}

	if cfg.StorageMode == StorageModeRedis && cfg.RedisURL == "" {
		return nil, fmt.Errorf("config: STORAGE_MODE=redis requires REDIS_URL")
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsServerless reports whether image blobs live in S3-compatible object
// storage rather than on local disk.
func (c *Config) IsServerless() bool {
	return c.S3Bucket != ""
}

// AllowedExtraOrigins returns the additional CORS origins configured via
// EXTRA_ORIGINS (comma-separated).
func (c *Config) AllowedExtraOrigins() []string {
	if c.ExtraOrigins == "" {
		return nil
	}

	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
