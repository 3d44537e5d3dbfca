// Package config loads the application configuration.
//
// Values are layered: built-in defaults, then ~/.detail/config.toml if
// present, then DETAIL_-prefixed environment variables. A .env file in
// the working directory is picked up through godotenv's autoload.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/pelletier/go-toml/v2"
)

// Backend names accepted by the backend setting.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendREST     = "rest"
	BackendMemory   = "memory"
)

// envPrefix namespaces the environment variables read by Load.
const envPrefix = "DETAIL_"

// Config holds every runtime setting of the application.
type Config struct {
	// Backend selects the storage adapter. Empty means auto-detect
	// from the connection settings below.
	Backend string `koanf:"backend" toml:"backend" validate:"omitempty,oneof=sqlite postgres rest memory"`

	// DataDir is where the embedded database lives. Defaults to
	// ~/.detail/data.
	DataDir string `koanf:"data_dir" toml:"data_dir"`

	// PhotosDir is where attached photos are written. Defaults to
	// ~/.detail/photos.
	PhotosDir string `koanf:"photos_dir" toml:"photos_dir"`

	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string `koanf:"database_url" toml:"database_url"`

	// RESTURL and RESTKey point at a PostgREST-compatible table API.
	RESTURL string `koanf:"rest_url" toml:"rest_url" validate:"omitempty,url"`
	RESTKey string `koanf:"rest_key" toml:"rest_key"`

	// RetentionDays deletes entries older than this many days when the
	// purge command or the retention loop runs. Zero disables retention.
	RetentionDays int `koanf:"retention_days" toml:"retention_days" validate:"min=0"`

	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose" toml:"verbose"`
}

// Load builds the configuration from defaults, the optional config
// file, and the environment.
func Load() (*Config, error) {
	cfg := defaults()

	if err := loadFile(cfg); err != nil {
		return nil, err
	}
	if err := loadEnv(cfg); err != nil {
		return nil, err
	}

	cfg.Backend = resolveBackend(cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// defaults returns the built-in configuration.
func defaults() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".detail")

	return &Config{
		DataDir:   filepath.Join(base, "data"),
		PhotosDir: filepath.Join(base, "photos"),
	}
}

// FilePath returns the config file location, ~/.detail/config.toml.
func FilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".detail", "config.toml")
}

// loadFile overlays values from the config file when it exists.
func loadFile(cfg *Config) error {
	data, err := os.ReadFile(FilePath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// loadEnv overlays DETAIL_-prefixed environment variables.
// DETAIL_DATABASE_URL maps onto the database_url key and so on.
func loadEnv(cfg *Config) error {
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return fmt.Errorf("decoding environment: %w", err)
	}
	return nil
}

// resolveBackend picks a storage backend when none is set explicitly:
// postgres if a database URL is configured, rest if the table API is
// configured, otherwise the embedded database.
func resolveBackend(cfg *Config) string {
	if cfg.Backend != "" {
		return cfg.Backend
	}
	if cfg.DatabaseURL != "" {
		return BackendPostgres
	}
	if cfg.RESTURL != "" && cfg.RESTKey != "" {
		return BackendREST
	}
	return BackendSQLite
}
