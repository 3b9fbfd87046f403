package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Gateway   Gateway   `mapstructure:"gateway"`
	Journal   Journal   `mapstructure:"journal"`
	Logger    Logger    `mapstructure:"logger"`
	Server    Server    `mapstructure:"server"`
	Database  Database  `mapstructure:"database"`
	BlobStore BlobStore `mapstructure:"blobstore"`
}

// Gateway holds the configuration for the remote trade blob store.
type Gateway struct {
	BaseURL        string  `mapstructure:"base_url"`
	Token          string  `mapstructure:"token"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	MaxRetries     int     `mapstructure:"max_retries"`
}

// Timeout returns the per-request timeout.
func (g Gateway) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// Journal holds the configuration for the journal session.
type Journal struct {
	Namespace          string `mapstructure:"namespace"`
	SyncTimeoutSeconds int    `mapstructure:"sync_timeout_seconds"`
}

// SyncTimeout bounds a single background sync.
func (j Journal) SyncTimeout() time.Duration {
	return time.Duration(j.SyncTimeoutSeconds) * time.Second
}

// Server holds the configuration for the dashboard web server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the local cache database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// BlobStore holds the configuration for the reference blob store server.
type BlobStore struct {
	Port      int    `mapstructure:"port"`
	PublicURL string `mapstructure:"public_url"`
	DSN       string `mapstructure:"dsn"`
	Token     string `mapstructure:"token"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
// A missing config file is not an error; defaults and environment apply.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config") // name of config file (without extension)
	v.SetConfigType("yml")

	// Allow environment variables to override config file
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// The blob store token conventionally lives in its own variable.
	if err = v.BindEnv("gateway.token", "GATEWAY_TOKEN", "BLOB_READ_WRITE_TOKEN"); err != nil {
		return
	}
	if err = v.BindEnv("blobstore.token", "BLOBSTORE_TOKEN", "BLOB_READ_WRITE_TOKEN"); err != nil {
		return
	}

	setDefaults(v)

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("gateway.base_url", "http://localhost:8090")
	v.SetDefault("gateway.rate_limit", 10) // requests per second
	v.SetDefault("gateway.rate_limit_burst", 5)
	v.SetDefault("gateway.timeout_seconds", 10)
	v.SetDefault("gateway.max_retries", 3)

	v.SetDefault("journal.namespace", "trading-journal")
	v.SetDefault("journal.sync_timeout_seconds", 15)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")

	v.SetDefault("server.port", 8080)
	v.SetDefault("database.dsn", "journal.db")

	v.SetDefault("blobstore.port", 8090)
	v.SetDefault("blobstore.public_url", "http://localhost:8090")
	v.SetDefault("blobstore.dsn", "blobstore.db")
}
