// Package config loads the application configuration from YAML with viper,
// applying defaults and environment overrides, and owns logger setup.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Source     SourceConfig     `mapstructure:"source"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Advanced   AdvancedConfig   `mapstructure:"advanced"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// SourceConfig configures the upstream site and the fetch client.
type SourceConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	UserAgent         string        `mapstructure:"user_agent"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxRetries        int           `mapstructure:"max_retries"`
	RetryBaseDelay    time.Duration `mapstructure:"retry_base_delay"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

// CacheConfig bounds the extraction cache and sets per-endpoint TTLs.
type CacheConfig struct {
	MaxEntries  int           `mapstructure:"max_entries"`
	HomeTTL     time.Duration `mapstructure:"home_ttl"`
	InfoTTL     time.Duration `mapstructure:"info_ttl"`
	EpisodesTTL time.Duration `mapstructure:"episodes_ttl"`
	StreamTTL   time.Duration `mapstructure:"stream_ttl"`
	BrowseTTL   time.Duration `mapstructure:"browse_ttl"`
}

// ExtractionConfig tunes the extraction core.
type ExtractionConfig struct {
	HomeDeadline      time.Duration `mapstructure:"home_deadline"`
	PreferredLanguage string        `mapstructure:"preferred_language"`
}

// LoggingConfig configures slog output and rotation.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
	Color      bool   `mapstructure:"color"`
}

// AdvancedConfig holds debugging knobs.
type AdvancedConfig struct {
	Debug bool `mapstructure:"debug"`
}

// Load reads configuration from path (or the default locations when path is
// empty) and returns it together with the viper instance so the caller can
// watch for changes.
func Load(path string) (*Config, *viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(GetConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("FILMVEER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file is fine; defaults and env cover everything.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)

	v.SetDefault("source.base_url", "https://desicinemas.tv")
	v.SetDefault("source.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122 Safari/537.36")
	v.SetDefault("source.timeout", 30*time.Second)
	v.SetDefault("source.max_retries", 3)
	v.SetDefault("source.retry_base_delay", 500*time.Millisecond)
	v.SetDefault("source.requests_per_second", 4.0)

	v.SetDefault("cache.max_entries", 256)
	v.SetDefault("cache.home_ttl", 10*time.Minute)
	v.SetDefault("cache.info_ttl", 30*time.Minute)
	v.SetDefault("cache.episodes_ttl", 15*time.Minute)
	v.SetDefault("cache.stream_ttl", 5*time.Minute)
	v.SetDefault("cache.browse_ttl", 10*time.Minute)

	v.SetDefault("extraction.home_deadline", 20*time.Second)
	v.SetDefault("extraction.preferred_language", "hindi")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", true)
	v.SetDefault("logging.color", true)
}

// SaveDefaultConfig writes a config file populated with the defaults.
func SaveDefaultConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// GetConfigDir returns the per-user configuration directory.
func GetConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "filmveer")
	}
	return "."
}

// InitializeDirs creates the config and state directories.
func InitializeDirs() error {
	for _, dir := range []string{GetConfigDir(), filepath.Join(getStateDir(), "filmveer")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// getStateDir returns the per-user state directory used for logs.
func getStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state")
	}
	return "."
}
