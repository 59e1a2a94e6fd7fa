// Package config resolves CLI settings from flags, ROLLFORWARD_* environment
// variables and an optional YAML config file, in that order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/roach88/rollforward/internal/client"
)

// EnvPrefix prefixes environment overrides, e.g. ROLLFORWARD_API_URL.
const EnvPrefix = "ROLLFORWARD"

// Keys, shared with the flag names.
const (
	KeyModel       = "model"
	KeyFormat      = "format"
	KeyVerbose     = "verbose"
	KeyAPIURL      = "api-url"
	KeyDB          = "db"
	KeyMetricsFile = "metrics-file"
	KeyRetries     = "retries"
	KeyTimeout     = "timeout"
)

// Config is the resolved configuration.
type Config struct {
	Model       string        `mapstructure:"model"`
	Format      string        `mapstructure:"format"`
	Verbose     bool          `mapstructure:"verbose"`
	APIURL      string        `mapstructure:"api-url"`
	DB          string        `mapstructure:"db"`
	MetricsFile string        `mapstructure:"metrics-file"`
	Retries     uint          `mapstructure:"retries"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		Model:   "model.json",
		Format:  "text",
		APIURL:  client.DefaultBaseURL,
		Retries: 1,
		Timeout: 60 * time.Second,
	}
}

// UsesLocalStore reports whether models are kept in a local SQLite file
// instead of the remote service.
func (c Config) UsesLocalStore() bool {
	return c.DB != ""
}

// Load merges defaults, the config file (when configFile is non-empty),
// environment variables and any flags set in flags.
func Load(flags *pflag.FlagSet, configFile string) (Config, error) {
	v := viper.New()

	d := Defaults()
	v.SetDefault(KeyModel, d.Model)
	v.SetDefault(KeyFormat, d.Format)
	v.SetDefault(KeyVerbose, d.Verbose)
	v.SetDefault(KeyAPIURL, d.APIURL)
	v.SetDefault(KeyDB, d.DB)
	v.SetDefault(KeyMetricsFile, d.MetricsFile)
	v.SetDefault(KeyRetries, d.Retries)
	v.SetDefault(KeyTimeout, d.Timeout)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Format != "text" && cfg.Format != "json" {
		return Config{}, fmt.Errorf("invalid format %q: must be one of [text json]", cfg.Format)
	}
	return cfg, nil
}
