package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for all service settings.
const envPrefix = "REPHIND"

// newViper builds a pre-configured Viper instance: YAML file type,
// REPHIND_ env prefix, automatic env binding, and a key replacer so that
// nested keys like "embedding.backend" resolve to
// "REPHIND_EMBEDDING_BACKEND".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	registerKeys(v)
	return v
}

// registerKeys declares every configuration key to viper.  Unmarshal only
// visits keys viper knows about, so without this pass settings supplied
// purely through environment variables would never reach the struct.
func registerKeys(v *viper.Viper) {
	for _, key := range []string{
		"server.port", "server.mode", "server.read_timeout", "server.write_timeout",
		"server.max_body_size", "server.shutdown_timeout",
		"corpus.backend", "corpus.csv_path",
		"database.host", "database.port", "database.user", "database.password",
		"database.db_name", "database.ssl_mode", "database.max_conns",
		"database.min_conns", "database.conn_max_lifetime",
		"embedding.backend", "embedding.model", "embedding.cache_dir",
		"embedding.max_length", "embedding.api_key", "embedding.base_url",
		"index.backend", "index.snapshot_path", "index.chromem_path",
		"search.default_top_k", "search.cache_ttl",
		"summary.api_key", "summary.base_url", "summary.model",
		"summary.max_tokens", "summary.temperature", "summary.timeout_sec",
		"log.level", "log.format", "log.output", "log.enable_caller",
	} {
		v.SetDefault(key, nil)
	}
}

// Load reads the YAML file at configPath, merges REPHIND_* environment
// variable overrides, applies defaults for unset fields, and validates
// the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from REPHIND_* environment
// variables; no config file is required.  This is the loading strategy
// for containerised deployments.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the newly parsed
// Config whenever the file changes on disk.  Changes that fail to parse
// or validate are skipped so a bad edit cannot break a running service.
// Watch is non-blocking; viper manages the background goroutine.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read; errors surface through Load, not here.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad wraps Load and panics on any error.  Intended for main()
// where a config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
