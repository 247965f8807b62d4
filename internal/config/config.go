// Package config defines all configuration structures for the rephind
// service.  No I/O or parsing logic lives here, only plain data types and
// validation.
package config

import (
	"fmt"
	"time"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CorpusConfig selects where patent records are loaded from.
type CorpusConfig struct {
	Backend string `mapstructure:"backend"` // "csv" | "postgres"
	CSVPath string `mapstructure:"csv_path"`
}

// DatabaseConfig holds PostgreSQL connection parameters for the postgres
// corpus backend.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN renders the connection string for pgxpool.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// EmbeddingConfig holds encoder backend parameters.
type EmbeddingConfig struct {
	Backend   string `mapstructure:"backend"` // "fastembed" | "openai"
	Model     string `mapstructure:"model"`
	CacheDir  string `mapstructure:"cache_dir"`
	MaxLength int    `mapstructure:"max_length"`
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
}

// IndexConfig holds similarity-index parameters.
type IndexConfig struct {
	Backend      string `mapstructure:"backend"` // "brute" | "chromem"
	SnapshotPath string `mapstructure:"snapshot_path"`
	ChromemPath  string `mapstructure:"chromem_path"`
}

// SearchConfig holds retrieval tunables.
type SearchConfig struct {
	DefaultTopK int           `mapstructure:"default_top_k"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

// SummaryConfig holds LLM summarization parameters.  An empty APIKey
// selects the static fallback summarizer.
type SummaryConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float32 `mapstructure:"temperature"`
	TimeoutSec  int     `mapstructure:"timeout_sec"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level        string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format       string `mapstructure:"format"` // "json" | "text"
	Output       string `mapstructure:"output"`
	EnableCaller bool   `mapstructure:"enable_caller"`
}

// Config is the root configuration structure for the whole service.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Corpus    CorpusConfig    `mapstructure:"corpus"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Index     IndexConfig     `mapstructure:"index"`
	Search    SearchConfig    `mapstructure:"search"`
	Summary   SummaryConfig   `mapstructure:"summary"`
	Log       LogConfig       `mapstructure:"log"`
}

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error
// as fatal and refuse to start.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	switch c.Corpus.Backend {
	case "csv":
		if c.Corpus.CSVPath == "" {
			return fmt.Errorf("config: corpus.csv_path is required for the csv backend")
		}
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("config: database.host is required for the postgres backend")
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
		}
		if c.Database.User == "" {
			return fmt.Errorf("config: database.user is required for the postgres backend")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("config: database.db_name is required for the postgres backend")
		}
	default:
		return fmt.Errorf("config: corpus.backend %q is invalid; expected csv|postgres", c.Corpus.Backend)
	}

	switch c.Embedding.Backend {
	case "fastembed":
	case "openai":
		if c.Embedding.APIKey == "" {
			return fmt.Errorf("config: embedding.api_key is required for the openai backend")
		}
	default:
		return fmt.Errorf("config: embedding.backend %q is invalid; expected fastembed|openai", c.Embedding.Backend)
	}

	switch c.Index.Backend {
	case "brute", "chromem":
	default:
		return fmt.Errorf("config: index.backend %q is invalid; expected brute|chromem", c.Index.Backend)
	}

	if c.Search.DefaultTopK < 1 {
		return fmt.Errorf("config: search.default_top_k must be >= 1, got %d", c.Search.DefaultTopK)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|text", c.Log.Format)
	}

	return nil
}
