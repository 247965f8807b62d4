package config

import "time"

const (
	DefaultServerPort      = 8000
	DefaultServerMode      = "debug"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxBodySize     = 20 << 20

	DefaultCorpusBackend = "csv"
	DefaultCSVPath       = "./data/patents.csv"

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "rephind"
	DefaultDBSSLMode  = "disable"
	DefaultDBMaxConns = 10

	DefaultEmbeddingBackend = "fastembed"
	DefaultModelCacheDir    = "./model_cache"

	DefaultIndexBackend = "brute"
	DefaultSnapshotPath = "./data/index.snapshot"

	DefaultTopK           = 10
	DefaultSearchCacheTTL = 5 * time.Minute

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills every zero-value field in cfg with the service
// default.  Fields already set by the caller are left unchanged so that
// explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultMaxBodySize
	}

	if cfg.Corpus.Backend == "" {
		cfg.Corpus.Backend = DefaultCorpusBackend
	}
	if cfg.Corpus.CSVPath == "" {
		cfg.Corpus.CSVPath = DefaultCSVPath
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = DefaultDBSSLMode
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}

	if cfg.Embedding.Backend == "" {
		cfg.Embedding.Backend = DefaultEmbeddingBackend
	}
	if cfg.Embedding.CacheDir == "" {
		cfg.Embedding.CacheDir = DefaultModelCacheDir
	}

	if cfg.Index.Backend == "" {
		cfg.Index.Backend = DefaultIndexBackend
	}
	if cfg.Index.SnapshotPath == "" {
		cfg.Index.SnapshotPath = DefaultSnapshotPath
	}

	if cfg.Search.DefaultTopK == 0 {
		cfg.Search.DefaultTopK = DefaultTopK
	}
	if cfg.Search.CacheTTL == 0 {
		cfg.Search.CacheTTL = DefaultSearchCacheTTL
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
