package config

import "time"

// Default values for configuration fields.
const (
	// Compiler defaults
	DefaultMaxFileSize = int64(10 * 1024 * 1024)

	// Catalog defaults
	DefaultCatalogPath          = "data/fragrules.db"
	DefaultCatalogRetentionDays = 90
	DefaultCatalogKeepRevisions = 5
	DefaultCatalogPruneSchedule = "0 3 * * *"

	// Watch defaults
	DefaultWatchDebounce = 200 * time.Millisecond

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"

	// Metrics defaults
	DefaultMetricsListenAddress = "127.0.0.1:9464"
	DefaultMetricsNamespace     = "fragrules"

	// Tracing defaults
	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingTimeout     = 10 * time.Second
	DefaultTracingSampler     = "always"
	DefaultTracingServiceName = "fragrules"

	// Git defaults
	DefaultGitRef      = "HEAD"
	DefaultGitAuthType = "none"
)

// DefaultChainLibrarySuffixes returns the accepted chain library extensions.
func DefaultChainLibrarySuffixes() []string {
	return []string{".xlsx", ".xls"}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every zero-valued field with its default.
func ApplyDefaults(cfg *Config) {
	// Compiler defaults
	if cfg.Compiler.MaxFileSize == 0 {
		cfg.Compiler.MaxFileSize = DefaultMaxFileSize
	}

	// Chain library defaults
	if len(cfg.ChainLibrary.Suffixes) == 0 {
		cfg.ChainLibrary.Suffixes = DefaultChainLibrarySuffixes()
	}

	// Catalog defaults
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = DefaultCatalogPath
	}
	if cfg.Catalog.RetentionDays == 0 {
		cfg.Catalog.RetentionDays = DefaultCatalogRetentionDays
	}
	if cfg.Catalog.KeepRevisions == 0 {
		cfg.Catalog.KeepRevisions = DefaultCatalogKeepRevisions
	}
	if cfg.Catalog.PruneSchedule == "" {
		cfg.Catalog.PruneSchedule = DefaultCatalogPruneSchedule
	}

	// Watch defaults
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}

	// Metrics defaults
	if cfg.Metrics.ListenAddress == "" {
		cfg.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	// Tracing defaults
	if cfg.Tracing.Endpoint == "" {
		cfg.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Tracing.Timeout == 0 {
		cfg.Tracing.Timeout = DefaultTracingTimeout
	}
	if cfg.Tracing.Sampler == "" {
		cfg.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultTracingServiceName
	}

	// Git defaults
	if cfg.Git.Ref == "" {
		cfg.Git.Ref = DefaultGitRef
	}
	if cfg.Git.Auth.Type == "" {
		cfg.Git.Auth.Type = DefaultGitAuthType
	}
}
