package config

import "time"

// Config is the root configuration structure for the fragrules CLI.
// It contains the compiler options, the revision catalog, the watcher,
// and telemetry settings.
type Config struct {
	// Compiler contains options handed to every rule parser.
	Compiler CompilerConfig `yaml:"compiler"`

	// ChainLibrary lists the file suffixes accepted for the chainLib setting.
	ChainLibrary ChainLibraryConfig `yaml:"chain_library"`

	// Catalog contains the SQLite revision catalog and its retention policy.
	Catalog CatalogConfig `yaml:"catalog"`

	// Watch contains options for `fragrules watch`.
	Watch WatchConfig `yaml:"watch"`

	// Logging contains structured logging options.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains the Prometheus exporter options.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains the OpenTelemetry exporter options.
	Tracing TracingConfig `yaml:"tracing"`

	// Git is the default repository for `fragrules catalog import`.
	Git GitConfig `yaml:"git"`
}

// CompilerConfig contains rule parser options.
type CompilerConfig struct {
	// CompatibilityMode accepts tab-only separators and parentheses in
	// fragment names, as written by older tools.
	// Default: false
	CompatibilityMode bool `yaml:"compatibility_mode"`

	// MaxFileSize is the largest rule file, in bytes, the parser will read.
	// Default: 10MB
	MaxFileSize int64 `yaml:"max_file_size"`
}

// ChainLibraryConfig contains the chain library authority options.
type ChainLibraryConfig struct {
	// Suffixes are the accepted chain library file extensions.
	// Default: [".xlsx", ".xls"]
	Suffixes []string `yaml:"suffixes"`
}

// CatalogConfig contains the revision catalog options.
type CatalogConfig struct {
	// Path is the SQLite database file. ":memory:" keeps the catalog in memory.
	// Default: "data/fragrules.db"
	Path string `yaml:"path"`

	// RetentionDays is how long superseded revisions are kept.
	// Default: 90
	RetentionDays int `yaml:"retention_days"`

	// KeepRevisions is the number of newest revisions per rule file that
	// pruning never removes.
	// Default: 5
	KeepRevisions int `yaml:"keep_revisions"`

	// PruneSchedule is a standard five-field cron expression.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`
}

// WatchConfig contains file watcher options.
type WatchConfig struct {
	// Debounce is the quiet period after the last write before a rule file
	// is recompiled.
	// Default: 200ms
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig contains structured logging options.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: "info"
	Level string `yaml:"level"`

	// Format is one of json, text, console.
	// Default: "console"
	Format string `yaml:"format"`

	// AddSource includes the Go file and line in each record.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus exporter options.
type MetricsConfig struct {
	// Enabled turns on metric collection and the /metrics endpoint.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ListenAddress is where `fragrules watch` serves /metrics.
	// Default: "127.0.0.1:9464"
	ListenAddress string `yaml:"listen_address"`

	// Namespace prefixes every metric name.
	// Default: "fragrules"
	Namespace string `yaml:"namespace"`

	// Subsystem is inserted between namespace and metric name when set.
	Subsystem string `yaml:"subsystem"`
}

// TracingConfig contains OpenTelemetry tracing options.
type TracingConfig struct {
	// Enabled turns on span export for `fragrules watch`.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS to the collector.
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// Sampler is one of always, never, ratio.
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces kept by the ratio sampler.
	SampleRatio float64 `yaml:"sample_ratio"`

	// ServiceName is reported as the service.name resource attribute.
	// Default: "fragrules"
	ServiceName string `yaml:"service_name"`
}

// GitConfig names a git repository holding rule files.
type GitConfig struct {
	// Repository is a remote URL or a local repository path.
	Repository string `yaml:"repository"`

	// Ref is the branch, tag, or commit to read.
	// Default: "HEAD"
	Ref string `yaml:"ref"`

	// Path restricts the import to one directory of the repository.
	Path string `yaml:"path"`

	// Auth contains credentials for remote repositories.
	Auth GitAuthConfig `yaml:"auth"`
}

// GitAuthConfig contains git transport credentials.
type GitAuthConfig struct {
	// Type is one of none, token, ssh.
	// Default: "none"
	Type string `yaml:"type"`

	// Token is an HTTPS access token. Prefer FRAGRULES_GIT_AUTH_TOKEN.
	Token string `yaml:"token"`

	// SSHKeyPath is a private key file readable only by its owner.
	SSHKeyPath string `yaml:"ssh_key_path"`

	// SSHKeyPassphrase decrypts SSHKeyPath.
	SSHKeyPassphrase string `yaml:"ssh_key_passphrase"`
}
