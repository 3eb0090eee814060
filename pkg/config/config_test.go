package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fragrules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.False(t, cfg.Compiler.CompatibilityMode)
	assert.Equal(t, DefaultMaxFileSize, cfg.Compiler.MaxFileSize)
	assert.Equal(t, []string{".xlsx", ".xls"}, cfg.ChainLibrary.Suffixes)
	assert.Equal(t, DefaultCatalogPath, cfg.Catalog.Path)
	assert.Equal(t, DefaultCatalogRetentionDays, cfg.Catalog.RetentionDays)
	assert.Equal(t, DefaultCatalogKeepRevisions, cfg.Catalog.KeepRevisions)
	assert.Equal(t, DefaultCatalogPruneSchedule, cfg.Catalog.PruneSchedule)
	assert.Equal(t, DefaultWatchDebounce, cfg.Watch.Debounce)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, DefaultMetricsNamespace, cfg.Metrics.Namespace)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, DefaultTracingSampler, cfg.Tracing.Sampler)
	assert.Equal(t, DefaultTracingServiceName, cfg.Tracing.ServiceName)
	assert.Equal(t, "HEAD", cfg.Git.Ref)
	assert.Equal(t, "none", cfg.Git.Auth.Type)
	assert.NoError(t, Validate(cfg))
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
compiler:
  compatibility_mode: true
  max_file_size: 4096
chain_library:
  suffixes: [".csv"]
catalog:
  path: /var/lib/fragrules/catalog.db
  retention_days: 30
  keep_revisions: 2
  prune_schedule: "*/15 * * * *"
watch:
  debounce: 1s
logging:
  level: debug
  format: json
  add_source: true
metrics:
  enabled: true
  listen_address: ":9100"
  subsystem: lab
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Compiler.CompatibilityMode)
	assert.Equal(t, int64(4096), cfg.Compiler.MaxFileSize)
	assert.Equal(t, []string{".csv"}, cfg.ChainLibrary.Suffixes)
	assert.Equal(t, "/var/lib/fragrules/catalog.db", cfg.Catalog.Path)
	assert.Equal(t, 30, cfg.Catalog.RetentionDays)
	assert.Equal(t, 2, cfg.Catalog.KeepRevisions)
	assert.Equal(t, "*/15 * * * *", cfg.Catalog.PruneSchedule)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Logging.AddSource)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9100", cfg.Metrics.ListenAddress)
	assert.Equal(t, "fragrules", cfg.Metrics.Namespace)
	assert.Equal(t, "lab", cfg.Metrics.Subsystem)
}

func TestLoadConfig_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "malformed yaml",
			content: "compiler: [",
			want:    "failed to parse",
		},
		{
			name:    "unknown field",
			content: "compiler:\n  strict: true\n",
			want:    "field strict not found",
		},
		{
			name:    "bad cron",
			content: "catalog:\n  prune_schedule: \"every day\"\n",
			want:    "catalog.prune_schedule",
		},
		{
			name:    "bad level",
			content: "logging:\n  level: verbose\n",
			want:    "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read configuration file")
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "catalog:\n  path: from-file.db\n")

	t.Setenv("FRAGRULES_CATALOG_PATH", "from-env.db")
	t.Setenv("FRAGRULES_COMPILER_COMPATIBILITY_MODE", "true")
	t.Setenv("FRAGRULES_CHAIN_LIBRARY_SUFFIXES", ".xlsx, .ods")
	t.Setenv("FRAGRULES_WATCH_DEBOUNCE", "50ms")
	t.Setenv("FRAGRULES_METRICS_ENABLED", "1")
	t.Setenv("FRAGRULES_TRACING_SAMPLER", "ratio")
	t.Setenv("FRAGRULES_TRACING_SAMPLE_RATIO", "0.25")
	t.Setenv("FRAGRULES_GIT_AUTH_TYPE", "token")
	t.Setenv("FRAGRULES_GIT_AUTH_TOKEN", "s3cret")

	cfg, err := LoadConfigWithEnvOverrides(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env.db", cfg.Catalog.Path)
	assert.True(t, cfg.Compiler.CompatibilityMode)
	assert.Equal(t, []string{".xlsx", ".ods"}, cfg.ChainLibrary.Suffixes)
	assert.Equal(t, 50*time.Millisecond, cfg.Watch.Debounce)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "ratio", cfg.Tracing.Sampler)
	assert.InDelta(t, 0.25, cfg.Tracing.SampleRatio, 1e-9)
	assert.Equal(t, "token", cfg.Git.Auth.Type)
	assert.Equal(t, "s3cret", cfg.Git.Auth.Token)
}

func TestLoadConfigWithEnvOverrides_NoFile(t *testing.T) {
	t.Setenv("FRAGRULES_LOGGING_LEVEL", "warn")

	for _, path := range []string{"", filepath.Join(t.TempDir(), "absent.yaml")} {
		cfg, err := LoadConfigWithEnvOverrides(path)
		require.NoError(t, err, "path %q", path)
		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.Equal(t, DefaultCatalogPath, cfg.Catalog.Path)
	}
}

func TestLoadConfigWithEnvOverrides_BadValue(t *testing.T) {
	t.Setenv("FRAGRULES_CATALOG_KEEP_REVISIONS", "many")

	_, err := LoadConfigWithEnvOverrides("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FRAGRULES_CATALOG_KEEP_REVISIONS")
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte("metrics:\n  namespace: lipids\n"))
	require.NoError(t, err)
	assert.Equal(t, "lipids", cfg.Metrics.Namespace)
}
