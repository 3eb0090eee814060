package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override,
// e.g. FRAGRULES_CATALOG_PATH.
const EnvPrefix = "FRAGRULES_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// Environment variables are not consulted; use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}
	return parse(data, path)
}

// ParseConfig decodes YAML configuration held in memory.
func ParseConfig(data []byte) (*Config, error) {
	return parse(data, "<memory>")
}

func parse(data []byte, path string) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides named FRAGRULES_SECTION_FIELD. Environment
// variables take precedence over the file.
//
// An empty path, or a path that does not exist, yields the defaults plus
// overrides, so the CLI runs without a configuration file.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = Default()
	} else {
		loaded, err := LoadConfig(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			cfg = Default()
		case err != nil:
			return nil, err
		default:
			cfg = loaded
		}
	}

	if err := applyEnvOverrides(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// lookupFunc matches os.LookupEnv.
type lookupFunc func(key string) (string, bool)

// applyEnvOverrides applies environment variable overrides to cfg.
// A variable that is set but cannot be parsed is an error.
func applyEnvOverrides(cfg *Config, lookup lookupFunc) error {
	env := envReader{lookup: lookup}

	// Compiler overrides
	env.boolean("COMPILER_COMPATIBILITY_MODE", &cfg.Compiler.CompatibilityMode)
	env.size("COMPILER_MAX_FILE_SIZE", &cfg.Compiler.MaxFileSize)

	// Chain library overrides (comma separated)
	if val, ok := env.get("CHAIN_LIBRARY_SUFFIXES"); ok {
		var suffixes []string
		for _, s := range strings.Split(val, ",") {
			if s = strings.TrimSpace(s); s != "" {
				suffixes = append(suffixes, s)
			}
		}
		cfg.ChainLibrary.Suffixes = suffixes
	}

	// Catalog overrides
	env.str("CATALOG_PATH", &cfg.Catalog.Path)
	env.integer("CATALOG_RETENTION_DAYS", &cfg.Catalog.RetentionDays)
	env.integer("CATALOG_KEEP_REVISIONS", &cfg.Catalog.KeepRevisions)
	env.str("CATALOG_PRUNE_SCHEDULE", &cfg.Catalog.PruneSchedule)

	// Watch overrides
	env.duration("WATCH_DEBOUNCE", &cfg.Watch.Debounce)

	// Logging overrides
	env.str("LOGGING_LEVEL", &cfg.Logging.Level)
	env.str("LOGGING_FORMAT", &cfg.Logging.Format)
	env.boolean("LOGGING_ADD_SOURCE", &cfg.Logging.AddSource)

	// Metrics overrides
	env.boolean("METRICS_ENABLED", &cfg.Metrics.Enabled)
	env.str("METRICS_LISTEN_ADDRESS", &cfg.Metrics.ListenAddress)
	env.str("METRICS_NAMESPACE", &cfg.Metrics.Namespace)
	env.str("METRICS_SUBSYSTEM", &cfg.Metrics.Subsystem)

	// Tracing overrides
	env.boolean("TRACING_ENABLED", &cfg.Tracing.Enabled)
	env.str("TRACING_ENDPOINT", &cfg.Tracing.Endpoint)
	env.boolean("TRACING_INSECURE", &cfg.Tracing.Insecure)
	env.duration("TRACING_TIMEOUT", &cfg.Tracing.Timeout)
	env.str("TRACING_SAMPLER", &cfg.Tracing.Sampler)
	env.float("TRACING_SAMPLE_RATIO", &cfg.Tracing.SampleRatio)
	env.str("TRACING_SERVICE_NAME", &cfg.Tracing.ServiceName)

	// Git overrides
	env.str("GIT_REPOSITORY", &cfg.Git.Repository)
	env.str("GIT_REF", &cfg.Git.Ref)
	env.str("GIT_PATH", &cfg.Git.Path)
	env.str("GIT_AUTH_TYPE", &cfg.Git.Auth.Type)
	env.str("GIT_AUTH_TOKEN", &cfg.Git.Auth.Token)
	env.str("GIT_AUTH_SSH_KEY_PATH", &cfg.Git.Auth.SSHKeyPath)
	env.str("GIT_AUTH_SSH_KEY_PASSPHRASE", &cfg.Git.Auth.SSHKeyPassphrase)

	return errors.Join(env.errs...)
}

type envReader struct {
	lookup lookupFunc
	errs   []error
}

func (e *envReader) get(name string) (string, bool) {
	val, ok := e.lookup(EnvPrefix + name)
	if !ok || val == "" {
		return "", false
	}
	return val, true
}

func (e *envReader) fail(name, val string, err error) {
	e.errs = append(e.errs, fmt.Errorf("environment variable %s%s=%q: %w", EnvPrefix, name, val, err))
}

func (e *envReader) str(name string, dst *string) {
	if val, ok := e.get(name); ok {
		*dst = val
	}
}

func (e *envReader) boolean(name string, dst *bool) {
	if val, ok := e.get(name); ok {
		b, err := strconv.ParseBool(val)
		if err != nil {
			e.fail(name, val, err)
			return
		}
		*dst = b
	}
}

func (e *envReader) integer(name string, dst *int) {
	if val, ok := e.get(name); ok {
		i, err := strconv.Atoi(val)
		if err != nil {
			e.fail(name, val, err)
			return
		}
		*dst = i
	}
}

func (e *envReader) size(name string, dst *int64) {
	if val, ok := e.get(name); ok {
		i, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			e.fail(name, val, err)
			return
		}
		*dst = i
	}
}

func (e *envReader) duration(name string, dst *time.Duration) {
	if val, ok := e.get(name); ok {
		d, err := time.ParseDuration(val)
		if err != nil {
			e.fail(name, val, err)
			return
		}
		*dst = d
	}
}

func (e *envReader) float(name string, dst *float64) {
	if val, ok := e.get(name); ok {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			e.fail(name, val, err)
			return
		}
		*dst = f
	}
}
