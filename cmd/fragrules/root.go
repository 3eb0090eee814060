package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"lipidhq/fragrules/pkg/cli"
	"lipidhq/fragrules/pkg/config"
	"lipidhq/fragrules/pkg/rules/chainlib"
	"lipidhq/fragrules/pkg/rules/parser"
	"lipidhq/fragrules/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile  string
	verbose  bool
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "fragrules",
	Short: "Compile and check lipid fragmentation rule files",
	Long: `fragrules compiles the fragmentation rule files used to identify lipid
species from tandem mass spectra.

Each file declares, per lipid class and adduct:
  - General settings such as the number of chains and the chain library
  - Head group and chain fragments with their chemical formulas
  - Intensity relations between fragments and the base peak

Rule errors are reported with the file and line they occur on.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. It exits with status 2 for configuration
// and usage errors and 1 for any other failure.
func Execute() {
	ctx, stop := cli.SignalContext(context.Background())
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults apply when empty or missing)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override: debug, info, warn, error")
}

// loadConfig reads the config file named by --config and applies
// FRAGRULES_* environment overrides and the logging flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("config", err.Error())
	}

	switch {
	case logLevel != "":
		if _, err := logging.ParseLevel(logLevel); err != nil {
			return nil, cli.NewConfigError("--log-level", err.Error())
		}
		cfg.Logging.Level = logLevel
	case verbose:
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// newLogger builds the process logger from cfg, writing to w.
func newLogger(cfg *config.Config, w io.Writer) (*logging.Logger, error) {
	logger, err := logging.New(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
		Writer:    w,
	})
	if err != nil {
		return nil, cli.NewConfigError("logging", err.Error())
	}
	return logger, nil
}

// newParserFactory returns a constructor for parsers configured from cfg.
// Parsers are single-use per parse, so batch compiles call it once per file.
func newParserFactory(cfg *config.Config, logger *logging.Logger) func() *parser.Parser {
	authority := chainlib.New(cfg.ChainLibrary.Suffixes...)
	slogger := logger.Component("parser").Slog()
	return func() *parser.Parser {
		return parser.NewParser().
			WithCompatibilityMode(cfg.Compiler.CompatibilityMode).
			WithMaxFileSize(cfg.Compiler.MaxFileSize).
			WithChainLibraries(authority).
			WithLogger(slogger)
	}
}

// commandContext returns the command's context, or Background when the
// command was invoked directly.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// stdout returns the command's output writer.
func stdout(cmd *cobra.Command) io.Writer {
	if cmd == nil {
		return os.Stdout
	}
	return cmd.OutOrStdout()
}

// stderr returns the command's error writer.
func stderr(cmd *cobra.Command) io.Writer {
	if cmd == nil {
		return os.Stderr
	}
	return cmd.ErrOrStderr()
}
