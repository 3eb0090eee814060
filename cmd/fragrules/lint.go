package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"lipidhq/fragrules/pkg/cli"
	"lipidhq/fragrules/pkg/rules/parser"
	rulesErrors "lipidhq/fragrules/pkg/rules/errors"
	"lipidhq/fragrules/pkg/telemetry/metrics"
)

var lintFlags struct {
	compat      bool
	format      string
	concurrency int
	progress    bool
}

var lintCmd = &cobra.Command{
	Use:   "lint FILE...",
	Short: "Check rule files for errors",
	Long: `Compile one or more rule files and report every file that fails.

Files are independent and compiled concurrently. Each file stops at its
first error, which is reported with its line, the offending source line
and a suggestion where one is known.

Examples:
  # Lint a directory of rule files
  fragrules lint rules/*.frag.txt

  # Accept files written by older tools (space-separated tokens)
  fragrules lint --compat legacy/*.frag.txt

  # JSON output for CI
  fragrules lint --format json rules/*.frag.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: lintRules,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().BoolVar(&lintFlags.compat, "compat", false, "compatibility tokenization (overrides compiler.compatibility_mode)")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
	lintCmd.Flags().IntVar(&lintFlags.concurrency, "concurrency", 0, "files compiled at once (0 = GOMAXPROCS)")
	lintCmd.Flags().BoolVar(&lintFlags.progress, "progress", false, "show a progress bar on stderr")
}

// LintResult is the outcome of linting one file.
type LintResult struct {
	File           string     `json:"file"`
	Valid          bool       `json:"valid"`
	Fragments      int        `json:"fragments,omitempty"`
	IntensityRules int        `json:"intensity_rules,omitempty"`
	DurationMS     float64    `json:"duration_ms"`
	Error          *LintError `json:"error,omitempty"`
}

// LintError is the JSON form of a rule error.
type LintError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Line       int    `json:"line,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// LintReport is the full JSON lint output.
type LintReport struct {
	Results []LintResult `json:"results"`
	Summary LintSummary  `json:"summary"`
}

// LintSummary counts the files of a lint run.
type LintSummary struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

func lintRules(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(lintFlags.format, cli.FormatText, cli.FormatJSON)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd != nil && cmd.Flags().Changed("compat") {
		cfg.Compiler.CompatibilityMode = lintFlags.compat
	}

	logger, err := newLogger(cfg, stderr(cmd))
	if err != nil {
		return err
	}

	opts := []parser.BatchOption{
		parser.WithConcurrency(lintFlags.concurrency),
		parser.WithParserFactory(newParserFactory(cfg, logger)),
	}
	var progress cli.ProgressReporter
	if lintFlags.progress {
		progress = cli.NewProgressReporter(stderr(cmd), "lint")
		progress.Start(len(args))
		opts = append(opts, parser.WithResultHook(func(r parser.Result) {
			progress.Done(!r.OK())
		}))
	}

	results, _ := parser.CompileFiles(commandContext(cmd), args, opts...)
	if progress != nil {
		progress.Finish()
	}

	report := LintReport{Results: make([]LintResult, 0, len(results))}
	for _, r := range results {
		report.Results = append(report.Results, newLintResult(r))
	}

	report.Summary.Total = len(report.Results)
	for _, r := range report.Results {
		if r.Valid {
			report.Summary.Valid++
		} else {
			report.Summary.Invalid++
		}
	}

	out := stdout(cmd)
	if format == cli.FormatJSON {
		if err := cli.NewFormatter(cli.FormatJSON).FormatTo(out, report); err != nil {
			return cli.NewCommandError("lint", err)
		}
	} else {
		outputLintText(out, report)
	}

	if report.Summary.Invalid > 0 {
		return cli.NewCommandError("lint", fmt.Errorf("%d of %d rule files failed", report.Summary.Invalid, report.Summary.Total))
	}
	return nil
}

func newLintResult(r parser.Result) LintResult {
	res := LintResult{
		File:       r.Path,
		Valid:      r.OK(),
		DurationMS: float64(r.Duration.Microseconds()) / 1000,
	}
	if r.OK() {
		res.Fragments = r.Document.FragmentCount()
		res.IntensityRules = r.Document.IntensityCount()
		return res
	}

	res.Error = newLintError(r.Err)
	return res
}

// newLintError flattens err for reporting, keeping the line and suggestion
// of rule errors.
func newLintError(err error) *LintError {
	var ruleErr *rulesErrors.Error
	if errors.As(err, &ruleErr) {
		return &LintError{
			Type:       string(ruleErr.Type),
			Message:    ruleErr.Message,
			Line:       ruleErr.Location.Line,
			Suggestion: ruleErr.Suggestion,
		}
	}
	return &LintError{Type: metrics.Outcome(err), Message: err.Error()}
}

func outputLintText(w io.Writer, report LintReport) {
	for _, r := range report.Results {
		if r.Valid {
			fmt.Fprintf(w, "✓ %s (%d fragments, %d intensity rules)\n", r.File, r.Fragments, r.IntensityRules)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", r.File)
		if r.Error != nil {
			if r.Error.Line > 0 {
				fmt.Fprintf(w, "    line %d: %s\n", r.Error.Line, r.Error.Message)
			} else {
				fmt.Fprintf(w, "    %s\n", r.Error.Message)
			}
			if r.Error.Suggestion != "" {
				fmt.Fprintf(w, "    suggestion: %s\n", r.Error.Suggestion)
			}
		}
	}
	fmt.Fprintf(w, "\n%d files checked: %d valid, %d invalid\n",
		report.Summary.Total, report.Summary.Valid, report.Summary.Invalid)
}
