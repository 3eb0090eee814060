package main

import (
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/spf13/cobra"

	"lipidhq/fragrules/pkg/cli"
	"lipidhq/fragrules/pkg/config"
	"lipidhq/fragrules/pkg/rules/catalog"
	"lipidhq/fragrules/pkg/rules/gitsource"
)

var catalogFlags struct {
	format    string
	olderThan time.Duration
	keep      int
	ref       string
	path      string
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and prune recorded rule revisions",
	Long: `The catalog holds one revision per distinct compiled content of each rule
file, recorded by the watch command. Revisions are keyed by file name.`,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the newest revision of every rule file",
	Args:  cobra.NoArgs,
	RunE:  catalogList,
}

var catalogHistoryCmd = &cobra.Command{
	Use:   "history SOURCE",
	Short: "List all revisions of one rule file, newest first",
	Args:  cobra.ExactArgs(1),
	RunE:  catalogHistory,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print the canonical text of a revision",
	Args:  cobra.ExactArgs(1),
	RunE:  catalogShow,
}

var catalogPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old revisions now",
	Long: `Remove revisions older than --older-than, always keeping the newest
--keep revisions of every rule file. Both default to the catalog settings
in the config file.`,
	Args: cobra.NoArgs,
	RunE: catalogPrune,
}

var catalogImportCmd = &cobra.Command{
	Use:   "import [REPOSITORY]",
	Short: "Record the rule files of a git commit",
	Long: `Compile every rule file in a commit of a git repository and store a
revision for each one whose content changed. REPOSITORY is a local path or a
remote URL and defaults to git.repository from the config file.

Examples:
  # Import the rules of the current checkout
  fragrules catalog import .

  # Import a released rule set from a remote repository
  fragrules catalog import https://github.com/example/lipid-rules.git --ref v2.1 --path rules`,
	Args: cobra.MaximumNArgs(1),
	RunE: catalogImport,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd, catalogHistoryCmd, catalogShowCmd, catalogPruneCmd, catalogImportCmd)

	catalogCmd.PersistentFlags().StringVar(&catalogFlags.format, "format", "text", "output format: text, json, yaml")
	catalogPruneCmd.Flags().DurationVar(&catalogFlags.olderThan, "older-than", 0, "minimum age of pruned revisions (default: catalog.retention_days)")
	catalogPruneCmd.Flags().IntVar(&catalogFlags.keep, "keep", 0, "revisions per file always kept (default: catalog.keep_revisions)")
	catalogImportCmd.Flags().StringVar(&catalogFlags.ref, "ref", "", "branch, tag, or commit to import (default: git.ref)")
	catalogImportCmd.Flags().StringVar(&catalogFlags.path, "path", "", "repository directory holding the rule files (default: git.path)")
}

// withCatalog opens the configured catalog for the duration of fn.
func withCatalog(cmd *cobra.Command, name string, fn func(*config.Config, *catalog.Catalog) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, stderr(cmd))
	if err != nil {
		return err
	}
	cat, err := openCatalog(cfg, logger, nil)
	if err != nil {
		return cli.NewCommandError(name, err)
	}
	defer cat.Close()

	if err := fn(cfg, cat); err != nil {
		return cli.NewCommandError(name, err)
	}
	return nil
}

func catalogList(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(catalogFlags.format, cli.FormatText, cli.FormatJSON, cli.FormatYAML)
	if err != nil {
		return err
	}
	return withCatalog(cmd, "catalog list", func(_ *config.Config, cat *catalog.Catalog) error {
		revs, err := cat.List(commandContext(cmd))
		if err != nil {
			return err
		}
		return outputRevisions(stdout(cmd), format, revs)
	})
}

func catalogHistory(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(catalogFlags.format, cli.FormatText, cli.FormatJSON, cli.FormatYAML)
	if err != nil {
		return err
	}
	return withCatalog(cmd, "catalog history", func(_ *config.Config, cat *catalog.Catalog) error {
		revs, err := cat.History(commandContext(cmd), args[0])
		if err != nil {
			return err
		}
		if len(revs) == 0 {
			return fmt.Errorf("no revisions of %s", args[0])
		}
		return outputRevisions(stdout(cmd), format, revs)
	})
}

func catalogShow(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(catalogFlags.format, cli.FormatText, cli.FormatJSON, cli.FormatYAML)
	if err != nil {
		return err
	}
	return withCatalog(cmd, "catalog show", func(_ *config.Config, cat *catalog.Catalog) error {
		rev, err := cat.Get(commandContext(cmd), args[0])
		if errors.Is(err, catalog.ErrNotFound) {
			return fmt.Errorf("revision %s not found", args[0])
		}
		if err != nil {
			return err
		}

		out := stdout(cmd)
		if format == cli.FormatText {
			_, err := out.Write(rev.Canonical)
			return err
		}
		doc, err := rev.Document()
		if err != nil {
			return err
		}
		return cli.NewFormatter(format).FormatTo(out, doc.View())
	})
}

func catalogPrune(cmd *cobra.Command, args []string) error {
	return withCatalog(cmd, "catalog prune", func(cfg *config.Config, cat *catalog.Catalog) error {
		policy := retentionPolicy(cfg)
		cutoff := policy.Cutoff(time.Now())
		if catalogFlags.olderThan > 0 {
			cutoff = time.Now().Add(-catalogFlags.olderThan)
		}
		keep := policy.KeepRevisions
		if catalogFlags.keep > 0 {
			keep = catalogFlags.keep
		}

		removed, err := cat.Prune(commandContext(cmd), cutoff, keep)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout(cmd), "pruned %d revision(s) older than %s\n", removed, cutoff.Format(time.RFC3339))
		return nil
	})
}

// importResult is one line of `catalog import` output.
type importResult struct {
	Path     string     `json:"path" yaml:"path"`
	Revision string     `json:"revision,omitempty" yaml:"revision,omitempty"`
	Created  bool       `json:"created" yaml:"created"`
	Error    *LintError `json:"error,omitempty" yaml:"error,omitempty"`
}

// importReport is the structured output of `catalog import`.
type importReport struct {
	Repository string               `json:"repository" yaml:"repository"`
	Commit     gitsource.CommitInfo `json:"commit" yaml:"commit"`
	Results    []importResult       `json:"results" yaml:"results"`
}

func catalogImport(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(catalogFlags.format, cli.FormatText, cli.FormatJSON, cli.FormatYAML)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	gitCfg := cfg.Git
	if len(args) == 1 {
		gitCfg.Repository = args[0]
	}
	if catalogFlags.ref != "" {
		gitCfg.Ref = catalogFlags.ref
	}
	if catalogFlags.path != "" {
		gitCfg.Path = catalogFlags.path
	}
	if gitCfg.Repository == "" {
		return cli.NewConfigError("REPOSITORY", "no repository given and git.repository is not set")
	}

	return withCatalog(cmd, "catalog import", func(cfg *config.Config, cat *catalog.Catalog) error {
		ctx := commandContext(cmd)
		logger, err := newLogger(cfg, stderr(cmd))
		if err != nil {
			return err
		}

		repo, err := gitsource.Open(ctx, &gitCfg)
		if err != nil {
			return err
		}
		snap, err := repo.Snapshot("")
		if err != nil {
			return err
		}
		logger.Info("importing rule files",
			"repository", repo.Location(),
			"ref", snap.Ref,
			"commit", snap.Commit.ShortSHA(),
			"files", len(snap.Files),
		)

		p := newParserFactory(cfg, logger)()
		report := importReport{Repository: repo.Location(), Commit: snap.Commit}
		failed := 0
		for _, f := range snap.Files {
			res := importResult{Path: f.Path}
			doc, err := p.ParseBytes(f.Content, f.Path)
			if err == nil {
				var rev catalog.Revision
				rev, res.Created, err = cat.Put(ctx, path.Base(f.Path), f.Content, doc)
				res.Revision = rev.ID
			}
			if err != nil {
				res.Error = newLintError(err)
				failed++
			}
			report.Results = append(report.Results, res)
		}

		out := stdout(cmd)
		if format != cli.FormatText {
			if err := cli.NewFormatter(format).FormatTo(out, report); err != nil {
				return err
			}
		} else {
			created := 0
			for _, r := range report.Results {
				switch {
				case r.Error != nil && r.Error.Line > 0:
					fmt.Fprintf(out, "✗ %s\n    line %d: %s\n", r.Path, r.Error.Line, r.Error.Message)
				case r.Error != nil:
					fmt.Fprintf(out, "✗ %s\n    %s\n", r.Path, r.Error.Message)
				case r.Created:
					created++
					fmt.Fprintf(out, "+ %s  %s\n", r.Path, r.Revision)
				default:
					fmt.Fprintf(out, "= %s  %s\n", r.Path, r.Revision)
				}
			}
			fmt.Fprintf(out, "\n%d rule files at %s: %d new, %d unchanged, %d failed\n",
				len(report.Results), snap.Commit.ShortSHA(), created, len(report.Results)-created-failed, failed)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d rule files failed to compile", failed, len(report.Results))
		}
		return nil
	})
}

func outputRevisions(w io.Writer, format cli.OutputFormat, revs []catalog.Revision) error {
	if format != cli.FormatText {
		return cli.NewFormatter(format).FormatTo(w, revs)
	}
	for _, r := range revs {
		fmt.Fprintf(w, "%s  %-24s %s  %2d fragments  %2d intensity rules  %s\n",
			r.ID, r.Source, r.CompiledAt.Local().Format(time.DateTime),
			r.Fragments, r.IntensityRules, r.Checksum[:12])
	}
	return nil
}
