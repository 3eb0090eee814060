package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"lipidhq/fragrules/pkg/cli"
	"lipidhq/fragrules/pkg/rules"
	"lipidhq/fragrules/pkg/rules/ast"
)

var showFlags struct {
	format string
}

var showCmd = &cobra.Command{
	Use:   "show FILE",
	Short: "Print a compiled rule file",
	Long: `Compile a rule file and print the result.

The text format lists settings, fragments and intensity rules per section
with the direction of every comparison resolved. JSON and YAML print the
full compiled document.

Examples:
  fragrules show rules/PC_H.frag.txt
  fragrules show --format yaml rules/PC_H.frag.txt`,
	Args: cobra.ExactArgs(1),
	RunE: showRules,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVar(&showFlags.format, "format", "text", "output format: text, json, yaml")
}

func showRules(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(showFlags.format, cli.FormatText, cli.FormatJSON, cli.FormatYAML)
	if err != nil {
		return err
	}

	doc, err := compileOne(cmd, args[0])
	if err != nil {
		return cli.NewCommandError("show", err)
	}

	out := stdout(cmd)
	if format == cli.FormatText {
		outputDocumentText(out, doc)
		return nil
	}
	if err := cli.NewFormatter(format).FormatTo(out, doc.View()); err != nil {
		return cli.NewCommandError("show", err)
	}
	return nil
}

// compileOne compiles path with the configured parser settings.
func compileOne(cmd *cobra.Command, path string) (*ast.RuleDocument, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg, stderr(cmd))
	if err != nil {
		return nil, err
	}
	return newParserFactory(cfg, logger)().Parse(path)
}

func outputDocumentText(w io.Writer, doc *ast.RuleDocument) {
	view := doc.View()

	name := rules.ParseFileName(view.Source)
	if name.LipidClass != "" {
		fmt.Fprintf(w, "%s (class %s, adduct %s)\n", view.Source, name.LipidClass, name.Adduct)
	} else {
		fmt.Fprintln(w, view.Source)
	}

	fmt.Fprintln(w, "\n[GENERAL]")
	for _, s := range view.General {
		fmt.Fprintf(w, "  %-28s %s\n", s.Key, s.Value)
	}

	printFragments(w, "HEAD", view.HeadFragments)
	printIntensities(w, "HEAD", view.HeadIntensities)
	printFragments(w, "CHAINS", view.ChainFragments)
	printIntensities(w, "CHAINS", view.ChainIntensities)
	printIntensities(w, "POSITION", view.PositionIntensities)
}

func printFragments(w io.Writer, section string, fragments []ast.FragmentRule) {
	if len(fragments) == 0 {
		return
	}
	fmt.Fprintf(w, "\n[%s] fragments\n", section)
	for _, f := range fragments {
		fmt.Fprintf(w, "  %-16s %-32s charge=%d ms%d mandatory=%s\n",
			f.Name, f.Formula, f.Charge, f.MSLevel, f.MandatoryLiteral())
	}
}

func printIntensities(w io.Writer, section string, intensities []ast.IntensityRule) {
	if len(intensities) == 0 {
		return
	}
	fmt.Fprintf(w, "\n[%s] intensity rules\n", section)
	for _, r := range intensities {
		mandatory := ""
		if r.Mandatory {
			mandatory = " (mandatory)"
		}
		fmt.Fprintf(w, "  %s > %s%s\n", r.Bigger.String(), r.Smaller.String(), mandatory)
	}
}
