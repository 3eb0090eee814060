/*
Package cli provides command-line helpers for the fragrules command.

Output Formatting:

Commands print results as text, JSON, or YAML:

	format, err := cli.ParseFormat(flag, cli.FormatText, cli.FormatJSON, cli.FormatYAML)
	if err != nil {
		return err
	}
	return cli.NewFormatter(format).FormatTo(os.Stdout, doc.View())

Progress Reporting:

Batch commands report completed files as they finish:

	progress := cli.NewProgressReporter(os.Stderr, "lint")
	progress.Start(len(files))
	progress.Done(err != nil)
	progress.Finish()

Errors and exit codes:

ConfigError marks flag and configuration mistakes; ExitCode maps them to
exit status 2 and every other failure to 1.

Signal Handling:

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()
*/
package cli
