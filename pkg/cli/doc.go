/*
Package cli provides command-line helpers shared by the langaudit commands.

Output Formatting:

Listings such as languages and history runs implement Table and can be
printed as aligned text, JSON or CSV:

	formatter := cli.NewFormatter(cli.FormatCSV)
	if err := formatter.FormatTo(os.Stdout, languages); err != nil {
		return err
	}

Progress Reporting:

Long audits report progress on stderr when it is a terminal:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(len(files))
	progress.Update(done)
	progress.Finish()

Exit Codes:

Commands return typed errors and main maps them with ExitCode:

	os.Exit(cli.ExitCode(err))

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SignalContext(cmd.Context(), logger)
	defer stop()
*/
package cli
