/*
Package cli provides command-line interface utilities for Saturn.

The cli package includes output formatters, typed command errors, and signal
handling helpers used by the saturn command.

Output Formatting:

The cli package supports text and JSON output for displaying command results:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM (used by watch and serve modes):

	ctx := cli.SetupSignalHandler()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
