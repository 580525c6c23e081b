package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"mercator-hq/saturn/pkg/cli"
	"mercator-hq/saturn/pkg/document"
	"mercator-hq/saturn/pkg/telemetry/logging"
	"mercator-hq/saturn/pkg/transform"
	"mercator-hq/saturn/pkg/watch"
)

var transformFlags struct {
	output         string
	sourceFormat   string
	templateFormat string
	outputFormat   string
	pretty         bool
	maxDepth       int
	missing        string
	watchMode      bool
	debounce       time.Duration
}

var transformCmd = &cobra.Command{
	Use:   "transform <source> <template>",
	Short: "Apply a template to a source document",
	Long: `Apply a transformation template to a source document.

Both files may be JSON or YAML; formats are detected from file extensions
and can be overridden with flags. The result is written to stdout, or to
the file given with --out.

Examples:
  # Transform a JSON document
  saturn transform order.json invoice.template.json

  # YAML in, pretty JSON out
  saturn transform config.yaml report.template.yaml --output-format json --pretty

  # Write to a file and re-run whenever an input changes
  saturn transform order.json invoice.template.json --out invoice.json --watch

  # Emit null for unresolvable paths instead of failing
  saturn transform order.json invoice.template.json --missing null`,
	Args: cobra.ExactArgs(2),
	RunE: runTransform,
}

func init() {
	rootCmd.AddCommand(transformCmd)

	transformCmd.Flags().StringVarP(&transformFlags.output, "out", "o", "", "write output to file instead of stdout")
	transformCmd.Flags().StringVar(&transformFlags.sourceFormat, "source-format", "", "source format: json, yaml (default: by extension)")
	transformCmd.Flags().StringVar(&transformFlags.templateFormat, "template-format", "", "template format: json, yaml (default: by extension)")
	transformCmd.Flags().StringVar(&transformFlags.outputFormat, "output-format", "", "output format: json, yaml (default: source format)")
	transformCmd.Flags().BoolVar(&transformFlags.pretty, "pretty", false, "indent JSON output")
	transformCmd.Flags().IntVar(&transformFlags.maxDepth, "max-depth", 0, "maximum template nesting depth (default: 256)")
	transformCmd.Flags().StringVar(&transformFlags.missing, "missing", "fail", "missing field policy: fail, null")
	transformCmd.Flags().BoolVarP(&transformFlags.watchMode, "watch", "w", false, "re-run on input file changes")
	transformCmd.Flags().DurationVar(&transformFlags.debounce, "debounce", 200*time.Millisecond, "quiet period before re-running in watch mode")
}

func runTransform(cmd *cobra.Command, args []string) error {
	sourcePath, templatePath := args[0], args[1]

	opts, err := transformOptions()
	if err != nil {
		return err
	}

	run := func() error {
		return transformOnce(sourcePath, templatePath, opts)
	}

	if !transformFlags.watchMode {
		return run()
	}

	if transformFlags.output == "" {
		return fmt.Errorf("--watch requires --out (stdout output would interleave runs)")
	}

	// First pass before watching; later failures are reported but do not
	// stop the watch loop.
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "transform failed: %v\n", err)
	}

	logger := watchLogger()
	watcher, err := watch.New(&watch.Config{
		Files:            []string{sourcePath, templatePath},
		DebounceInterval: transformFlags.debounce,
	}, logger)
	if err != nil {
		return err
	}

	ctx := cli.SetupSignalHandler()
	fmt.Fprintf(os.Stderr, "watching %s and %s (Ctrl-C to stop)\n", sourcePath, templatePath)
	return watcher.Watch(ctx, run)
}

// transformOptions builds engine options from the command flags.
func transformOptions() (*transform.Options, error) {
	opts := &transform.Options{MaxDepth: transformFlags.maxDepth}

	if transformFlags.maxDepth < 0 {
		return nil, fmt.Errorf("--max-depth must be positive")
	}

	switch transformFlags.missing {
	case "fail":
		opts.OnMissingField = transform.MissingFieldFail
	case "null":
		opts.OnMissingField = transform.MissingFieldNull
	default:
		return nil, fmt.Errorf("--missing must be %q or %q", "fail", "null")
	}

	return opts, nil
}

// transformOnce runs a single source-through-template pass and writes the
// result.
func transformOnce(sourcePath, templatePath string, opts *transform.Options) error {
	sourceFormat, err := resolveFileFormat(transformFlags.sourceFormat, sourcePath)
	if err != nil {
		return fmt.Errorf("--source-format: %w", err)
	}
	templateFormat, err := resolveFileFormat(transformFlags.templateFormat, templatePath)
	if err != nil {
		return fmt.Errorf("--template-format: %w", err)
	}

	outputFormat := sourceFormat
	if transformFlags.outputFormat != "" {
		if outputFormat, err = document.ParseFormat(transformFlags.outputFormat); err != nil {
			return fmt.Errorf("--output-format: %w", err)
		}
	} else if transformFlags.output != "" {
		outputFormat = document.DetectFormat(transformFlags.output)
	}

	sourceData, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}
	templateData, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	source, err := document.Decode(sourceData, sourceFormat)
	if err != nil {
		return fmt.Errorf("invalid source document %s: %w", sourcePath, err)
	}
	tmpl, err := document.Decode(templateData, templateFormat)
	if err != nil {
		return fmt.Errorf("invalid template document %s: %w", templatePath, err)
	}

	result, err := transform.Transform(source, tmpl, opts)
	if err != nil {
		return err
	}

	output, err := document.Encode(result, outputFormat, transformFlags.pretty)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	if transformFlags.output == "" {
		_, err = os.Stdout.Write(output)
		return err
	}
	return os.WriteFile(transformFlags.output, output, 0o644)
}

// resolveFileFormat honors an explicit format flag, falling back to the file
// extension.
func resolveFileFormat(flag, path string) (document.Format, error) {
	if flag != "" {
		return document.ParseFormat(flag)
	}
	return document.DetectFormat(path), nil
}

// watchLogger builds a stderr logger for watch mode, debug level under
// --verbose.
func watchLogger() *logging.Logger {
	level := "info"
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Config{Level: level, Format: "text", Writer: os.Stderr})
	if err != nil {
		return logging.Discard()
	}
	return logger
}
