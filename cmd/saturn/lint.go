package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"mercator-hq/saturn/pkg/cli"
	"mercator-hq/saturn/pkg/document"
	"mercator-hq/saturn/pkg/template"
)

var lintFlags struct {
	file   string
	dir    string
	strict bool
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate template files",
	Long: `Validate transformation templates for syntax and structural errors.

The lint command parses template files and checks everything decidable from
the template alone:
  - Document syntax (JSON or YAML)
  - Key decorations ("[name]" conversion markers, "...name" spreads)
  - Spread placement (spreads must sit inside an array conversion)
  - Conversion coverage (every conversion needs a spread descendant)

A template that lints clean can still fail at transform time against a
particular source (missing fields, spread length mismatches).

Examples:
  # Lint single file
  saturn lint --file invoice.template.json

  # Lint directory
  saturn lint --dir templates/

  # Strict mode (warnings as errors)
  saturn lint --file invoice.template.json --strict

  # JSON output for CI/CD
  saturn lint --file invoice.template.json --format json`,
	RunE: lintTemplates,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "template file to validate")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of template files")
	lintCmd.Flags().BoolVar(&lintFlags.strict, "strict", false, "treat warnings as errors")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

func lintTemplates(cmd *cobra.Command, args []string) error {
	if lintFlags.file == "" && lintFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}

	var files []string

	if lintFlags.file != "" {
		files = append(files, lintFlags.file)
	}

	if lintFlags.dir != "" {
		for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(lintFlags.dir, pattern))
			if err != nil {
				return fmt.Errorf("failed to list template files: %w", err)
			}
			files = append(files, matches...)
		}
	}

	if len(files) == 0 {
		return fmt.Errorf("no template files found")
	}

	results := make([]LintResult, 0, len(files))
	for _, file := range files {
		results = append(results, lintTemplateFile(file))
	}

	if lintFlags.format == "json" {
		return outputLintJSON(results)
	}
	return outputLintText(results, lintFlags.strict)
}

// LintResult represents the validation result for a single template file.
type LintResult struct {
	File     string        `json:"file"`
	Valid    bool          `json:"valid"`
	Errors   []LintFinding `json:"errors,omitempty"`
	Warnings []LintFinding `json:"warnings,omitempty"`
}

// LintFinding represents a single validation error or warning.
type LintFinding struct {
	Kind       string `json:"kind,omitempty"`
	Path       string `json:"path,omitempty"`
	Message    string `json:"message"`
	Severity   string `json:"severity"`
	Suggestion string `json:"suggestion,omitempty"`
}

func lintTemplateFile(path string) LintResult {
	result := LintResult{
		File:  path,
		Valid: true,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, LintFinding{
			Message:  err.Error(),
			Severity: "error",
		})
		return result
	}

	tmpl, err := document.Decode(data, document.DetectFormat(path))
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, LintFinding{
			Kind:     "syntax",
			Message:  err.Error(),
			Severity: "error",
		})
		return result
	}

	findings := template.Validate(tmpl)
	for _, f := range findings.Findings {
		finding := LintFinding{
			Kind:       string(f.Kind),
			Path:       f.Path,
			Message:    f.Message,
			Severity:   string(f.Severity),
			Suggestion: f.Suggestion,
		}
		if f.Severity == template.SeverityWarning {
			result.Warnings = append(result.Warnings, finding)
		} else {
			result.Errors = append(result.Errors, finding)
		}
	}

	if len(result.Errors) > 0 || (lintFlags.strict && len(result.Warnings) > 0) {
		result.Valid = false
	}

	return result
}

func outputLintText(results []LintResult, strict bool) error {
	totalErrors := 0
	totalWarnings := 0

	for _, result := range results {
		fmt.Printf("Validating %s...\n", result.File)

		if len(result.Errors) == 0 && len(result.Warnings) == 0 {
			fmt.Println("✓ Template valid")
		}

		for _, e := range result.Errors {
			totalErrors++
			if e.Path != "" {
				fmt.Printf("✗ error [%s] at %s: %s\n", e.Kind, e.Path, e.Message)
			} else {
				fmt.Printf("✗ error: %s\n", e.Message)
			}
			if e.Suggestion != "" {
				fmt.Printf("  suggestion: %s\n", e.Suggestion)
			}
		}

		for _, w := range result.Warnings {
			totalWarnings++
			if w.Path != "" {
				fmt.Printf("⚠ warning [%s] at %s: %s\n", w.Kind, w.Path, w.Message)
			} else {
				fmt.Printf("⚠ warning: %s\n", w.Message)
			}
		}

		fmt.Println()
	}

	fmt.Printf("%d file(s) checked, %d error(s), %d warning(s)\n",
		len(results), totalErrors, totalWarnings)

	if totalErrors > 0 || (strict && totalWarnings > 0) {
		return fmt.Errorf("validation failed")
	}
	return nil
}

func outputLintJSON(results []LintResult) error {
	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, results); err != nil {
		return err
	}

	for _, result := range results {
		if !result.Valid {
			return fmt.Errorf("validation failed")
		}
	}
	return nil
}
