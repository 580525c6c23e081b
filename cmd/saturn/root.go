package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "saturn",
	Short: "Saturn - declarative document transformation engine",
	Long: `Saturn is a declarative engine for reworking JSON and YAML documents.

A transformation is described by a template that is itself a document: its
leaves name paths into the source ("/order/customer/name"), quoted strings
pass through literally ('pending'), and decorated keys convert nested
objects into arrays ("[items]" with "...id" spread entries).

Commands:
  - transform: apply a template to a source document
  - lint:      statically validate template files
  - serve:     run the HTTP transform service
  - history:   query the audit log of past transform runs

For more information, visit: https://github.com/mercator-hq/saturn`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.CompletionOptions.DisableDefaultCmd = false
}
