package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"mercator-hq/saturn/pkg/audit"
	"mercator-hq/saturn/pkg/cli"
	"mercator-hq/saturn/pkg/config"
	"mercator-hq/saturn/pkg/telemetry/logging"
)

var historyFlags struct {
	timeRange    string
	status       string
	errorKind    string
	mode         string
	templateHash string
	limit        int
	offset       int
	sort         string
	format       string
	output       string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query the audit log of past transform runs",
	Long: `Query transform runs recorded in the audit log.

The history command reads the audit store configured for the serve command
(audit.backend in the config file, sqlite by default).

Time Range Format:
  RFC3339 interval format: "start/end"
  Example: "2026-08-28T00:00:00Z/2026-08-29T00:00:00Z"

Examples:
  # Last 100 runs
  saturn history

  # Failed runs only
  saturn history --status error

  # Runs recorded by the HTTP service
  saturn history --mode serve

  # Export to JSON file
  saturn history --format json --output runs.json`,
	RunE: queryHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyFlags.timeRange, "time-range", "", "time range (RFC3339 interval: start/end)")
	historyCmd.Flags().StringVar(&historyFlags.status, "status", "", "filter by status (success, error)")
	historyCmd.Flags().StringVar(&historyFlags.errorKind, "error-kind", "", "filter by error kind (missing_field, spread_length_mismatch, ...)")
	historyCmd.Flags().StringVar(&historyFlags.mode, "mode", "", "filter by run mode (cli, serve)")
	historyCmd.Flags().StringVar(&historyFlags.templateHash, "template-hash", "", "filter by template hash")
	historyCmd.Flags().IntVar(&historyFlags.limit, "limit", 100, "max results")
	historyCmd.Flags().IntVar(&historyFlags.offset, "offset", 0, "pagination offset")
	historyCmd.Flags().StringVar(&historyFlags.sort, "sort", "desc", "sort by start time: asc, desc")
	historyCmd.Flags().StringVar(&historyFlags.format, "format", "text", "output format: text, json")
	historyCmd.Flags().StringVarP(&historyFlags.output, "output", "o", "", "output file (default: stdout)")
}

func queryHistory(cmd *cobra.Command, args []string) error {
	// Load config to get backend settings
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	if cfg.Audit.Backend != "sqlite" {
		return fmt.Errorf("history requires the sqlite audit backend (configured: %s)", cfg.Audit.Backend)
	}

	store, err := audit.NewSQLiteStore(&cfg.Audit.SQLite, logging.Discard())
	if err != nil {
		return cli.NewCommandError("history", fmt.Errorf("failed to open audit store: %w", err))
	}
	defer store.Close()

	query := &audit.Query{
		Status:       historyFlags.status,
		ErrorKind:    historyFlags.errorKind,
		Mode:         historyFlags.mode,
		TemplateHash: historyFlags.templateHash,
		Limit:        historyFlags.limit,
		Offset:       historyFlags.offset,
		SortOrder:    historyFlags.sort,
	}

	if historyFlags.timeRange != "" {
		parts := strings.Split(historyFlags.timeRange, "/")
		if len(parts) != 2 {
			return fmt.Errorf("invalid time range format (expected: start/end)")
		}

		startTime, err := time.Parse(time.RFC3339, parts[0])
		if err != nil {
			return fmt.Errorf("invalid start time: %w", err)
		}
		query.StartTime = &startTime

		endTime, err := time.Parse(time.RFC3339, parts[1])
		if err != nil {
			return fmt.Errorf("invalid end time: %w", err)
		}
		query.EndTime = &endTime
	}

	records, err := store.Query(context.Background(), query)
	if err != nil {
		return cli.NewCommandError("history", fmt.Errorf("query failed: %w", err))
	}

	output := os.Stdout
	if historyFlags.output != "" {
		output, err = os.Create(historyFlags.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	}

	if historyFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		return formatter.FormatTo(output, records)
	}
	return outputHistoryText(output, records, query)
}

func outputHistoryText(output *os.File, records []*audit.Record, query *audit.Query) error {
	if query.StartTime != nil && query.EndTime != nil {
		fmt.Fprintf(output, "Time range: %s to %s\n",
			query.StartTime.Format(time.RFC3339),
			query.EndTime.Format(time.RFC3339))
	}
	fmt.Fprintf(output, "Total records: %d\n", len(records))
	fmt.Fprintln(output)

	if len(records) == 0 {
		fmt.Fprintln(output, "No records found.")
		return nil
	}

	for i, record := range records {
		if i > 0 {
			fmt.Fprintln(output)
		}

		fmt.Fprintf(output, "Run ID: %s\n", record.ID)
		fmt.Fprintf(output, "Started: %s\n", record.StartedAt.Format(time.RFC3339))
		fmt.Fprintf(output, "Mode: %s\n", record.Mode)
		fmt.Fprintf(output, "Template Hash: %s\n", record.TemplateHash)
		fmt.Fprintf(output, "Formats: %s -> %s\n", record.SourceFormat, record.OutputFormat)
		fmt.Fprintf(output, "Bytes: %d in, %d out\n", record.SourceBytes, record.OutputBytes)
		fmt.Fprintf(output, "Duration: %s\n", record.Duration)
		fmt.Fprintf(output, "Status: %s\n", record.Status)
		if record.ErrorKind != "" {
			fmt.Fprintf(output, "Error: [%s] %s\n", record.ErrorKind, record.ErrorMessage)
		}
	}

	return nil
}
