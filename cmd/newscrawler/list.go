package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/li-k-z/news-crawler/internal/config"
	"github.com/li-k-z/news-crawler/internal/report"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command.
// This command lists persisted daily reports, newest first.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List persisted daily reports",
		Long: `List shows every persisted daily report in the report directory,
newest first, together with whether the report carries a summary
section.

Examples:
  # List reports in the default directory
  newscrawler list

  # List reports in a specific directory
  newscrawler list -o reports

  # Print one report body
  newscrawler list --date 2026-01-02

  # Output the listing in JSON format
  newscrawler list --json`,
		Args: cobra.NoArgs,
		RunE: runListCmd,
	}

	cmd.Flags().StringP("output", "o", "",
		"Report directory (default: OUTPUT_DIR or news_output)")
	cmd.Flags().StringP("date", "d", "",
		"Print the report body for this date (format: YYYY-MM-DD)")
	cmd.Flags().BoolP("json", "j", false,
		"Output the listing in JSON format")

	return cmd
}

// runListCmd executes the list command.
func runListCmd(cmd *cobra.Command, _ []string) error {
	// Only the report directory matters here, so the sources part of
	// the configuration is left unvalidated.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	outputDir, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}

	store := report.NewStore(cfg.OutputDir)

	date, err := cmd.Flags().GetString("date")
	if err != nil {
		return err
	}
	if date != "" {
		return printReport(store, date)
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	return listReports(store, jsonOutput)
}

// listReports prints the report listing as a table or as JSON.
func listReports(store *report.Store, jsonOutput bool) error {
	entries, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Printf("No reports found in %s\n", store.Dir())
		fmt.Println("\nUse 'newscrawler generate' to create today's report.")
		return nil
	}

	fmt.Printf("Reports in %s (%d):\n\n", store.Dir(), len(entries))
	fmt.Printf("  %-12s  %s\n", "Date", "Summary")
	fmt.Println("  " + strings.Repeat("-", 22))
	for _, entry := range entries {
		summary := "-"
		if entry.HasSummary {
			summary = "yes"
		}
		fmt.Printf("  %-12s  %s\n", entry.Date, summary)
	}
	fmt.Println("\nUse 'newscrawler list --date <date>' to print one report.")

	return nil
}

// printReport prints the persisted report body for one date.
func printReport(store *report.Store, date string) error {
	body, err := store.Read(date)
	if err != nil {
		if errors.Is(err, report.ErrReportNotFound) {
			return fmt.Errorf("no report for %s in %s", date, store.Dir())
		}
		return err
	}

	fmt.Print(body)
	if !strings.HasSuffix(body, "\n") {
		fmt.Println()
	}
	return nil
}
