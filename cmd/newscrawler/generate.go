package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/li-k-z/news-crawler/internal/config"
	"github.com/li-k-z/news-crawler/internal/crawler"
	"github.com/li-k-z/news-crawler/internal/dump"
	"github.com/li-k-z/news-crawler/internal/job"
	"github.com/li-k-z/news-crawler/internal/logging"
	"github.com/li-k-z/news-crawler/internal/report"
	"github.com/li-k-z/news-crawler/internal/summarize"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

// Preview shown after a successful run: the first few report lines,
// each truncated to a terminal-friendly width. Widths are counted in
// display cells so CJK text does not overflow.
const (
	previewLines = 6
	previewWidth = 72
)

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Fetch news, summarize it, and write today's report",
		Long: `Generate runs the full pipeline once: fetch headlines from every
configured source, summarize them with the configured AI backend, and
write the dated Markdown report.

Without an API key the report falls back to a locally synthesized
summary instead of failing; a run fails only when no news could be
fetched at all or the report cannot be written.

Examples:
  # Generate today's report with environment configuration
  newscrawler generate

  # Use a specific sources file and report directory
  newscrawler generate -c sources.yml -o reports

  # Keep only the five newest items
  newscrawler generate -n 5`,
		Args: cobra.NoArgs,
		RunE: runGenerateCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Sources file path (default: .news-crawler.yml in current or home directory)")
	cmd.Flags().StringP("output", "o", "",
		"Report directory (default: OUTPUT_DIR or news_output)")
	cmd.Flags().IntP("max-articles", "n", 0,
		"Cap on deduplicated items kept per run (default: MAX_ARTICLES or 10)")

	return cmd
}

// runGenerateCmd executes the generate command.
func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	maxArticles, err := cmd.Flags().GetInt("max-articles")
	if err != nil {
		return err
	}
	if maxArticles > 0 {
		cfg.MaxArticles = maxArticles
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	verbose := getVerboseFlag(cmd)
	cfg.Verbose = verbose
	logger := setupLogger(verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runGenerate(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates a structured logger for the given verbosity.
// Attribute values carrying credentials (API keys, proxy auth) are
// masked before they reach the output.
func setupLogger(verbose bool) *slog.Logger {
	return logging.NewSecureLogger(os.Stderr, verbose)
}

// buildConfig loads the environment configuration and applies the flag
// overrides shared by generate and serve. The result is not validated;
// callers run Validate after applying their command-specific flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	// An explicitly requested sources file must exist; the silent
	// search fallback applies only when no path was given.
	sourcesFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if sourcesFile != "" {
		file, err := config.LoadSourcesFile(sourcesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load sources file %s: %w", sourcesFile, err)
		}
		cfg.Sources = file.Sources
		cfg.SourcesFile = sourcesFile
	}

	outputDir, err := cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}

	return cfg, nil
}

// buildRunner wires the fetch, summarize, and persist stages from the
// configuration. Debug artifacts (listing pages, raw AI responses) go
// to the configured debug directory.
func buildRunner(cfg *config.Config, logger *slog.Logger) *job.Runner {
	sink := dump.NewFileSink(cfg.DebugDir)

	fetcher := crawler.NewFetcher(cfg,
		crawler.WithSink(sink),
		crawler.WithLogger(logger),
	)
	client := summarize.NewClient(cfg,
		summarize.WithSink(sink),
		summarize.WithLogger(logger),
	)
	store := report.NewStore(cfg.OutputDir)

	return job.NewRunner(fetcher, client, store, job.WithRunnerLogger(logger))
}

// runGenerate executes one generation run and reports the outcome.
func runGenerate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	runner := buildRunner(cfg, logger)

	fmt.Printf("Fetching news from %d source(s)...\n", len(cfg.Sources))
	startTime := time.Now()

	snap, err := runner.RunOnce(ctx)
	if err != nil {
		return err
	}
	if snap.Status != job.StatusCompleted {
		return fmt.Errorf("generation failed: %s", snap.Error)
	}

	elapsed := time.Since(startTime)
	fmt.Printf("Report generated in %s\n", elapsed.Round(time.Millisecond))

	store := report.NewStore(cfg.OutputDir)
	if path, err := store.Find(time.Now().Format("2006-01-02")); err == nil {
		fmt.Printf("Report: %s\n", path)
		printPreview(path)
	}

	return nil
}

// printPreview echoes the first few lines of the written report.
func printPreview(path string) {
	data, err := os.ReadFile(path) //nolint:gosec // Path comes from the report store
	if err != nil {
		return
	}

	fmt.Println()
	for i, line := range strings.Split(string(data), "\n") {
		if i == previewLines {
			fmt.Println("  ...")
			break
		}
		fmt.Println("  " + runewidth.Truncate(line, previewWidth, "..."))
	}
}
