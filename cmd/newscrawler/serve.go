package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/li-k-z/news-crawler/internal/report"
	"github.com/li-k-z/news-crawler/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the news generation HTTP server",
		Long: `Serve starts an HTTP server exposing the generation pipeline:

  GET  /api/health           liveness probe
  GET  /api/news-list        dates of persisted reports
  GET  /api/news-detail      one report body by date
  POST /api/generate-news    start a generation run
  GET  /api/generate-status  progress of the current run

When the static directory exists it is served at the root path, so a
bundled frontend and the API share one listener.

Examples:
  # Serve on the default address (:8000)
  newscrawler serve

  # Serve on a specific port with a custom frontend directory
  newscrawler serve -a :9000 -s ./dist`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Sources file path (default: .news-crawler.yml in current or home directory)")
	cmd.Flags().StringP("output", "o", "",
		"Report directory (default: OUTPUT_DIR or news_output)")
	cmd.Flags().StringP("addr", "a", "",
		"Listen address (default: SERVER_ADDR or :8000)")
	cmd.Flags().StringP("static", "s", "",
		"Frontend directory served at the root path (default: STATIC_DIR or HTML)")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.ServerAddr = addr
	}

	staticDir, err := cmd.Flags().GetString("static")
	if err != nil {
		return err
	}
	if staticDir != "" {
		cfg.StaticDir = staticDir
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	verbose := getVerboseFlag(cmd)
	cfg.Verbose = verbose
	logger := setupLogger(verbose)
	slog.SetDefault(logger)

	// Stop the server on interrupt; in-flight requests get a grace
	// period to drain.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, stopping server...")
		cancel()
	}()

	runner := buildRunner(cfg, logger)
	store := report.NewStore(cfg.OutputDir)

	fmt.Printf("Serving on %s (reports: %s)\n", cfg.ServerAddr, cfg.OutputDir)
	return server.New(cfg, runner, store, logger).Run(ctx)
}
