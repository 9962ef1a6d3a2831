package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/devparana/vagasbot/internal/config"
	"github.com/devparana/vagasbot/internal/lock"
	"github.com/devparana/vagasbot/internal/ratelimit"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline once",
	Long:  "Fetches the listing page, stores new postings and announces every pending one on Slack, then exits.",
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runPipeline(ctx, cfg, logger); err != nil {
		logger.Error("run failed", "error", err)
		stop()
		os.Exit(1)
	}
	return nil
}

// runPipeline prepares the data dir, takes the instance lock and performs a
// single run against the configured store and sink.
func runPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if err := config.EnsureDataDir(cfg); err != nil {
		return err
	}

	dirLock, err := lock.Acquire(cfg.DataDir)
	if err != nil {
		return err
	}
	defer dirLock.Release()

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	httpClient := newHTTPClient(cfg)
	sink := setupSink(cfg, httpClient, logger)
	pacer := ratelimit.NewPacer(cfg.Notification.Delay)

	_, err = buildPoller(cfg, st, sink, pacer, httpClient, logger).Run(ctx)
	return err
}
