package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/devparana/vagasbot/internal/config"
	"github.com/devparana/vagasbot/internal/lock"
	"github.com/devparana/vagasbot/internal/ratelimit"
	"github.com/devparana/vagasbot/internal/scheduler"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the pipeline on an interval",
	Long:  "Runs the pipeline immediately and then every configured interval; blocks until SIGINT/SIGTERM.",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.EnsureDataDir(cfg); err != nil {
		logger.Error("failed to prepare data dir", "error", err)
		os.Exit(1)
	}

	dirLock, err := lock.Acquire(cfg.DataDir)
	if err != nil {
		logger.Error("failed to lock data dir", "error", err)
		os.Exit(1)
	}
	defer dirLock.Release()

	st, err := openStore(cfg)
	if err != nil {
		logger.Error("failed to open store", "error", fmt.Errorf("open store: %w", err))
		dirLock.Release()
		os.Exit(1)
	}
	defer st.Close()

	httpClient := newHTTPClient(cfg)
	sink := setupSink(cfg, httpClient, logger)
	pacer := ratelimit.NewPacer(cfg.Notification.Delay)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler(func(ctx context.Context) error {
		_, err := buildPoller(cfg, st, sink, pacer, httpClient, logger).Run(ctx)
		return err
	}, cfg.Interval, logger)

	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		return err
	}

	logger.Info("goodbye")
	return nil
}
