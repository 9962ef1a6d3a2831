package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/devparana/vagasbot/internal/notifier"
	"github.com/devparana/vagasbot/internal/ratelimit"
	"github.com/devparana/vagasbot/internal/store"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Dry run: print what would be sent, exit",
	Long:  "One-shot run against an in-memory copy of the store. Messages are logged instead of posted and nothing is written to disk.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("check mode: nothing will be posted or stored")

	records, err := loadStoredRecords(cfg)
	if err != nil {
		logger.Error("failed to read store", "error", err)
		os.Exit(1)
	}
	memStore, err := store.NewMemoryStoreFrom(records)
	if err != nil {
		logger.Error("failed to copy store", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := buildPoller(cfg, memStore, notifier.NewLogSink(logger), ratelimit.NewPacer(0), newHTTPClient(cfg), logger)
	sum, err := p.Run(ctx)
	if err != nil {
		logger.Error("check failed", "error", err)
		stop()
		os.Exit(1)
	}

	fmt.Printf("\n%d extracted | %d new | %d pending | %d would be sent\n", sum.Extracted, sum.Inserted, sum.Pending, sum.Sent)
	return nil
}
