package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devparana/vagasbot/internal/browse"
	"github.com/devparana/vagasbot/internal/config"
	"github.com/devparana/vagasbot/internal/extract"
	"github.com/devparana/vagasbot/internal/model"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse jobs interactively (TUI)",
	Long:  "Shows the source picker TUI, then launches the split-pane view over stored records or the live listing page.",
	RunE:  runBrowseCmd,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowseCmd(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	runBrowse(cfg)
	return nil
}

func runBrowse(cfg *config.Config) {
	// Log output while the TUI owns the screen corrupts the display.
	logger := silentLogger()
	fetcher := extract.NewPageFetcher(cfg.SourceURL, newHTTPClient(cfg))
	extractor := newExtractor(cfg, logger)

	for {
		source, err := browse.RunSourcePicker()
		if err != nil {
			fmt.Printf("Picker error: %v\n", err)
			return
		}

		var left, right browse.Pane
		switch source {
		case browse.SourceStored:
			records, err := browse.RunLoader("Loading stored jobs", func(context.Context) ([]model.JobRecord, error) {
				return loadStoredRecords(cfg)
			})
			if err != nil {
				fmt.Printf("Error loading jobs: %v\n", err)
				continue
			}
			left, right = browse.StoredPanes(records)
		case browse.SourceLive:
			records, err := browse.RunLoader("Fetching "+fetcher.URL(), func(ctx context.Context) ([]model.JobRecord, error) {
				page, err := fetcher.Fetch(ctx)
				if err != nil {
					return nil, err
				}
				return extractor.Extract(bytes.NewReader(page))
			})
			if err != nil {
				fmt.Printf("Error fetching jobs: %v\n", err)
				continue
			}
			stored, err := loadStoredRecords(cfg)
			if err != nil {
				fmt.Printf("Error loading jobs: %v\n", err)
				continue
			}
			left, right = browse.LivePanes(records, storedIDs(stored))
		default:
			return
		}

		wantQuit, err := browse.RunBrowser(left, right)
		if err != nil {
			fmt.Printf("TUI error: %v\n", err)
		}
		if wantQuit {
			return
		}
	}
}

func storedIDs(records []model.JobRecord) map[string]struct{} {
	ids := make(map[string]struct{}, len(records))
	for _, r := range records {
		ids[r.ID] = struct{}{}
	}
	return ids
}
