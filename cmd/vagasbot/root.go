package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/devparana/vagasbot/internal/config"
	"github.com/devparana/vagasbot/internal/extract"
	"github.com/devparana/vagasbot/internal/model"
	"github.com/devparana/vagasbot/internal/normalize"
	"github.com/devparana/vagasbot/internal/notifier"
	"github.com/devparana/vagasbot/internal/poller"
	"github.com/devparana/vagasbot/internal/ratelimit"
	"github.com/devparana/vagasbot/internal/store"
)

const (
	defaultConfigPath = "vagasbot.yaml"
	logTimeLayout     = "02/01/2006 15:04:05"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "vagasbot",
	Short: "Programming job listings, straight to Slack",
	Long:  "vagasbot scrapes a job listing page, keeps every posting it has seen and announces the new ones on a Slack channel.",
	// Default to `run` so a cron entry can invoke the binary directly.
	RunE:         runRun,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: VAGASBOT_CONFIG env var or ./vagasbot.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// resolveConfigPath picks the config file and reports whether it may be
// missing. Priority: explicit path arg > VAGASBOT_CONFIG env var >
// "./vagasbot.yaml". Only the built-in default is optional.
func resolveConfigPath(path string) (string, bool) {
	if path != "" {
		return path, false
	}
	if env := os.Getenv("VAGASBOT_CONFIG"); env != "" {
		return env, false
	}
	return defaultConfigPath, true
}

func loadConfig(path string) (*config.Config, error) {
	resolved, optional := resolveConfigPath(path)
	return config.Load(resolved, optional)
}

func setupLogger(dbg bool) *slog.Logger {
	return newLogger(os.Stdout, dbg)
}

// newLogger renders every line with a DD/MM/YYYY HH:mm:ss timestamp.
func newLogger(w io.Writer, dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String(slog.TimeKey, a.Value.Time().Format(logTimeLayout))
			}
			return a
		},
	}))
}

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.HTTPTimeout}
}

func setupSink(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) notifier.Sink {
	switch cfg.Notification.Type {
	case "slack":
		logger.Debug("using slack notifier")
		return notifier.NewSlackSink(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogSink(logger)
	}
}

// openStore opens (or creates) the configured record store.
func openStore(cfg *config.Config) (model.RecordStore, error) {
	switch cfg.Store.Type {
	case "sqlite":
		return store.NewSQLiteStore(cfg.Store.Path)
	default:
		return store.NewJSONStore(cfg.Store.Path)
	}
}

// loadStoredRecords reads every stored record without creating anything on
// disk. A store that does not exist yet is empty.
func loadStoredRecords(cfg *config.Config) ([]model.JobRecord, error) {
	if _, err := os.Stat(cfg.Store.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat store: %w", err)
	}
	st, err := openStoreReadOnly(cfg)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.All()
}

// openStoreReadOnly opens an existing store for reading. Nothing is written,
// not even the SQLite schema.
func openStoreReadOnly(cfg *config.Config) (model.RecordStore, error) {
	switch cfg.Store.Type {
	case "sqlite":
		return store.OpenSQLiteStoreReadOnly(cfg.Store.Path)
	default:
		// Opening an existing JSON document only reads it.
		return store.NewJSONStore(cfg.Store.Path)
	}
}

func newExtractor(cfg *config.Config, logger *slog.Logger) *extract.Extractor {
	dates := normalize.DateResolver{
		Today:     cfg.Extract.TodayWord,
		Yesterday: cfg.Extract.YesterdayWord,
	}
	return extract.NewExtractor(dates, logger, extract.WithSkipMalformed(cfg.Extract.SkipMalformed))
}

// buildPoller wires one pipeline run. The logger is tagged with a fresh run id.
func buildPoller(cfg *config.Config, st model.RecordStore, sink notifier.Sink, pacer *ratelimit.Pacer, httpClient *http.Client, logger *slog.Logger) *poller.Poller {
	runLogger := logger.With("run_id", uuid.NewString())
	fetcher := extract.NewPageFetcher(cfg.SourceURL, httpClient)
	n := notifier.NewNotifier(sink, st, pacer, runLogger)
	return poller.NewPoller(fetcher, newExtractor(cfg, runLogger), st, n, runLogger)
}
