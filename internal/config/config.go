package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/devparana/vagasbot/internal/model"
)

// DefaultSourceURL is the infojobs listing of programming jobs in Paraná.
const DefaultSourceURL = "http://www.infojobs.com.br/vagas-de-emprego-programador-em-parana.aspx?Categoria=74&gridtype=2"

// envPrefix namespaces environment overrides, e.g. VAGASBOT_WEBHOOK_URL.
const envPrefix = "VAGASBOT"

// Config is the root configuration for vagasbot.
type Config struct {
	SourceURL    string
	DataDir      string
	HTTPTimeout  time.Duration
	Interval     time.Duration // pause between runs in watch mode
	Store        StoreConfig
	Notification NotificationConfig
	Extract      ExtractConfig
}

// StoreConfig selects the record store backend.
type StoreConfig struct {
	Type string // "json" or "sqlite"
	Path string // defaults to a file inside DataDir
}

// NotificationConfig controls which sink is used and its settings.
type NotificationConfig struct {
	Type       string        // "slack" or "log"
	WebhookURL string        // required if type is "slack"
	Delay      time.Duration // pause after each post
}

// ExtractConfig tunes how postings are read from the page.
type ExtractConfig struct {
	SkipMalformed bool   // log and drop bad postings instead of failing the run
	TodayWord     string // the site's word for "today"
	YesterdayWord string // the site's word for "yesterday"
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	SourceURL    string                `yaml:"source_url"`
	DataDir      string                `yaml:"data_dir"`
	HTTPTimeout  string                `yaml:"http_timeout"`
	Interval     string                `yaml:"interval"`
	Store        rawStoreConfig        `yaml:"store"`
	Notification rawNotificationConfig `yaml:"notification"`
	Extract      rawExtractConfig      `yaml:"extract"`
}

type rawStoreConfig struct {
	Type string `yaml:"type"`
	Path string `yaml:"path"`
}

type rawNotificationConfig struct {
	Type       string `yaml:"type"`
	WebhookURL string `yaml:"webhook_url"`
	Delay      string `yaml:"delay"`
}

type rawExtractConfig struct {
	SkipMalformed bool   `yaml:"skip_malformed"`
	TodayWord     string `yaml:"today_word"`
	YesterdayWord string `yaml:"yesterday_word"`
}

// envOverrides are read from the process environment after the file and win
// over it.
type envOverrides struct {
	WebhookURL string `envconfig:"WEBHOOK_URL"`
	SourceURL  string `envconfig:"SOURCE_URL"`
	DataDir    string `envconfig:"DATA_DIR"`
	StoreType  string `envconfig:"STORE_TYPE"`
}

// legacyEnv holds the variable names existing deployments already export.
// They are read without the prefix and lose to the VAGASBOT_ names.
type legacyEnv struct {
	WebhookURL string `envconfig:"LABS_SLACK_WEBHOOK_URL_DEVPARANA_BOT_PR"`
}

// Load reads the YAML file at path, applies environment overrides, fills in
// defaults and validates the result. When optional is true a missing file is
// not an error and configuration comes from defaults and the environment.
func Load(path string, optional bool) (*Config, error) {
	var raw rawConfig

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// Expand environment variables
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case optional && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	var legacy legacyEnv
	if err := envconfig.Process("", &legacy); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	var env envOverrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if env.WebhookURL == "" {
		env.WebhookURL = legacy.WebhookURL
	}
	applyEnv(&raw, env)

	cfg, err := fromRaw(raw)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(raw *rawConfig, env envOverrides) {
	if env.WebhookURL != "" {
		raw.Notification.WebhookURL = env.WebhookURL
	}
	if env.SourceURL != "" {
		raw.SourceURL = env.SourceURL
	}
	if env.DataDir != "" {
		raw.DataDir = env.DataDir
	}
	if env.StoreType != "" {
		raw.Store.Type = env.StoreType
	}
}

func fromRaw(raw rawConfig) (*Config, error) {
	httpTimeout, err := parseDuration("http_timeout", raw.HTTPTimeout, 30*time.Second)
	if err != nil {
		return nil, err
	}
	interval, err := parseDuration("interval", raw.Interval, 30*time.Minute)
	if err != nil {
		return nil, err
	}
	delay, err := parseDuration("notification.delay", raw.Notification.Delay, time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		SourceURL:   orDefault(raw.SourceURL, DefaultSourceURL),
		DataDir:     orDefault(raw.DataDir, "data"),
		HTTPTimeout: httpTimeout,
		Interval:    interval,
		Store: StoreConfig{
			Type: strings.ToLower(orDefault(raw.Store.Type, "json")),
			Path: raw.Store.Path,
		},
		Notification: NotificationConfig{
			Type:       strings.ToLower(orDefault(raw.Notification.Type, "slack")),
			WebhookURL: raw.Notification.WebhookURL,
			Delay:      delay,
		},
		Extract: ExtractConfig{
			SkipMalformed: raw.Extract.SkipMalformed,
			TodayWord:     raw.Extract.TodayWord,
			YesterdayWord: raw.Extract.YesterdayWord,
		},
	}

	if cfg.Store.Path == "" {
		name := "db.json"
		if cfg.Store.Type == "sqlite" {
			name = "jobs.db"
		}
		cfg.Store.Path = filepath.Join(cfg.DataDir, name)
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.SourceURL == "" {
		return fmt.Errorf("source_url must not be empty")
	}
	if cfg.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive, got %v", cfg.HTTPTimeout)
	}
	if cfg.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", cfg.Interval)
	}
	if cfg.Notification.Delay < 0 {
		return fmt.Errorf("notification.delay must not be negative, got %v", cfg.Notification.Delay)
	}

	switch cfg.Store.Type {
	case "json", "sqlite":
	default:
		return fmt.Errorf("store.type must be \"json\" or \"sqlite\", got %q", cfg.Store.Type)
	}

	switch cfg.Notification.Type {
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("set notification.webhook_url or %s_WEBHOOK_URL: %w", envPrefix, model.ErrMissingWebhook)
		}
	case "log":
	default:
		return fmt.Errorf("notification.type must be \"slack\" or \"log\", got %q", cfg.Notification.Type)
	}

	return nil
}

// EnsureDataDir creates the data directory and the store's parent directory.
func EnsureDataDir(cfg *Config) error {
	for _, dir := range []string{cfg.DataDir, filepath.Dir(cfg.Store.Path)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating data dir %s: %w", dir, err)
		}
	}
	return nil
}

func parseDuration(key, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", key, value, err)
	}
	return d, nil
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
