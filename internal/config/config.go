// Package config loads brsalaries settings.
//
// Values are layered: built-in defaults, then an optional YAML file, then a
// .env file, then BRSALARIES_* environment variables. Command-line flags are
// applied on top by the cli package.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/fr4nk3nst1ner/brsalaries/internal/client"
	"github.com/fr4nk3nst1ner/brsalaries/internal/runner"
	"github.com/fr4nk3nst1ner/brsalaries/internal/scraper"
	"github.com/fr4nk3nst1ner/brsalaries/internal/store"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFile = "brsalaries.yaml"
	EnvPrefix   = "BRSALARIES_"
)

// Config holds every tunable of a campaign
type Config struct {
	// Files
	LinksFile      string `yaml:"links_file" env:"LINKS_FILE"`
	CheckpointFile string `yaml:"checkpoint_file" env:"CHECKPOINT_FILE"`
	Store          string `yaml:"store" env:"STORE"`
	SQLitePath     string `yaml:"sqlite_path" env:"SQLITE_PATH"`

	// Scheduling
	Mode              string        `yaml:"mode" env:"MODE"`
	Pace              time.Duration `yaml:"pace" env:"PACE"`
	Timeout           time.Duration `yaml:"timeout" env:"TIMEOUT"`
	Concurrency       int           `yaml:"concurrency" env:"CONCURRENCY"`
	PerHost           int           `yaml:"per_host" env:"PER_HOST"`
	BatchSize         int           `yaml:"batch_size" env:"BATCH_SIZE"`
	RequestsPerSecond float64       `yaml:"requests_per_second" env:"REQUESTS_PER_SECOND"`
	RetryFailed       bool          `yaml:"retry_failed" env:"RETRY_FAILED"`

	// Parsing
	TableID  string `yaml:"table_id" env:"TABLE_ID"`
	YearMin  int    `yaml:"year_min" env:"YEAR_MIN"`
	YearMax  int    `yaml:"year_max" env:"YEAR_MAX"`
	Currency string `yaml:"currency" env:"CURRENCY"`

	// Request identity; empty values fall back to the client defaults
	UserAgent      string `yaml:"user_agent" env:"USER_AGENT"`
	Accept         string `yaml:"accept" env:"ACCEPT"`
	AcceptLanguage string `yaml:"accept_language" env:"ACCEPT_LANGUAGE"`
	ClearanceToken string `yaml:"clearance_token" env:"CLEARANCE_TOKEN"`
	Proxy          string `yaml:"proxy" env:"PROXY"`

	LogFile  string `yaml:"log_file" env:"LOG_FILE"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
}

// Default returns the settings used when nothing overrides them
func Default() Config {
	return Config{
		LinksFile:      "unique_links.json",
		CheckpointFile: "salaries.json",
		Store:          string(store.KindJSON),
		SQLitePath:     "salaries.db",
		Mode:           string(runner.ModeSequential),
		Pace:           runner.DefaultPace,
		Timeout:        30 * time.Second,
		Concurrency:    10,
		PerHost:        5,
		BatchSize:      10,
		TableID:        scraper.DefaultTableID,
		YearMin:        scraper.DefaultYears.Min,
		YearMax:        scraper.DefaultYears.Max,
		Currency:       "$",
		LogFile:        "brsalaries.log",
		LogLevel:       "info",
	}
}

// Load builds a Config from the defaults, the YAML file at path, the given
// .env files (".env" when none are named) and the environment. A missing
// YAML file is only an error when required is set; missing .env files are
// ignored.
func Load(path string, required bool, dotenv ...string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultFile
	}
	if err := cfg.mergeFile(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) || required {
			return cfg, err
		}
	}

	if err := loadDotEnv(dotenv...); err != nil {
		return cfg, err
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func loadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			var pathErr *os.PathError
			if errors.As(err, &pathErr) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func (c *Config) normalize() {
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.BatchSize <= 0 {
		c.BatchSize = c.Concurrency
	}
}

// Validate reports the first setting that cannot drive a run
func (c Config) Validate() error {
	var errs []error
	switch store.Kind(c.Store) {
	case store.KindJSON:
		if c.CheckpointFile == "" {
			errs = append(errs, errors.New("checkpoint_file is required for the json store"))
		}
	case store.KindSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("sqlite_path is required for the sqlite store"))
		}
	default:
		errs = append(errs, fmt.Errorf("store must be json or sqlite, got %q", c.Store))
	}
	switch runner.Mode(c.Mode) {
	case runner.ModeSequential, runner.ModeConcurrent:
	default:
		errs = append(errs, fmt.Errorf("mode must be sequential or concurrent, got %q", c.Mode))
	}
	if c.Pace < 0 {
		errs = append(errs, fmt.Errorf("pace must not be negative, got %s", c.Pace))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	if c.PerHost < 1 {
		errs = append(errs, fmt.Errorf("per_host must be at least 1, got %d", c.PerHost))
	}
	if c.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("requests_per_second must not be negative, got %g", c.RequestsPerSecond))
	}
	if c.YearMin > c.YearMax {
		errs = append(errs, fmt.Errorf("year_min %d is after year_max %d", c.YearMin, c.YearMax))
	}
	if c.TableID == "" {
		errs = append(errs, errors.New("table_id is required"))
	}
	if c.Currency == "" {
		errs = append(errs, errors.New("currency is required"))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel))
	}
	return errors.Join(errs...)
}

// StorePath is the location of the configured checkpoint backend
func (c Config) StorePath() string {
	if store.Kind(c.Store) == store.KindSQLite {
		return c.SQLitePath
	}
	return c.CheckpointFile
}

// Years is the accepted season range
func (c Config) Years() scraper.YearRange {
	return scraper.YearRange{Min: c.YearMin, Max: c.YearMax}
}

// Parser builds the salary table parser for these settings
func (c Config) Parser() scraper.TableParser {
	p := scraper.NewTableParser(c.Years())
	p.CurrencyMarker = c.Currency
	return p
}

// ClientOptions maps the request settings onto the fetcher options
func (c Config) ClientOptions() client.Options {
	return client.Options{
		UserAgent:      c.UserAgent,
		Accept:         c.Accept,
		AcceptLanguage: c.AcceptLanguage,
		ClearanceToken: c.ClearanceToken,
		ProxyURL:       c.Proxy,
		Timeout:        c.Timeout,
		MaxConns:       c.Concurrency,
		PerHost:        c.PerHost,
	}
}

// ProcessorOptions maps the scheduling settings onto the runner
func (c Config) ProcessorOptions() runner.ProcessorOptions {
	return runner.ProcessorOptions{
		Pace:              c.Pace,
		Concurrency:       c.Concurrency,
		PerHost:           c.PerHost,
		BatchSize:         c.BatchSize,
		RequestsPerSecond: c.RequestsPerSecond,
	}
}
