// Package cli provides the brsalaries command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fr4nk3nst1ner/brsalaries/internal/config"
	"github.com/fr4nk3nst1ner/brsalaries/internal/logging"
	"github.com/fr4nk3nst1ner/brsalaries/internal/store"
	"github.com/fr4nk3nst1ner/brsalaries/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is set at build time.
var Version = "0.1.0"

// app carries what every command needs once the config is loaded
type app struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	silence    bool

	cfg      config.Config
	logger   *slog.Logger
	closeLog func() error
}

// NewRootCmd builds the command tree writing to out and errOut
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, closeLog: func() error { return nil }}

	root := &cobra.Command{
		Use:   "brsalaries",
		Short: "Collect player salary histories from baseball-reference",
		Long: `brsalaries collects year-by-year salary history for a list of players.

A campaign starts from a roster CSV, which "links" turns into a numbered
work list. "run" scrapes every player not yet in the checkpoint and saves
after each one, so an interrupted run resumes where it stopped.

Examples:
  brsalaries links players.csv
  brsalaries run --mode concurrent --per-host 3
  brsalaries export --out salaries.csv
  brsalaries summary --top 20`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if err := a.closeLog(); err != nil {
				fmt.Fprintf(a.errOut, "Warning: failed to close log file: %v\n", err)
			}
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "config file (default "+config.DefaultFile+")")
	pf.BoolVarP(&a.silence, "silence", "s", false, "hide the banner and progress bar")
	pf.String("log-level", "", "debug, info, warn or error")
	pf.String("log-file", "", "JSON log file")
	pf.String("store", "", "checkpoint backend: json or sqlite")
	pf.String("checkpoint", "", "JSON checkpoint file")
	pf.String("sqlite-path", "", "SQLite checkpoint database")

	root.AddCommand(
		newLinksCmd(a),
		newRunCmd(a),
		newScrapeCmd(a),
		newExportCmd(a),
		newSummaryCmd(a),
	)
	return root
}

// Execute runs the CLI against the process streams
func Execute(ctx context.Context) error {
	return NewRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath, a.configPath != "")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyFlags(cmd.Flags(), &cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger, a.closeLog = logging.Setup(a.errOut, cfg.LogFile, level)
	slog.SetDefault(a.logger)
	return nil
}

// applyFlags copies explicitly set flags over the loaded config
func applyFlags(fs *pflag.FlagSet, cfg *config.Config) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "log-level":
			cfg.LogLevel = f.Value.String()
		case "log-file":
			cfg.LogFile = f.Value.String()
		case "store":
			cfg.Store = f.Value.String()
		case "checkpoint":
			cfg.CheckpointFile = f.Value.String()
		case "sqlite-path":
			cfg.SQLitePath = f.Value.String()
		case "links":
			cfg.LinksFile = f.Value.String()
		case "mode":
			cfg.Mode = f.Value.String()
		case "proxy":
			cfg.Proxy = f.Value.String()
		case "clearance-token":
			cfg.ClearanceToken = f.Value.String()
		case "table-id":
			cfg.TableID = f.Value.String()
		case "retry-failed":
			cfg.RetryFailed, err = fs.GetBool(f.Name)
		case "pace":
			cfg.Pace, err = fs.GetDuration(f.Name)
		case "timeout":
			cfg.Timeout, err = fs.GetDuration(f.Name)
		case "concurrency":
			cfg.Concurrency, err = fs.GetInt(f.Name)
		case "per-host":
			cfg.PerHost, err = fs.GetInt(f.Name)
		case "batch-size":
			cfg.BatchSize, err = fs.GetInt(f.Name)
		case "rps":
			cfg.RequestsPerSecond, err = fs.GetFloat64(f.Name)
		case "year-min":
			cfg.YearMin, err = fs.GetInt(f.Name)
		case "year-max":
			cfg.YearMax, err = fs.GetInt(f.Name)
		}
	})
	return err
}

// openStore opens the configured checkpoint backend
func (a *app) openStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, store.Kind(a.cfg.Store), a.cfg.StorePath())
}

func (a *app) banner() {
	ui.PrintBanner(a.errOut, a.silence)
}

func (a *app) elapsed(start time.Time) {
	a.logger.Info("elapsed", "seconds", time.Since(start).Round(time.Millisecond).Seconds())
}
