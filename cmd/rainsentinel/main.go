package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"RainSentinel/internal/app"
	"RainSentinel/internal/collector"
	"RainSentinel/internal/config"
	"RainSentinel/internal/credentials"
	"RainSentinel/internal/logging"
	"RainSentinel/internal/notifier"
	"RainSentinel/internal/recorder"
	"RainSentinel/internal/scheduler"
)

type flags struct {
	opts       app.Options
	debug      bool
	setupEmail bool
	configPath string
	schedule   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "rainsentinel",
		Short: "Daily rainfall report for the current rain season from NOAA NCEI",
		Long: `Fetches daily precipitation (PRCP) from the NOAA NCEI Access Data Service,
trying each configured station until one reports data, and prints monthly and
season totals. The season runs October 1 through September 30.`,
		Example: `  rainsentinel
  rainsentinel --start 2023-10-01 --end 2024-09-30 --csv
  rainsentinel --email me@example.com
  rainsentinel --setup-email`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.opts.Start, "start", "", "start date YYYY-MM-DD (default: Oct 1 of the current season)")
	fl.StringVar(&f.opts.End, "end", "", "end date YYYY-MM-DD (default: today)")
	fl.BoolVar(&f.opts.JSON, "json", false, "output records as JSON")
	fl.BoolVar(&f.opts.CSV, "csv", false, "output records as CSV")
	fl.StringVar(&f.opts.Email, "email", "", "email the text report to `ADDRESS`")
	fl.StringVar(&f.opts.StationID, "station", "", "query only this NOAA station `ID` (no fallback)")
	fl.BoolVar(&f.debug, "debug", false, "log request URLs and raw responses")
	fl.BoolVar(&f.setupEmail, "setup-email", false, "store SMTP credentials in the platform keyring and exit")
	fl.StringVar(&f.configPath, "config", "", "config file `PATH` (default: $CONFIG_PATH or "+config.DefaultPath+")")
	fl.StringVar(&f.schedule, "schedule", "", "re-run on a five-field `CRON` schedule until interrupted")
	return cmd
}

func run(cmd *cobra.Command, f *flags) error {
	cfg, err := config.Load(config.ResolvePath(f.configPath))
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	log := logging.New(cmd.ErrOrStderr(), cfg.LogLevel(), f.debug)

	if f.setupEmail {
		return setupEmail(cmd)
	}

	fetcher := collector.NewNOAAFetcher(cfg, log, f.debug)
	log.Debug("data source", "fetcher", fetcher.Name(), "base_url", cfg.NOAA.BaseURL)

	clock := clockwork.NewRealClock()
	rec := openRecorder(cfg, clock, log)
	defer rec.Close()

	runner := &app.Runner{
		Cfg:       cfg,
		Collector: collector.NewCollector(fetcher, log),
		Recorder:  rec,
		Mailer:    notifier.NewEmailNotifier(cfg.Region.Name, clock, log, credentials.DefaultStores()...),
		Clock:     clock,
		Out:       cmd.OutOrStdout(),
		Log:       log,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	expr := cfg.Schedule.Cron
	if f.schedule != "" {
		expr = f.schedule
	}
	if expr == "" {
		return runner.Run(ctx, f.opts)
	}

	sched, err := scheduler.NewScheduler(expr, clock, log)
	if err != nil {
		return err
	}
	return sched.Run(ctx, func(ctx context.Context) error {
		return runner.Run(ctx, f.opts)
	})
}

func setupEmail(cmd *cobra.Command) error {
	store := credentials.NewKeyringStore()
	if !store.Available() {
		return fmt.Errorf("%w; set SMTP_USER and SMTP_PASS environment variables instead (SMTP_HOST, SMTP_PORT, SMTP_FROM optional)",
			credentials.ErrKeyringUnavailable)
	}
	return credentials.Setup(cmd.InOrStdin(), cmd.OutOrStdout(), store)
}

func openRecorder(cfg config.Config, clock clockwork.Clock, log *slog.Logger) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, clock, log)
	if err != nil {
		log.Warn("sqlite recorder unavailable, run history disabled", "err", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}
