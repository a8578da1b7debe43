package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"RainSentinel/internal/calculator"
	"RainSentinel/internal/collector"
	"RainSentinel/internal/config"
	"RainSentinel/internal/model"
	"RainSentinel/internal/recorder"
	"RainSentinel/internal/report"
)

// Mailer sends a rendered text report to one recipient.
type Mailer interface {
	Send(ctx context.Context, report, to string) error
}

// Options are the per-run CLI choices.
type Options struct {
	Start     string // YYYY-MM-DD, empty for the season start
	End       string // YYYY-MM-DD, empty for today
	JSON      bool
	CSV       bool
	Email     string
	StationID string
}

// Runner wires the fetch, aggregate, render and notify steps together.
type Runner struct {
	Cfg       config.Config
	Collector *collector.Collector
	Recorder  recorder.Recorder
	Mailer    Mailer
	Clock     clockwork.Clock
	Out       io.Writer
	Log       *slog.Logger
}

// Window resolves the report window from the options, defaulting to the current
// rain season up to today.
func (r *Runner) Window(opts Options) (model.ReportWindow, error) {
	w := calculator.DefaultWindow(r.Clock)
	if opts.Start != "" {
		d, err := model.ParseDate(opts.Start)
		if err != nil {
			return model.ReportWindow{}, fmt.Errorf("--start: %w", err)
		}
		w.Start = d
	}
	if opts.End != "" {
		d, err := model.ParseDate(opts.End)
		if err != nil {
			return model.ReportWindow{}, fmt.Errorf("--end: %w", err)
		}
		w.End = d
	}
	if err := w.Validate(); err != nil {
		return model.ReportWindow{}, err
	}
	return w, nil
}

// Run executes one report run end to end.
func (r *Runner) Run(ctx context.Context, opts Options) error {
	window, err := r.Window(opts)
	if err != nil {
		return err
	}
	startedAt := r.Clock.Now()

	stations := collector.StationsFor(opts.StationID, r.Cfg.Stations)
	station, records, err := r.Collector.Collect(ctx, window, stations)
	if err != nil {
		return err
	}
	if len(records) > 0 {
		if err := r.Recorder.RecordDaily(station, records); err != nil {
			r.Log.Warn("record daily values", "station", station.ID, "err", err)
		}
	}

	mode := model.SelectOutput(opts.JSON, opts.CSV)
	run := &recorder.RunRecord{
		StartedAt:   startedAt,
		Station:     station,
		Window:      window,
		Output:      mode,
		RecordCount: len(records),
	}
	summary := calculator.Aggregate(records)
	run.SeasonTotal = summary.Total.InexactFloat64()
	run.RainyDays = summary.RainyDays

	switch mode {
	case model.OutputJSON:
		err = report.WriteJSON(r.Out, records)
	case model.OutputCSV:
		err = report.WriteCSV(r.Out, records)
	default:
		err = r.renderText(ctx, opts.Email, station, window, records, run)
	}
	if err != nil {
		return err
	}
	if mode != model.OutputText && opts.Email != "" {
		r.Log.Warn("--email is only honoured for the text report", "output", string(mode))
	}

	if err := r.Recorder.RecordRun(run); err != nil {
		r.Log.Warn("record run", "err", err)
	}
	return nil
}

func (r *Runner) renderText(ctx context.Context, to string, station model.Station, window model.ReportWindow, records []model.DailyRecord, run *recorder.RunRecord) error {
	text := report.FormatText(report.Header{
		Station:     station,
		Window:      window,
		GeneratedAt: r.Clock.Now(),
	}, records)
	if _, err := io.WriteString(r.Out, text); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if to == "" {
		return nil
	}
	if err := r.Mailer.Send(ctx, text, to); err != nil {
		return err
	}
	run.EmailedTo = to
	return nil
}
