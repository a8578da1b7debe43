package recorder

import (
	"time"

	"RainSentinel/internal/model"
)

// RunRecord summarizes one report run.
type RunRecord struct {
	ID          string
	StartedAt   time.Time
	Station     model.Station
	Window      model.ReportWindow
	Output      model.OutputMode
	RecordCount int
	SeasonTotal float64
	RainyDays   int
	EmailedTo   string
}

// Recorder persists run history for later analysis.
type Recorder interface {
	RecordRun(run *RunRecord) error
	RecordDaily(station model.Station, records []model.DailyRecord) error
	Close() error
}
