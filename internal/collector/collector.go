package collector

import (
	"context"
	"fmt"
	"log/slog"

	"RainSentinel/internal/model"
)

// MockFetcher returns fixed per-station data for development and testing.
type MockFetcher struct {
	Data  map[string][]model.DailyRecord
	Errs  map[string]error
	Calls []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDaily(_ context.Context, window model.ReportWindow, stationID string) ([]model.DailyRecord, error) {
	m.Calls = append(m.Calls, stationID)
	if err := m.Errs[stationID]; err != nil {
		return nil, err
	}
	var out []model.DailyRecord
	for _, r := range m.Data[stationID] {
		if r.Date.Before(window.Start) || r.Date.After(window.End) {
			continue
		}
		out = append(out, r)
	}
	return model.SortRecords(out), nil
}

// Collector walks the station fallback chain.
type Collector struct {
	Fetcher Fetcher
	Log     *slog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, log *slog.Logger) *Collector {
	return &Collector{Fetcher: fetcher, Log: log}
}

// Collect tries each station in order and stops at the first one that returns
// records. When every station comes back empty it reports the first station with no
// records. Transport errors abort the chain immediately.
func (c *Collector) Collect(ctx context.Context, window model.ReportWindow, stations []model.Station) (model.Station, []model.DailyRecord, error) {
	if len(stations) == 0 {
		return model.Station{}, nil, fmt.Errorf("no stations to query")
	}
	if err := window.Validate(); err != nil {
		return model.Station{}, nil, err
	}

	for i, st := range stations {
		c.Log.Info(fmt.Sprintf("Fetching rainfall data for %s (%s)...", st.Name, st.ID))
		c.Log.Info("Period: " + window.String())

		records, err := c.Fetcher.FetchDaily(ctx, window, st.ID)
		if err != nil {
			return st, nil, fmt.Errorf("fetch %s: %w", st.ID, err)
		}
		if len(records) > 0 {
			return st, records, nil
		}
		if len(stations) > 1 && i < len(stations)-1 {
			c.Log.Warn(fmt.Sprintf("No data from %s, trying next station...", st.Name))
		}
	}
	return stations[0], nil, nil
}

// StationsFor returns the single explicit station when id is set, otherwise the
// configured fallback chain.
func StationsFor(id string, chain []model.Station) []model.Station {
	if id != "" {
		return []model.Station{{ID: id, Name: id}}
	}
	return chain
}
