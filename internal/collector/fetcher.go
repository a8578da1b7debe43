package collector

import (
	"context"
	"errors"

	"RainSentinel/internal/model"
)

// ErrTransport marks failures to reach the weather API or non-2xx responses.
var ErrTransport = errors.New("weather API transport error")

// Fetcher defines the interface for fetching daily precipitation.
type Fetcher interface {
	// FetchDaily returns the station's records for the window, sorted by date with
	// no duplicates. An empty result is not an error.
	FetchDaily(ctx context.Context, window model.ReportWindow, stationID string) ([]model.DailyRecord, error)
	Name() string
}
