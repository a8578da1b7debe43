package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO calendar date format used by the NOAA API and all exports.
const DateLayout = "2006-01-02"

// DailyRecord is one day of measured precipitation at a station.
type DailyRecord struct {
	Date            time.Time // UTC midnight
	PrecipitationIn float64
}

type dailyRecordJSON struct {
	Date            string  `json:"date"`
	PrecipitationIn float64 `json:"precipitation_in"`
}

func (r DailyRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(dailyRecordJSON{
		Date:            r.Date.Format(DateLayout),
		PrecipitationIn: r.PrecipitationIn,
	})
}

func (r *DailyRecord) UnmarshalJSON(data []byte) error {
	var raw dailyRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d, err := ParseDate(raw.Date)
	if err != nil {
		return err
	}
	r.Date = d
	r.PrecipitationIn = raw.PrecipitationIn
	return nil
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return d, nil
}

// Day truncates t to its calendar date in t's own location, returned as UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SortRecords orders records by date and drops later duplicates of the same date.
func SortRecords(records []DailyRecord) []DailyRecord {
	sort.SliceStable(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })
	out := make([]DailyRecord, 0, len(records))
	for _, r := range records {
		if n := len(out); n > 0 && out[n-1].Date.Equal(r.Date) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Station is a NOAA GHCND observation site.
type Station struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// ReportWindow is the inclusive date range a report covers.
type ReportWindow struct {
	Start time.Time
	End   time.Time
}

// Validate checks Start <= End.
func (w ReportWindow) Validate() error {
	if w.Start.After(w.End) {
		return fmt.Errorf("start date %s is after end date %s",
			w.Start.Format(DateLayout), w.End.Format(DateLayout))
	}
	return nil
}

func (w ReportWindow) String() string {
	return w.Start.Format(DateLayout) + " to " + w.End.Format(DateLayout)
}

// MonthlyTotal is the summed precipitation for one calendar month.
type MonthlyTotal struct {
	Month time.Time // first day of the month, UTC
	Total decimal.Decimal
}

// Key returns the YYYY-MM key for the month.
func (m MonthlyTotal) Key() string {
	return m.Month.Format("2006-01")
}

// SeasonSummary holds the totals derived from a record list.
type SeasonSummary struct {
	Monthly   []MonthlyTotal // ascending by month
	Total     decimal.Decimal
	RainyDays int
	Days      int
}

// OutputMode selects which rendering a run produces.
type OutputMode string

const (
	OutputText OutputMode = "text"
	OutputJSON OutputMode = "json"
	OutputCSV  OutputMode = "csv"
)

// SelectOutput resolves the output flags. JSON wins over CSV; text is the default.
func SelectOutput(jsonFlag, csvFlag bool) OutputMode {
	if jsonFlag {
		return OutputJSON
	}
	if csvFlag {
		return OutputCSV
	}
	return OutputText
}
