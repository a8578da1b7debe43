package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-resty/resty/v2"

	"RainSentinel/internal/calculator"
	"RainSentinel/internal/config"
	"RainSentinel/internal/model"
)

const debugBodyLimit = 500

// NOAAFetcher implements Fetcher using the NCEI Access Data Service.
type NOAAFetcher struct {
	BaseURL   string
	Dataset   string
	DataTypes string
	Units     string
	Debug     bool

	client *resty.Client
	log    *slog.Logger
}

// NewNOAAFetcher creates a fetcher with optional proxy support. Requests are never
// retried.
func NewNOAAFetcher(cfg config.Config, log *slog.Logger, debug bool) *NOAAFetcher {
	client := resty.New().
		SetTimeout(cfg.NOAA.Timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if cfg.Proxy != "" {
		client.SetProxy(cfg.Proxy)
	}
	return &NOAAFetcher{
		BaseURL:   cfg.NOAA.BaseURL,
		Dataset:   cfg.NOAA.Dataset,
		DataTypes: cfg.NOAA.DataTypes,
		Units:     cfg.NOAA.Units,
		Debug:     debug,
		client:    client,
		log:       log,
	}
}

func (f *NOAAFetcher) Name() string { return "noaa-ncei" }

// FetchDaily issues one request per year-sized chunk of the window and merges the
// results.
func (f *NOAAFetcher) FetchDaily(ctx context.Context, window model.ReportWindow, stationID string) ([]model.DailyRecord, error) {
	var all []model.DailyRecord
	for _, chunk := range calculator.SplitWindow(window) {
		records, err := f.fetchChunk(ctx, chunk, stationID)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	return model.SortRecords(all), nil
}

// RequestURL builds the query URL for one chunk.
func (f *NOAAFetcher) RequestURL(chunk model.ReportWindow, stationID string) string {
	values := url.Values{}
	values.Set("dataset", f.Dataset)
	values.Set("dataTypes", f.DataTypes)
	values.Set("stations", stationID)
	values.Set("startDate", chunk.Start.Format(model.DateLayout))
	values.Set("endDate", chunk.End.Format(model.DateLayout))
	values.Set("format", "json")
	values.Set("units", f.Units)
	return f.BaseURL + "?" + values.Encode()
}

func (f *NOAAFetcher) fetchChunk(ctx context.Context, chunk model.ReportWindow, stationID string) ([]model.DailyRecord, error) {
	u := f.RequestURL(chunk, stationID)

	if f.Debug {
		f.log.Debug("noaa request", "url", u)
	}
	resp, err := f.client.R().SetContext(ctx).Get(u)
	if err != nil {
		return nil, fmt.Errorf("%w: could not reach NOAA API: %v (URL: %s)", ErrTransport, err, u)
	}

	body := resp.Body()
	if f.Debug {
		f.log.Debug("noaa response", "status", resp.StatusCode(),
			"size", humanize.Bytes(uint64(len(body))), "body", truncate(body, debugBodyLimit))
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: NOAA API returned HTTP %d (URL: %s)", ErrTransport, resp.StatusCode(), u)
	}

	records, ok := parseRecords(body)
	if !ok && f.Debug {
		f.log.Debug("response is not JSON, treating as no data", "chunk", chunk.String())
	}
	return records, nil
}

// parseRecords normalizes an API body into records. An unparseable body means no
// data for the range; ok reports whether the body was valid JSON.
func parseRecords(body []byte) (records []model.DailyRecord, ok bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, false
	}

	var entries []map[string]any
	if trimmed[0] == '{' {
		var single map[string]any
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, false
		}
		entries = []map[string]any{single}
	} else if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, false
	}

	for _, e := range entries {
		if r, ok := toRecord(e); ok {
			records = append(records, r)
		}
	}
	return records, true
}

func toRecord(entry map[string]any) (model.DailyRecord, bool) {
	rawDate, _ := entry["DATE"].(string)
	if len(rawDate) < len(model.DateLayout) {
		return model.DailyRecord{}, false
	}
	d, err := model.ParseDate(rawDate[:len(model.DateLayout)])
	if err != nil {
		return model.DailyRecord{}, false
	}

	var v float64
	switch p := entry["PRCP"].(type) {
	case float64:
		v = p
	case string:
		v, err = strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return model.DailyRecord{}, false
		}
	default:
		return model.DailyRecord{}, false
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return model.DailyRecord{}, false
	}
	return model.DailyRecord{Date: d, PrecipitationIn: v}, true
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n])
	}
	return string(b)
}
