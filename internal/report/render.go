package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"RainSentinel/internal/calculator"
	"RainSentinel/internal/model"
)

const ruleWidth = 62

// Header describes what a text report covers.
type Header struct {
	Station     model.Station
	Window      model.ReportWindow
	GeneratedAt time.Time
}

// RenderText writes the human-readable rainfall report.
func RenderText(w io.Writer, h Header, records []model.DailyRecord) error {
	_, err := io.WriteString(w, FormatText(h, records))
	return err
}

// FormatText builds the fixed-width report: header, monthly totals, season summary
// and a daily table with a bar of floor(inches*10) '#' characters.
func FormatText(h Header, records []model.DailyRecord) string {
	var b strings.Builder

	b.WriteString(strings.Repeat("=", ruleWidth) + "\n")
	b.WriteString(fmt.Sprintf("  NOAA Daily Rainfall Report - %s\n", h.Station.Name))
	b.WriteString(fmt.Sprintf("  Rain season: %s - %s\n", h.Window.Start.Format("Jan 02, 2006"), h.Window.End.Format("Jan 02, 2006")))
	b.WriteString(fmt.Sprintf("  Station: %s\n", h.Station.ID))
	b.WriteString(fmt.Sprintf("  Generated: %s\n", h.GeneratedAt.Format("2006-01-02 15:04")))
	b.WriteString(strings.Repeat("=", ruleWidth) + "\n\n")

	if len(records) == 0 {
		b.WriteString("  No precipitation data available for this period.\n")
		return b.String()
	}

	summary := calculator.Aggregate(records)

	b.WriteString("  MONTHLY TOTALS\n")
	b.WriteString("  " + strings.Repeat("-", 30) + "\n")
	for _, m := range summary.Monthly {
		b.WriteString(fmt.Sprintf("  %-20s  %6s in\n", m.Month.Format("January 2006"), m.Total.StringFixed(2)))
	}
	b.WriteString("  " + strings.Repeat("-", 30) + "\n")
	b.WriteString(fmt.Sprintf("  %-20s  %6s in\n", "Season total", summary.Total.StringFixed(2)))
	b.WriteString(fmt.Sprintf("  %-20s  %6d\n\n", "Days with rain", summary.RainyDays))

	b.WriteString("  DAILY DETAIL\n")
	b.WriteString("  " + strings.Repeat("-", 40) + "\n")
	b.WriteString(fmt.Sprintf("  %-14s %-5s %11s  Bar\n", "Date", "Day", "Precip (in)"))
	b.WriteString("  " + strings.Repeat("-", 40) + "\n")
	for _, r := range records {
		line := fmt.Sprintf("  %s  %-5s %8.2f    %s", r.Date.Format(model.DateLayout), r.Date.Format("Mon"), r.PrecipitationIn, Bar(r.PrecipitationIn))
		b.WriteString(strings.TrimRight(line, " ") + "\n")
	}

	b.WriteString(fmt.Sprintf("\n  Season total: %s inches over %d days reported\n", summary.Total.StringFixed(2), summary.Days))
	return b.String()
}

// Bar returns floor(inches*10) '#' characters, empty for dry days.
func Bar(inches float64) string {
	if inches <= 0 {
		return ""
	}
	return strings.Repeat("#", int(inches*10))
}
