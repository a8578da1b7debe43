package calculator

import (
	"time"

	"github.com/jonboulle/clockwork"

	"RainSentinel/internal/model"
)

// RainSeasonStart returns October 1 of the rain season containing today.
// The season runs Oct 1 - Sep 30, so Jan-Sep belong to the season that began the
// previous October.
func RainSeasonStart(today time.Time) time.Time {
	year := today.Year()
	if today.Month() < time.October {
		year--
	}
	return time.Date(year, time.October, 1, 0, 0, 0, 0, time.UTC)
}

// DefaultWindow covers the current rain season up to and including today.
func DefaultWindow(clock clockwork.Clock) model.ReportWindow {
	today := model.Day(clock.Now())
	return model.ReportWindow{Start: RainSeasonStart(today), End: today}
}
