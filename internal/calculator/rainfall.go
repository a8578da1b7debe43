package calculator

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"RainSentinel/internal/model"
)

// Aggregate folds daily records into monthly totals, a season total and a count of
// days with measurable rain.
func Aggregate(records []model.DailyRecord) model.SeasonSummary {
	summary := model.SeasonSummary{Total: decimal.Zero, Days: len(records)}
	byMonth := make(map[time.Time]decimal.Decimal)

	for _, r := range records {
		v := decimal.NewFromFloat(r.PrecipitationIn)
		summary.Total = summary.Total.Add(v)
		if r.PrecipitationIn > 0 {
			summary.RainyDays++
		}
		month := time.Date(r.Date.Year(), r.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		byMonth[month] = byMonth[month].Add(v)
	}

	for month, total := range byMonth {
		summary.Monthly = append(summary.Monthly, model.MonthlyTotal{Month: month, Total: total})
	}
	sort.Slice(summary.Monthly, func(i, j int) bool {
		return summary.Monthly[i].Month.Before(summary.Monthly[j].Month)
	})
	return summary
}
