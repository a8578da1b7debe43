package calculator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"RainSentinel/internal/model"
)

func TestAggregate_Example(t *testing.T) {
	records := []model.DailyRecord{
		{Date: date(2024, time.October, 1), PrecipitationIn: 0.5},
		{Date: date(2024, time.October, 2), PrecipitationIn: 0.0},
		{Date: date(2024, time.November, 1), PrecipitationIn: 1.2},
	}
	s := Aggregate(records)

	monthly := monthlyMap(s)
	if len(monthly) != 2 {
		t.Fatalf("expected 2 months, got %d", len(monthly))
	}
	if !monthly["2024-10"].Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("2024-10 = %s; want 0.5", monthly["2024-10"])
	}
	if !monthly["2024-11"].Equal(decimal.RequireFromString("1.2")) {
		t.Errorf("2024-11 = %s; want 1.2", monthly["2024-11"])
	}
	if !s.Total.Equal(decimal.RequireFromString("1.7")) {
		t.Errorf("Total = %s; want 1.7", s.Total)
	}
	if s.RainyDays != 2 {
		t.Errorf("RainyDays = %d; want 2", s.RainyDays)
	}
	if s.Days != 3 {
		t.Errorf("Days = %d; want 3", s.Days)
	}
}

func TestAggregate_MonthOrder(t *testing.T) {
	records := []model.DailyRecord{
		{Date: date(2025, time.January, 3), PrecipitationIn: 0.1},
		{Date: date(2024, time.December, 30), PrecipitationIn: 0.2},
		{Date: date(2024, time.October, 2), PrecipitationIn: 0.3},
	}
	s := Aggregate(records)
	want := []string{"2024-10", "2024-12", "2025-01"}
	if len(s.Monthly) != len(want) {
		t.Fatalf("expected %d months, got %d", len(want), len(s.Monthly))
	}
	for i, k := range want {
		if s.Monthly[i].Key() != k {
			t.Errorf("Monthly[%d] = %s; want %s", i, s.Monthly[i].Key(), k)
		}
	}
}

func TestAggregate_ExactSums(t *testing.T) {
	var records []model.DailyRecord
	for i := 0; i < 10; i++ {
		records = append(records, model.DailyRecord{Date: date(2024, time.October, i+1), PrecipitationIn: 0.1})
	}
	s := Aggregate(records)
	if !s.Total.Equal(decimal.NewFromInt(1)) {
		t.Errorf("Total = %s; want exactly 1", s.Total)
	}
}

func TestAggregate_Empty(t *testing.T) {
	s := Aggregate(nil)
	if !s.Total.IsZero() || s.RainyDays != 0 || len(s.Monthly) != 0 || s.Days != 0 {
		t.Errorf("unexpected summary for no records: %+v", s)
	}
}

// monthlyMap keys the monthly totals by YYYY-MM.
func monthlyMap(s model.SeasonSummary) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(s.Monthly))
	for _, m := range s.Monthly {
		out[m.Key()] = m.Total
	}
	return out
}
