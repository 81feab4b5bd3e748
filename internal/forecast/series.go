package forecast

import (
	"fjacquet/expense-insights/internal/aggregator"
	"fjacquet/expense-insights/internal/models"
)

// SavingsPoint is one month of net savings.
type SavingsPoint struct {
	Month models.Month `json:"month" yaml:"month"`
	Net   float64      `json:"net" yaml:"net"`
}

// SavingsSeries turns the monthly summary into a gap-free series: every calendar month
// between the first and last observed month is present, absent months count as 0.
func SavingsSeries(summary []aggregator.MonthSummary) []SavingsPoint {
	if len(summary) == 0 {
		return nil
	}

	byMonth := make(map[models.Month]float64, len(summary))
	first, last := summary[0].Month, summary[0].Month
	for _, s := range summary {
		net, _ := s.Net.Float64()
		byMonth[s.Month] += net
		if s.Month.Before(first) {
			first = s.Month
		}
		if last.Before(s.Month) {
			last = s.Month
		}
	}

	series := make([]SavingsPoint, 0, first.MonthsBetween(last)+1)
	for m := first; !last.Before(m); m = m.Next() {
		series = append(series, SavingsPoint{Month: m, Net: byMonth[m]})
	}
	return series
}
