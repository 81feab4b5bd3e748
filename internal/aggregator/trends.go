package aggregator

import (
	"sort"

	"fjacquet/expense-insights/internal/models"

	"github.com/shopspring/decimal"
)

// CategoryTrends is a month by category matrix of summed amounts. Values[i][j] is the
// sum for Months[i] and Categories[j]; absent combinations are zero.
type CategoryTrends struct {
	Months     []models.Month      `json:"months" yaml:"months"`
	Categories []models.Category   `json:"categories" yaml:"categories"`
	Values     [][]decimal.Decimal `json:"values" yaml:"values"`
}

// TypeSummary holds one month's sums split by the Income/Expense flag.
type TypeSummary struct {
	Month   models.Month    `json:"month" yaml:"month"`
	Income  decimal.Decimal `json:"income" yaml:"income"`
	Expense decimal.Decimal `json:"expense" yaml:"expense"`
}

// CategoryTrendsOf builds the monthly per-category matrix. Categories are sorted by name.
func CategoryTrendsOf(nonIncome models.Table) CategoryTrends {
	months := nonIncome.Months()
	monthIdx := make(map[models.Month]int, len(months))
	for i, m := range months {
		monthIdx[m] = i
	}

	seen := make(map[models.Category]struct{})
	var categories []models.Category
	for _, tx := range nonIncome {
		if _, ok := seen[tx.Category]; !ok {
			seen[tx.Category] = struct{}{}
			categories = append(categories, tx.Category)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	catIdx := make(map[models.Category]int, len(categories))
	for j, c := range categories {
		catIdx[c] = j
	}

	values := make([][]decimal.Decimal, len(months))
	for i := range values {
		values[i] = make([]decimal.Decimal, len(categories))
		for j := range values[i] {
			values[i][j] = decimal.Zero
		}
	}
	for _, tx := range nonIncome {
		i, j := monthIdx[tx.Month()], catIdx[tx.Category]
		values[i][j] = values[i][j].Add(tx.Amount)
	}

	return CategoryTrends{Months: months, Categories: categories, Values: values}
}

// MonthlyByType groups amounts by month and by the Income/Expense flag, ascending.
func MonthlyByType(t models.Table) []TypeSummary {
	byMonth := make(map[models.Month]*TypeSummary)
	for _, tx := range t {
		m := tx.Month()
		s, ok := byMonth[m]
		if !ok {
			s = &TypeSummary{Month: m, Income: decimal.Zero, Expense: decimal.Zero}
			byMonth[m] = s
		}
		if tx.IsIncome() {
			s.Income = s.Income.Add(tx.Amount)
		} else {
			s.Expense = s.Expense.Add(tx.Amount)
		}
	}

	out := make([]TypeSummary, 0, len(byMonth))
	for _, m := range t.Months() {
		out = append(out, *byMonth[m])
	}
	return out
}
