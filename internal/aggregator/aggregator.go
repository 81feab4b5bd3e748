// Package aggregator computes the summaries shown on the dashboard: overall totals,
// monthly net savings, category spending, needs versus wants and income sources.
//
// Every function is pure: it reads a models.Table and returns new values. Sums use
// decimal arithmetic so that Net == Income + Expenses holds exactly.
package aggregator

import (
	"sort"

	"fjacquet/expense-insights/internal/models"

	"github.com/shopspring/decimal"
)

// Totals holds the overall sums of a table.
type Totals struct {
	Income   decimal.Decimal `json:"income" yaml:"income"`
	Expenses decimal.Decimal `json:"expenses" yaml:"expenses"`
	Net      decimal.Decimal `json:"net" yaml:"net"`
}

// MonthSummary holds the figures of one calendar month.
type MonthSummary struct {
	Month   models.Month    `json:"month" yaml:"month"`
	Net     decimal.Decimal `json:"net" yaml:"net"`
	Income  decimal.Decimal `json:"income" yaml:"income"`
	Expense decimal.Decimal `json:"expense" yaml:"expense"`
}

// CategoryAmount is the summed amount of one category.
type CategoryAmount struct {
	Category models.Category `json:"category" yaml:"category"`
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
}

// TotalsOf sums positive amounts into Income and negative amounts into Expenses.
func TotalsOf(t models.Table) Totals {
	income, expenses := decimal.Zero, decimal.Zero
	for _, tx := range t {
		if tx.Amount.IsPositive() {
			income = income.Add(tx.Amount)
		} else {
			expenses = expenses.Add(tx.Amount)
		}
	}
	return Totals{Income: income, Expenses: expenses, Net: income.Add(expenses)}
}

// MonthlySummary groups the table by calendar month, ascending. Income and Expense
// split each month's amounts by sign.
func MonthlySummary(t models.Table) []MonthSummary {
	byMonth := make(map[models.Month]*MonthSummary)
	for _, tx := range t {
		m := tx.Month()
		s, ok := byMonth[m]
		if !ok {
			s = &MonthSummary{Month: m, Net: decimal.Zero, Income: decimal.Zero, Expense: decimal.Zero}
			byMonth[m] = s
		}
		s.Net = s.Net.Add(tx.Amount)
		if tx.Amount.IsPositive() {
			s.Income = s.Income.Add(tx.Amount)
		} else {
			s.Expense = s.Expense.Add(tx.Amount)
		}
	}

	out := make([]MonthSummary, 0, len(byMonth))
	for _, m := range t.Months() {
		out = append(out, *byMonth[m])
	}
	return out
}

// SplitIncome partitions the table by the Income/Expense flag, preserving row order.
func SplitIncome(t models.Table) (nonIncome, income models.Table) {
	nonIncome = make(models.Table, 0, len(t))
	income = make(models.Table, 0)
	for _, tx := range t {
		if tx.IsIncome() {
			income = append(income, tx)
		} else {
			nonIncome = append(nonIncome, tx)
		}
	}
	return nonIncome, income
}

// CategorySpending sums amounts per category, sorted ascending so the largest expense
// comes first. Ties are broken by category name. Pass the non-income partition.
func CategorySpending(nonIncome models.Table) []CategoryAmount {
	out := sumByCategory(nonIncome, func(models.Transaction) bool { return true })
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c < 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// IncomeSources sums positive amounts per category, sorted descending.
func IncomeSources(t models.Table) []CategoryAmount {
	out := sumByCategory(t, func(tx models.Transaction) bool { return tx.Amount.IsPositive() })
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func sumByCategory(t models.Table, keep func(models.Transaction) bool) []CategoryAmount {
	sums := make(map[models.Category]decimal.Decimal)
	var order []models.Category
	for _, tx := range t {
		if !keep(tx) {
			continue
		}
		if _, ok := sums[tx.Category]; !ok {
			order = append(order, tx.Category)
			sums[tx.Category] = decimal.Zero
		}
		sums[tx.Category] = sums[tx.Category].Add(tx.Amount)
	}

	out := make([]CategoryAmount, 0, len(order))
	for _, c := range order {
		out = append(out, CategoryAmount{Category: c, Amount: sums[c]})
	}
	return out
}
