package models

import "sort"

// Table is the ordered collection of transactions of one analysis request, in source
// row order. It is never mutated after loading; derived views are new values.
type Table []Transaction

// Filter returns the rows for which keep returns true, preserving order.
func (t Table) Filter(keep func(Transaction) bool) Table {
	out := make(Table, 0, len(t))
	for _, tx := range t {
		if keep(tx) {
			out = append(out, tx)
		}
	}
	return out
}

// Amounts returns the amount column as float64 values in row order.
func (t Table) Amounts() []float64 {
	out := make([]float64, len(t))
	for i, tx := range t {
		out[i] = tx.AmountFloat()
	}
	return out
}

// Months returns the distinct months present in the table, ascending.
func (t Table) Months() []Month {
	seen := make(map[Month]struct{})
	var months []Month
	for _, tx := range t {
		m := tx.Month()
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		months = append(months, m)
	}
	SortMonths(months)
	return months
}

// SortMonths sorts months ascending in place.
func SortMonths(months []Month) {
	sort.Slice(months, func(i, j int) bool {
		return months[i].Before(months[j])
	})
}
