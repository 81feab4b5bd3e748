package server

import "github.com/shopspring/decimal"

func formatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
