// Package models provides the data structures used throughout the application.
package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the value of the Income/Expense column.
type TransactionType int

const (
	TypeExpense TransactionType = iota
	TypeIncome
)

// String returns the label used in the source sheet.
func (t TransactionType) String() string {
	if t == TypeIncome {
		return "Income"
	}
	return "Expense"
}

// MarshalText lets the type appear as its label in JSON and YAML reports.
func (t TransactionType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseTransactionType maps an Income/Expense label. "Income" (any case) is income,
// every other non-empty label is treated as an expense.
func ParseTransactionType(label string) (TransactionType, error) {
	clean := strings.TrimSpace(label)
	if clean == "" {
		return TypeExpense, fmt.Errorf("empty income/expense flag")
	}
	if strings.EqualFold(clean, "income") {
		return TypeIncome, nil
	}
	return TypeExpense, nil
}

// Transaction represents one row of the bank sheet after normalization.
// Positive amounts are money in, negative amounts are money out.
type Transaction struct {
	Date     time.Time
	Amount   decimal.Decimal
	Category Category
	Type     TransactionType
}

// Month returns the calendar month the transaction belongs to.
func (t Transaction) Month() Month {
	return MonthOf(t.Date)
}

// IsIncome reports whether the Income/Expense flag marks the row as income.
func (t Transaction) IsIncome() bool {
	return t.Type == TypeIncome
}

// AmountFloat returns the amount as a float64 for statistics and charts.
// Use the decimal Amount for any financial sum.
func (t Transaction) AmountFloat() float64 {
	f, _ := t.Amount.Float64()
	return f
}

var thousandsOnly = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+$`)

// ParseAmount parses a signed amount cell. Currency symbols, spaces, apostrophes and
// thousands separators are stripped. A lone comma followed by exactly three digits
// groups thousands ("1,234"); any other lone comma is the decimal separator ("12,50").
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	amount := strings.TrimSpace(amountStr)
	for _, token := range []string{" ", "\u00a0", "'", "CHF", "EUR", "USD", "INR", "$", "€", "£", "₹"} {
		amount = strings.ReplaceAll(amount, token, "")
	}

	// Accounting style negatives: (123.45)
	if strings.HasPrefix(amount, "(") && strings.HasSuffix(amount, ")") {
		amount = "-" + strings.TrimSuffix(strings.TrimPrefix(amount, "("), ")")
	}

	switch {
	case strings.Contains(amount, ",") && strings.Contains(amount, "."):
		amount = strings.ReplaceAll(amount, ",", "")
	case thousandsOnly.MatchString(amount):
		amount = strings.ReplaceAll(amount, ",", "")
	case strings.Count(amount, ",") == 1:
		amount = strings.ReplaceAll(amount, ",", ".")
	}

	if amount == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount string '%s': %w", amountStr, err)
	}
	return dec, nil
}
