package aggregator

import (
	"fjacquet/expense-insights/internal/models"

	"github.com/shopspring/decimal"
)

// Slice labels of the needs-versus-wants split.
const (
	SliceNeeds = "Needs"
	SliceWants = "Wants"
)

// NeedsWants splits total spending into essential needs and discretionary wants.
// Needs is never negative. Wants goes negative when refunds leave the essential
// categories with a positive net larger than the other spending.
type NeedsWants struct {
	Needs decimal.Decimal `json:"needs" yaml:"needs"`
	Wants decimal.Decimal `json:"wants" yaml:"wants"`
}

// NeedsVsWants computes Needs as the magnitude of the summed amounts in the essential
// categories and Wants as the remainder of the total expense magnitude.
func NeedsVsWants(t models.Table) NeedsWants {
	essential := decimal.Zero
	for _, tx := range t {
		if tx.Category.IsEssential() {
			essential = essential.Add(tx.Amount)
		}
	}
	needs := essential.Abs()
	wants := TotalsOf(t).Expenses.Abs().Sub(needs)
	return NeedsWants{Needs: needs, Wants: wants}
}

// Slices returns the split as labeled amounts in display order.
func (n NeedsWants) Slices() []Slice {
	return []Slice{
		{Label: SliceNeeds, Value: n.Needs},
		{Label: SliceWants, Value: n.Wants},
	}
}

// Slice is one labeled share of a whole.
type Slice struct {
	Label string          `json:"label" yaml:"label"`
	Value decimal.Decimal `json:"value" yaml:"value"`
}
