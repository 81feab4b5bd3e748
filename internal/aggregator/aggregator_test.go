package aggregator

import (
	"testing"
	"time"

	"fjacquet/expense-insights/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(date string, amount string, category models.Category, typ models.TransactionType) models.Transaction {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return models.Transaction{Date: d, Amount: decimal.RequireFromString(amount), Category: category, Type: typ}
}

// yearOfSalaryAndRent has +1000 salary and -300 household on the 1st and 15th of every 2023 month.
func yearOfSalaryAndRent() models.Table {
	var table models.Table
	for m := time.January; m <= time.December; m++ {
		table = append(table,
			models.Transaction{Date: time.Date(2023, m, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(1000), Category: models.CategorySalary, Type: models.TypeIncome},
			models.Transaction{Date: time.Date(2023, m, 15, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(-300), Category: models.CategoryHousehold, Type: models.TypeExpense},
		)
	}
	return table
}

func mixedTable() models.Table {
	return models.Table{
		tx("2024-01-03", "2500.00", models.CategorySalary, models.TypeIncome),
		tx("2024-01-05", "-120.40", models.CategoryFood, models.TypeExpense),
		tx("2024-01-09", "-900", models.CategoryHousehold, models.TypeExpense),
		tx("2024-02-02", "15.10", models.CategoryInterest, models.TypeIncome),
		tx("2024-02-11", "40", models.CategoryFood, models.TypeExpense), // refund
		tx("2024-02-20", "-75.35", models.CategoryTransportation, models.TypeExpense),
		tx("2024-03-01", "-60", models.CategoryApparel, models.TypeExpense),
		tx("2024-03-03", "2500.00", models.CategorySalary, models.TypeIncome),
	}
}

func TestTotalsOf_Scenario(t *testing.T) {
	totals := TotalsOf(yearOfSalaryAndRent())

	assert.True(t, decimal.NewFromInt(12000).Equal(totals.Income))
	assert.True(t, decimal.NewFromInt(-3600).Equal(totals.Expenses))
	assert.True(t, decimal.NewFromInt(8400).Equal(totals.Net))
}

func TestTotalsOf_SignsAndExactNet(t *testing.T) {
	for _, table := range []models.Table{mixedTable(), yearOfSalaryAndRent(), {}} {
		totals := TotalsOf(table)
		assert.False(t, totals.Income.IsNegative())
		assert.False(t, totals.Expenses.IsPositive())
		assert.True(t, totals.Income.Add(totals.Expenses).Equal(totals.Net))
	}
}

func TestMonthlySummary_Scenario(t *testing.T) {
	summary := MonthlySummary(yearOfSalaryAndRent())

	require.Len(t, summary, 12)
	for i, s := range summary {
		assert.Equal(t, models.Month{Year: 2023, Month: time.Month(i + 1)}, s.Month)
		assert.True(t, decimal.NewFromInt(700).Equal(s.Net), "month %s net %s", s.Month, s.Net)
		assert.True(t, decimal.NewFromInt(1000).Equal(s.Income))
		assert.True(t, decimal.NewFromInt(-300).Equal(s.Expense))
	}
}

func TestMonthlySummary_SkipsAbsentMonthsAndSorts(t *testing.T) {
	table := models.Table{
		tx("2024-05-01", "-10", models.CategoryFood, models.TypeExpense),
		tx("2024-02-01", "-20", models.CategoryFood, models.TypeExpense),
	}

	summary := MonthlySummary(table)
	require.Len(t, summary, 2)
	assert.Equal(t, time.February, summary[0].Month.Month)
	assert.Equal(t, time.May, summary[1].Month.Month)
}

func TestSplitIncome_Partition(t *testing.T) {
	table := mixedTable()
	nonIncome, income := SplitIncome(table)

	assert.Len(t, income, 3)
	assert.Len(t, nonIncome, 5)
	for _, tx := range income {
		assert.True(t, tx.IsIncome())
	}

	grand := TotalsOf(table).Net
	assert.True(t, TotalsOf(nonIncome).Net.Add(TotalsOf(income).Net).Equal(grand))
}

func TestCategorySpending(t *testing.T) {
	nonIncome, _ := SplitIncome(mixedTable())
	spending := CategorySpending(nonIncome)

	require.Len(t, spending, 4)
	assert.Equal(t, models.CategoryHousehold, spending[0].Category)
	assert.True(t, decimal.NewFromInt(-900).Equal(spending[0].Amount))

	// food: -120.40 + 40 refund
	var food CategoryAmount
	sum := decimal.Zero
	for _, c := range spending {
		assert.NotEqual(t, models.CategorySalary, c.Category)
		sum = sum.Add(c.Amount)
		if c.Category == models.CategoryFood {
			food = c
		}
	}
	assert.True(t, decimal.RequireFromString("-80.40").Equal(food.Amount))
	assert.True(t, TotalsOf(nonIncome).Net.Equal(sum))

	for i := 1; i < len(spending); i++ {
		assert.True(t, spending[i-1].Amount.LessThanOrEqual(spending[i].Amount))
	}
}

func TestCategorySpending_TiesByName(t *testing.T) {
	spending := CategorySpending(models.Table{
		tx("2024-01-01", "-50", models.CategoryTourism, models.TypeExpense),
		tx("2024-01-02", "-50", models.CategoryBeauty, models.TypeExpense),
	})
	require.Len(t, spending, 2)
	assert.Equal(t, models.CategoryBeauty, spending[0].Category)
}

func TestNeedsVsWants(t *testing.T) {
	nw := NeedsVsWants(yearOfSalaryAndRent())
	assert.True(t, decimal.NewFromInt(3600).Equal(nw.Needs))
	assert.True(t, nw.Wants.IsZero())

	table := mixedTable()
	nw = NeedsVsWants(table)
	assert.True(t, decimal.RequireFromString("975.35").Equal(nw.Needs))
	assert.True(t, nw.Needs.Add(nw.Wants).Equal(TotalsOf(table).Expenses.Abs()))

	slices := nw.Slices()
	require.Len(t, slices, 2)
	assert.Equal(t, SliceNeeds, slices[0].Label)
	assert.Equal(t, SliceWants, slices[1].Label)
}

func TestNeedsVsWants_EssentialRefundExceedsSpending(t *testing.T) {
	table := models.Table{
		tx("2024-01-05", "-100", models.CategoryHousehold, models.TypeExpense),
		tx("2024-01-20", "300", models.CategoryHousehold, models.TypeExpense), // deposit returned
		tx("2024-01-22", "-50", models.CategoryFood, models.TypeExpense),
	}

	nw := NeedsVsWants(table)
	assert.True(t, decimal.NewFromInt(200).Equal(nw.Needs), "needs: %s", nw.Needs)
	assert.True(t, decimal.NewFromInt(-50).Equal(nw.Wants), "wants: %s", nw.Wants)
	assert.True(t, nw.Needs.Add(nw.Wants).Equal(TotalsOf(table).Expenses.Abs()))
}

func TestIncomeSources(t *testing.T) {
	sources := IncomeSources(mixedTable())

	require.Len(t, sources, 3)
	assert.Equal(t, models.CategorySalary, sources[0].Category)
	assert.True(t, decimal.NewFromInt(5000).Equal(sources[0].Amount))
	assert.Equal(t, models.CategoryFood, sources[1].Category, "positive refunds count as a source")
	assert.Equal(t, models.CategoryInterest, sources[2].Category)
}

func TestCategoryTrendsOf(t *testing.T) {
	nonIncome, _ := SplitIncome(mixedTable())
	trends := CategoryTrendsOf(nonIncome)

	require.Len(t, trends.Months, 3)
	assert.Equal(t, []models.Category{
		models.CategoryApparel, models.CategoryFood, models.CategoryHousehold, models.CategoryTransportation,
	}, trends.Categories)
	require.Len(t, trends.Values, 3)

	// March has only apparel
	assert.True(t, decimal.NewFromInt(-60).Equal(trends.Values[2][0]))
	assert.True(t, trends.Values[2][1].IsZero())
	assert.True(t, decimal.NewFromInt(40).Equal(trends.Values[1][1]))
}

func TestMonthlyByType(t *testing.T) {
	byType := MonthlyByType(mixedTable())

	require.Len(t, byType, 3)
	assert.True(t, decimal.RequireFromString("2500").Equal(byType[0].Income))
	assert.True(t, decimal.RequireFromString("-1020.40").Equal(byType[0].Expense))
	assert.True(t, decimal.RequireFromString("-35.35").Equal(byType[1].Expense))
}

func TestEmptyTable(t *testing.T) {
	empty := models.Table{}

	totals := TotalsOf(empty)
	assert.True(t, totals.Income.IsZero())
	assert.True(t, totals.Expenses.IsZero())
	assert.True(t, totals.Net.IsZero())

	assert.Empty(t, MonthlySummary(empty))
	assert.Empty(t, CategorySpending(empty))
	assert.Empty(t, IncomeSources(empty))
	assert.Empty(t, MonthlyByType(empty))

	nonIncome, income := SplitIncome(empty)
	assert.Empty(t, nonIncome)
	assert.Empty(t, income)

	nw := NeedsVsWants(empty)
	assert.True(t, nw.Needs.IsZero())
	assert.True(t, nw.Wants.IsZero())

	trends := CategoryTrendsOf(empty)
	assert.Empty(t, trends.Months)
	assert.Empty(t, trends.Values)
}
