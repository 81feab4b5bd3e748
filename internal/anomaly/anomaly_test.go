package anomaly

import (
	"context"
	"math"
	"testing"
	"time"

	"fjacquet/expense-insights/internal/logging"
	"fjacquet/expense-insights/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expense(day time.Time, amount float64) models.Transaction {
	return models.Transaction{
		Date:     day,
		Amount:   decimal.NewFromFloat(amount),
		Category: models.CategoryFood,
		Type:     models.TypeExpense,
	}
}

// spendingWithSpike has 60 ordinary expenses between -50 and -500 over three months
// and a single -50000 row in the middle.
func spendingWithSpike() (models.Table, int) {
	var table models.Table
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	spike := 30
	for i := 0; i < 61; i++ {
		day := start.AddDate(0, 0, i+i/2)
		if i == spike {
			table = append(table, expense(day, -50000))
			continue
		}
		table = append(table, expense(day, -float64(50+(i*37)%451)))
	}
	return table, spike
}

func TestDetect_FlagsExtremeExpense(t *testing.T) {
	table, spike := spendingWithSpike()
	d := NewDetector(logging.NewMockLogger(), DefaultOptions())

	report, err := d.Detect(context.Background(), table)
	require.NoError(t, err)
	require.Len(t, report.Rows, len(table))

	assert.True(t, report.Rows[spike].IsolationOutlier)
	found := false
	for _, row := range report.Outliers {
		if row.Index == spike {
			found = true
			assert.Equal(t, -50000.0, row.Amount)
		}
	}
	assert.True(t, found, "the -50000 row must be in the outlier set")

	for i, row := range report.Rows {
		if i != spike {
			assert.Less(t, row.Score, report.Rows[spike].Score)
		}
	}
	assert.LessOrEqual(t, len(report.Outliers), len(table)/4)
}

func TestDetect_Deterministic(t *testing.T) {
	table, _ := spendingWithSpike()
	d := NewDetector(logging.NewMockLogger(), DefaultOptions())

	first, err := d.Detect(context.Background(), table)
	require.NoError(t, err)
	second, err := d.Detect(context.Background(), table)
	require.NoError(t, err)

	for i := range first.Rows {
		assert.Equal(t, first.Rows[i].Score, second.Rows[i].Score)
	}
	assert.Equal(t, len(first.Outliers), len(second.Outliers))
}

func TestDetect_RollingStatsPerMonth(t *testing.T) {
	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	table := models.Table{
		expense(jan, -10),
		expense(jan.AddDate(0, 0, 1), -10.5),
		expense(jan.AddDate(0, 0, 2), -9.5),
		expense(feb, -40), // new bucket, interleaved in table order
		expense(jan.AddDate(0, 0, 3), -10),
		expense(jan.AddDate(0, 0, 4), -200),
		expense(feb.AddDate(0, 0, 1), -60),
	}

	report, err := NewDetector(logging.NewMockLogger(), DefaultOptions()).Detect(context.Background(), table)
	require.NoError(t, err)
	rows := report.Rows

	assert.True(t, math.IsNaN(rows[0].RollingMean))
	assert.True(t, math.IsNaN(rows[1].RollingStd))
	assert.InDelta(t, -10.0, rows[2].RollingMean, 1e-9)
	assert.InDelta(t, 0.5, rows[2].RollingStd, 1e-9)

	// February restarts the window.
	assert.True(t, math.IsNaN(rows[3].RollingMean))
	assert.True(t, math.IsNaN(rows[6].RollingMean))

	assert.False(t, rows[4].RollingOutlier)
	assert.True(t, rows[5].RollingOutlier)
	assert.True(t, rows[5].Outlier())
}

func TestDetect_RollingSignalDisabled(t *testing.T) {
	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	table := models.Table{
		expense(jan, -10), expense(jan, -10.5), expense(jan, -9.5), expense(jan, -10), expense(jan, -200),
	}
	opts := DefaultOptions()
	opts.RollingZThreshold = 0

	report, err := NewDetector(logging.NewMockLogger(), opts).Detect(context.Background(), table)
	require.NoError(t, err)
	for _, row := range report.Rows {
		assert.False(t, row.RollingOutlier)
	}
}

func TestDetect_EmptyTable(t *testing.T) {
	report, err := NewDetector(logging.NewMockLogger(), DefaultOptions()).Detect(context.Background(), models.Table{})
	require.NoError(t, err)
	assert.Empty(t, report.Rows)
	assert.Empty(t, report.Outliers)
}

func TestDetect_SingleRowNeverFlagged(t *testing.T) {
	table := models.Table{expense(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), -75)}
	report, err := NewDetector(logging.NewMockLogger(), DefaultOptions()).Detect(context.Background(), table)
	require.NoError(t, err)
	assert.Empty(t, report.Outliers)
}

func TestDetect_Cancelled(t *testing.T) {
	table, _ := spendingWithSpike()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDetector(logging.NewMockLogger(), DefaultOptions()).Detect(ctx, table)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 3.0, quantile(0.5, sorted), 1e-12)
	assert.InDelta(t, 4.92, quantile(0.98, sorted), 1e-12)
	assert.Equal(t, 5.0, quantile(1, sorted))
	assert.True(t, math.IsNaN(quantile(0.5, nil)))
}

func TestAveragePathLength(t *testing.T) {
	assert.Equal(t, 0.0, averagePathLength(1))
	assert.Equal(t, 1.0, averagePathLength(2))
	assert.InDelta(t, 2*(math.Log(255)+eulerGamma)-2*255.0/256.0, averagePathLength(256), 1e-12)
}
