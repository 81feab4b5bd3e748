package render

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/expense-insights/internal/anomaly"
	"fjacquet/expense-insights/internal/apperror"
	"fjacquet/expense-insights/internal/forecast"
	"fjacquet/expense-insights/internal/logging"
	"fjacquet/expense-insights/internal/models"
	"fjacquet/expense-insights/internal/pipeline"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

type tableLoader models.Table

func (t tableLoader) Load(context.Context, string) (models.Table, error) {
	return models.Table(t), nil
}

func household(months int) models.Table {
	var table models.Table
	for m := 0; m < months; m++ {
		first := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, m, 0)
		table = append(table,
			models.Transaction{Date: first, Amount: decimal.NewFromInt(1000), Category: models.CategorySalary, Type: models.TypeIncome},
			models.Transaction{Date: first.AddDate(0, 0, 4), Amount: decimal.NewFromInt(-300), Category: models.CategoryHousehold, Type: models.TypeExpense},
			models.Transaction{Date: first.AddDate(0, 0, 9), Amount: decimal.NewFromInt(int64(-40 - 7*m)), Category: models.CategoryFood, Type: models.TypeExpense},
		)
	}
	return table
}

func analyze(t *testing.T, table models.Table) *pipeline.Result {
	t.Helper()
	logger := logging.NewMockLogger()
	a := pipeline.NewAnalyzer(logger, tableLoader(table), forecast.New(logger), anomaly.NewDetector(logger, anomaly.DefaultOptions()))
	res, err := a.Run(context.Background(), pipeline.Options{InputPath: "memory.csv"})
	require.NoError(t, err)
	return res
}

func TestRenderAll_AllCharts(t *testing.T) {
	res := analyze(t, household(12))

	set, failures := NewRenderer(logging.NewMockLogger()).RenderAll(res)
	assert.Empty(t, failures)
	assert.Equal(t, ChartNames, set.Names())

	for _, name := range ChartNames {
		img, ok := set.Image(name)
		require.True(t, ok, name)
		assert.True(t, bytes.HasPrefix(img, pngMagic), "%s is not a PNG", name)
	}
}

func TestRenderAll_ForecastFailureIsolated(t *testing.T) {
	res := analyze(t, household(3))
	require.Error(t, res.ForecastErr)

	set, failures := NewRenderer(logging.NewMockLogger()).RenderAll(res)
	assert.Len(t, failures, 2)
	for _, name := range []string{ChartActualVsForecast, ChartNetSavingsForecast} {
		var re *apperror.RenderError
		require.True(t, errors.As(failures[name], &re), name)
		assert.Equal(t, name, re.Chart)
	}
	assert.Equal(t, len(ChartNames)-2, set.Len())
	_, ok := set.Image(ChartMonthlyBalance)
	assert.True(t, ok)
}

func TestRenderAll_SingleMonth(t *testing.T) {
	res := analyze(t, household(1))

	set, failures := NewRenderer(logging.NewMockLogger()).RenderAll(res)
	_, ok := set.Image(ChartMonthlyBalance)
	assert.True(t, ok, "a single month still plots: %v", failures[ChartMonthlyBalance])
	_, ok = set.Image(ChartNeedsWants)
	assert.True(t, ok)
}

func TestRenderAll_EmptyTable(t *testing.T) {
	res := analyze(t, models.Table{})

	set, failures := NewRenderer(logging.NewMockLogger()).RenderAll(res)
	assert.Equal(t, 0, set.Len())
	assert.Len(t, failures, len(ChartNames))
}

func TestChartSet_WriteTo(t *testing.T) {
	res := analyze(t, household(8))
	set, _ := NewRenderer(logging.NewMockLogger()).RenderAll(res)
	dir := t.TempDir()

	paths, err := set.WriteTo(dir, "req-1")
	require.NoError(t, err)
	assert.Len(t, paths, set.Len())
	for _, p := range paths {
		assert.Equal(t, filepath.Join(dir, "req-1"), filepath.Dir(p))
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	paths, err = set.WriteTo(dir, "")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, ChartMonthlyBalance))
	assert.Len(t, paths, set.Len())
}

func TestValueRange_FlatSeries(t *testing.T) {
	r := valueRange([]float64{700, 700, 700})
	assert.Less(t, r.Min, 700.0)
	assert.Greater(t, r.Max, 700.0)

	r = valueRange()
	assert.Equal(t, 0.0, r.Min)
	assert.Equal(t, 1.0, r.Max)
}

func TestLabelTicks(t *testing.T) {
	labels := make([]string, 30)
	for i := range labels {
		labels[i] = string(rune('a' + i%26))
	}
	ticks := labelTicks(labels, 8)
	assert.LessOrEqual(t, len(ticks), 8)
	assert.Equal(t, 0.0, ticks[0].Value)
	assert.Nil(t, labelTicks(nil, 8))
}
