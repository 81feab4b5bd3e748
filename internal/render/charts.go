package render

import (
	"errors"
	"fmt"
	"math"

	"fjacquet/expense-insights/internal/aggregator"
	"fjacquet/expense-insights/internal/models"
	"fjacquet/expense-insights/internal/pipeline"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	errNoData     = errors.New("no data to plot")
	errNoForecast = errors.New("forecast unavailable")
)

func monthLabels(months []models.Month) []string {
	labels := make([]string, len(months))
	for i, m := range months {
		labels[i] = m.String()
	}
	return labels
}

func (r *Renderer) incomeVsExpenses(res *pipeline.Result) (drawable, error) {
	if len(res.MonthlyByType) == 0 {
		return nil, errNoData
	}
	months := make([]models.Month, len(res.MonthlyByType))
	income := make([]float64, len(res.MonthlyByType))
	expense := make([]float64, len(res.MonthlyByType))
	for i, s := range res.MonthlyByType {
		months[i] = s.Month
		income[i], _ = s.Income.Float64()
		e, _ := s.Expense.Float64()
		expense[i] = math.Abs(e)
	}
	xs := indices(len(months), 0)
	series := []chart.Series{
		chart.ContinuousSeries{Name: "Income", XValues: xs, YValues: income, Style: lineStyle(colorIncome)},
		chart.ContinuousSeries{Name: "Expense", XValues: xs, YValues: expense, Style: lineStyle(colorExpense)},
	}
	return r.lineChart("Monthly Income vs. Expense", "Amount", monthLabels(months), series, income, expense), nil
}

func (r *Renderer) monthlyBalance(res *pipeline.Result) (drawable, error) {
	if len(res.Monthly) == 0 {
		return nil, errNoData
	}
	months := make([]models.Month, len(res.Monthly))
	net := make([]float64, len(res.Monthly))
	for i, s := range res.Monthly {
		months[i] = s.Month
		net[i], _ = s.Net.Float64()
	}
	series := []chart.Series{
		chart.ContinuousSeries{Name: "Net", XValues: indices(len(net), 0), YValues: net, Style: lineStyle(colorActual)},
	}
	return r.lineChart("Monthly Balance Over Time", "Net Balance", monthLabels(months), series, net), nil
}

func (r *Renderer) pie(title string, values []chart.Value) (drawable, error) {
	var slices []chart.Value
	for _, v := range values {
		if v.Value > 0 {
			slices = append(slices, v)
		}
	}
	if len(slices) == 0 {
		return nil, errNoData
	}
	return &chart.PieChart{
		Title:  title,
		Width:  r.height,
		Height: r.height,
		Values: slices,
	}, nil
}

func (r *Renderer) incomeSources(res *pipeline.Result) (drawable, error) {
	total := 0.0
	for _, s := range res.IncomeSources {
		f, _ := s.Amount.Float64()
		total += f
	}
	values := make([]chart.Value, 0, len(res.IncomeSources))
	for _, s := range res.IncomeSources {
		f, _ := s.Amount.Float64()
		values = append(values, chart.Value{Value: f, Label: sliceLabel(s.Category.String(), f, total)})
	}
	return r.pie("Income Sources Breakdown", values)
}

func (r *Renderer) needsWants(res *pipeline.Result) (drawable, error) {
	slices := res.NeedsWants.Slices()
	total := 0.0
	for _, s := range slices {
		f, _ := s.Value.Float64()
		total += f
	}
	values := make([]chart.Value, 0, len(slices))
	for _, s := range slices {
		f, _ := s.Value.Float64()
		values = append(values, chart.Value{Value: f, Label: sliceLabel(s.Label, f, total)})
	}
	return r.pie("Needs vs. Wants Spending", values)
}

func sliceLabel(label string, value, total float64) string {
	if total <= 0 {
		return label
	}
	return fmt.Sprintf("%s %.1f%%", label, 100*value/total)
}

func (r *Renderer) actualVsForecast(res *pipeline.Result) (drawable, error) {
	if res.Forecast == nil {
		return nil, errNoForecast
	}
	actual := make([]float64, len(res.Savings))
	labels := make([]string, 0, len(res.Savings)+len(res.Forecast.Points))
	for i, pt := range res.Savings {
		actual[i] = pt.Net
		labels = append(labels, pt.Month.String())
	}
	projected := make([]float64, len(res.Forecast.Points))
	for i, pt := range res.Forecast.Points {
		projected[i] = pt.Value
		labels = append(labels, pt.Month.String())
	}

	forecastStyle := lineStyle(colorForecast)
	forecastStyle.StrokeDashArray = []float64{5, 5}
	series := []chart.Series{
		chart.ContinuousSeries{Name: "Actual Net Savings", XValues: indices(len(actual), 0), YValues: actual, Style: lineStyle(colorActual)},
		chart.ContinuousSeries{Name: "Forecasted Net Savings", XValues: indices(len(projected), len(actual)), YValues: projected, Style: forecastStyle},
	}
	return r.lineChart("Net Savings Forecast for Next 6 Months", "Net Savings", labels, series, actual, projected), nil
}

func (r *Renderer) netSavingsForecast(res *pipeline.Result) (drawable, error) {
	if res.Forecast == nil {
		return nil, errNoForecast
	}
	bars := make([]chart.Value, len(res.Forecast.Points))
	values := make([]float64, len(res.Forecast.Points))
	for i, pt := range res.Forecast.Points {
		values[i] = pt.Value
		style := chart.Style{FillColor: colorIncome, StrokeColor: colorIncome}
		if pt.Value < 0 {
			style = chart.Style{FillColor: colorExpense, StrokeColor: colorExpense}
		}
		bars[i] = chart.Value{Value: pt.Value, Label: pt.Month.String(), Style: style}
	}

	yRange := valueRange(append(values, 0))
	return &chart.BarChart{
		Title:  "Projected Net Savings",
		Width:  r.width,
		Height: r.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 50},
		},
		BarWidth:     60,
		BarSpacing:   40,
		UseBaseValue: true,
		BaseValue:    0,
		YAxis: chart.YAxis{
			Range:          yRange,
			ValueFormatter: amountFormatter,
		},
		Bars: bars,
	}, nil
}

func (r *Renderer) suspicious(res *pipeline.Result) (drawable, error) {
	rows := res.Anomalies.Rows
	if len(rows) == 0 {
		return nil, errNoData
	}
	xs := make([]float64, len(rows))
	ys := make([]float64, len(rows))
	labels := make([]string, len(rows))
	for i, row := range rows {
		xs[i] = float64(i)
		ys[i] = row.Amount
		labels[i] = row.Date.Format("2006-01-02")
	}

	series := []chart.Series{
		chart.ContinuousSeries{Name: "Transaction Amount", XValues: xs, YValues: ys, Style: chart.Style{StrokeColor: colorActual, StrokeWidth: 1}},
	}
	if len(res.Anomalies.Outliers) > 0 {
		ox := make([]float64, len(res.Anomalies.Outliers))
		oy := make([]float64, len(res.Anomalies.Outliers))
		for i, row := range res.Anomalies.Outliers {
			ox[i] = float64(row.Index)
			oy[i] = row.Amount
		}
		series = append(series, chart.ContinuousSeries{
			Name:    "Outliers",
			XValues: ox,
			YValues: oy,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    6,
				DotColor:    colorOutlier,
				StrokeColor: colorOutlier,
			},
		})
	}

	graph := r.lineChart("Suspicious Transactions (Outliers)", "Transaction Amount", labels, series, ys)
	graph.XAxis.Name = "Date"
	graph.XAxis.Ticks = labelTicks(labels, 8)
	return graph, nil
}

func (r *Renderer) categoryTrends(res *pipeline.Result) (drawable, error) {
	trends := res.CategoryTrends
	if len(trends.Months) == 0 || len(trends.Categories) == 0 {
		return nil, errNoData
	}

	xs := indices(len(trends.Months), 0)
	series := make([]chart.Series, 0, len(trends.Categories))
	all := make([][]float64, 0, len(trends.Categories))
	for j, c := range trends.Categories {
		ys := spendColumn(trends, j)
		all = append(all, ys)
		series = append(series, chart.ContinuousSeries{
			Name:    c.String(),
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(paletteColor(j)),
		})
	}

	graph := r.lineChart("Spending by Category Over Time", "Amount Spent", monthLabels(trends.Months), series, all...)
	graph.Elements = []chart.Renderable{chart.LegendLeft(graph)}
	graph.Background.Padding.Left = 150
	return graph, nil
}

// spendColumn returns the spending magnitude of category j per month.
func spendColumn(trends aggregator.CategoryTrends, j int) []float64 {
	ys := make([]float64, len(trends.Months))
	for i := range trends.Months {
		f, _ := trends.Values[i][j].Float64()
		ys[i] = -f
	}
	return ys
}

func paletteColor(i int) drawing.Color {
	return chart.DefaultColorPalette.GetSeriesColor(i)
}
