// Package render draws the dashboard charts as PNG images with go-chart.
//
// Charts are rendered into memory so that concurrent requests never share a file.
// A ChartSet can optionally be written to disk under a per-request namespace.
package render

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"fjacquet/expense-insights/internal/apperror"
	"fjacquet/expense-insights/internal/logging"
	"fjacquet/expense-insights/internal/pipeline"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Chart file names.
const (
	ChartIncomeVsExpenses       = "monthly_income_vs_expenses.png"
	ChartMonthlyBalance         = "monthly_balance.png"
	ChartIncomeSources          = "income_sources.png"
	ChartNeedsWants             = "needs_wants.png"
	ChartActualVsForecast       = "actual_vs_forecasted_savings.png"
	ChartSuspicious             = "suspicious_transactions.png"
	ChartCategoryTrends         = "category_trends.png"
	ChartNetSavingsForecast     = "net_savings_forecast.png"
	defaultWidth, defaultHeight = 1024, 512
)

// ChartNames lists every chart in page order.
var ChartNames = []string{
	ChartIncomeVsExpenses,
	ChartMonthlyBalance,
	ChartIncomeSources,
	ChartNeedsWants,
	ChartActualVsForecast,
	ChartNetSavingsForecast,
	ChartSuspicious,
	ChartCategoryTrends,
}

var (
	colorIncome   = drawing.ColorFromHex("2e7d32")
	colorExpense  = drawing.ColorFromHex("c62828")
	colorActual   = drawing.ColorFromHex("1565c0")
	colorForecast = drawing.ColorFromHex("ef6c00")
	colorOutlier  = drawing.ColorFromHex("d50000")
)

// ChartSet holds rendered PNG images by file name.
type ChartSet struct {
	images map[string][]byte
}

// Names returns the rendered chart names in page order.
func (cs *ChartSet) Names() []string {
	var names []string
	for _, n := range ChartNames {
		if _, ok := cs.images[n]; ok {
			names = append(names, n)
		}
	}
	return names
}

// Image returns the PNG bytes of a chart.
func (cs *ChartSet) Image(name string) ([]byte, bool) {
	b, ok := cs.images[name]
	return b, ok
}

// Len returns the number of rendered charts.
func (cs *ChartSet) Len() int {
	return len(cs.images)
}

// WriteTo writes every chart to dir/namespace, or directly to dir when namespace is
// empty, and returns the written paths. A failed write is reported as a RenderError.
func (cs *ChartSet) WriteTo(dir, namespace string) ([]string, error) {
	target := dir
	if namespace != "" {
		target = filepath.Join(dir, namespace)
	}
	if err := os.MkdirAll(target, 0750); err != nil {
		return nil, &apperror.RenderError{Path: target, Msg: "cannot create output directory", Err: err}
	}

	paths := make([]string, 0, len(cs.images))
	for _, name := range cs.Names() {
		path := filepath.Join(target, name)
		if err := os.WriteFile(path, cs.images[name], 0600); err != nil {
			return paths, &apperror.RenderError{Chart: name, Path: path, Msg: "cannot write chart", Err: err}
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Renderer draws charts from a pipeline result.
type Renderer struct {
	logger        logging.Logger
	width, height int
}

// NewRenderer creates a Renderer with the default image size.
func NewRenderer(logger logging.Logger) *Renderer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Renderer{logger: logger, width: defaultWidth, height: defaultHeight}
}

// drawable is any go-chart chart type.
type drawable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

type renderFunc func(res *pipeline.Result) (drawable, error)

// RenderAll renders every chart. A chart that cannot be drawn is left out of the set
// and reported in the error map under its name; the others are unaffected.
func (r *Renderer) RenderAll(res *pipeline.Result) (*ChartSet, map[string]error) {
	builders := map[string]renderFunc{
		ChartIncomeVsExpenses:   r.incomeVsExpenses,
		ChartMonthlyBalance:     r.monthlyBalance,
		ChartIncomeSources:      r.incomeSources,
		ChartNeedsWants:         r.needsWants,
		ChartActualVsForecast:   r.actualVsForecast,
		ChartNetSavingsForecast: r.netSavingsForecast,
		ChartSuspicious:         r.suspicious,
		ChartCategoryTrends:     r.categoryTrends,
	}

	set := &ChartSet{images: make(map[string][]byte, len(builders))}
	failures := make(map[string]error)
	for _, name := range ChartNames {
		img, err := r.render(name, builders[name], res)
		if err != nil {
			r.logger.WithError(err).Warn("Chart not rendered", logging.F(logging.FieldChart, name))
			failures[name] = err
			continue
		}
		set.images[name] = img
	}

	r.logger.Debug("Rendered charts",
		logging.F(logging.FieldCount, set.Len()),
		logging.F("failed", len(failures)))
	return set, failures
}

func (r *Renderer) render(name string, build renderFunc, res *pipeline.Result) ([]byte, error) {
	graph, err := build(res)
	if err != nil {
		return nil, &apperror.RenderError{Chart: name, Msg: err.Error()}
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, &apperror.RenderError{Chart: name, Msg: "drawing failed", Err: err}
	}
	return buf.Bytes(), nil
}

// amountFormatter prints axis values without decimals.
func amountFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f", f)
	}
	return fmt.Sprintf("%v", v)
}

// valueRange returns a y range covering values with a margin. A flat series still
// gets a non-zero span.
func valueRange(values ...[]float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, vs := range values {
		for _, v := range vs {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 0) {
		return &chart.ContinuousRange{Min: 0, Max: 1}
	}
	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = math.Max(math.Abs(hi)*0.1, 1)
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

// indexRange spans n evenly spaced x positions 0..n-1.
func indexRange(n int) *chart.ContinuousRange {
	return &chart.ContinuousRange{Min: -0.5, Max: float64(n) - 0.5}
}

func indices(n int, offset int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i + offset)
	}
	return xs
}

// labelTicks places at most max ticks evenly over labels.
func labelTicks(labels []string, max int) []chart.Tick {
	if len(labels) == 0 {
		return nil
	}
	step := 1
	if len(labels) > max {
		step = int(math.Ceil(float64(len(labels)) / float64(max)))
	}
	ticks := make([]chart.Tick, 0, len(labels)/step+1)
	for i := 0; i < len(labels); i += step {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: labels[i]})
	}
	return ticks
}

func lineStyle(c drawing.Color) chart.Style {
	return chart.Style{StrokeColor: c, StrokeWidth: 2, DotColor: c, DotWidth: 3}
}

func (r *Renderer) lineChart(title, yName string, labels []string, series []chart.Series, ys ...[]float64) *chart.Chart {
	graph := &chart.Chart{
		Title:  title,
		Width:  r.width,
		Height: r.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "Month",
			Range: indexRange(len(labels)),
			Ticks: labelTicks(labels, 12),
		},
		YAxis: chart.YAxis{
			Name:           yName,
			Range:          valueRange(ys...),
			ValueFormatter: amountFormatter,
		},
		Series: series,
	}
	if len(series) > 1 {
		graph.Elements = []chart.Renderable{chart.Legend(graph)}
	}
	return graph
}
