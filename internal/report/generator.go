// Package report renders a pipeline result as a machine or human readable summary.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"fjacquet/expense-insights/internal/aggregator"
	"fjacquet/expense-insights/internal/forecast"
	"fjacquet/expense-insights/internal/logging"
	"fjacquet/expense-insights/internal/models"
	"fjacquet/expense-insights/internal/pipeline"

	"gopkg.in/yaml.v3"
)

// Supported output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

// Outlier reasons.
const (
	ReasonIsolation = "isolation"
	ReasonRolling   = "rolling"
)

// Summary is the serializable view of a pipeline result.
type Summary struct {
	Input            string                      `json:"input" yaml:"input"`
	GeneratedAt      time.Time                   `json:"generated_at" yaml:"generated_at"`
	Transactions     int                         `json:"transactions" yaml:"transactions"`
	Totals           aggregator.Totals           `json:"totals" yaml:"totals"`
	Monthly          []aggregator.MonthSummary   `json:"monthly" yaml:"monthly"`
	CategorySpending []aggregator.CategoryAmount `json:"category_spending" yaml:"category_spending"`
	IncomeSources    []aggregator.CategoryAmount `json:"income_sources" yaml:"income_sources"`
	NeedsWants       aggregator.NeedsWants       `json:"needs_wants" yaml:"needs_wants"`
	Forecast         []forecast.ForecastPoint    `json:"forecast,omitempty" yaml:"forecast,omitempty"`
	ForecastError    string                      `json:"forecast_error,omitempty" yaml:"forecast_error,omitempty"`
	Outliers         []Outlier                   `json:"outliers" yaml:"outliers"`
	Charts           []string                    `json:"charts,omitempty" yaml:"charts,omitempty"`
}

// Outlier is one flagged transaction. Rolling statistics are omitted when the row
// has fewer than a full window of predecessors in its month.
type Outlier struct {
	Date        string          `json:"date" yaml:"date"`
	Amount      float64         `json:"amount" yaml:"amount"`
	Category    models.Category `json:"category" yaml:"category"`
	Score       float64         `json:"score" yaml:"score"`
	RollingMean *float64        `json:"rolling_mean,omitempty" yaml:"rolling_mean,omitempty"`
	RollingStd  *float64        `json:"rolling_std,omitempty" yaml:"rolling_std,omitempty"`
	Reasons     []string        `json:"reasons" yaml:"reasons"`
}

// Generator produces reports.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Generator{logger: logger}
}

// Summarize builds the serializable summary of res. charts lists written chart paths,
// if any.
func Summarize(res *pipeline.Result, charts []string) Summary {
	s := Summary{
		Input:            res.InputPath,
		GeneratedAt:      res.GeneratedAt,
		Transactions:     len(res.Table),
		Totals:           res.Totals,
		Monthly:          res.Monthly,
		CategorySpending: res.CategorySpend,
		IncomeSources:    res.IncomeSources,
		NeedsWants:       res.NeedsWants,
		Outliers:         make([]Outlier, 0, len(res.Anomalies.Outliers)),
		Charts:           charts,
	}
	if res.Forecast != nil {
		s.Forecast = res.Forecast.Points
	}
	if res.ForecastErr != nil {
		s.ForecastError = res.ForecastErr.Error()
	}
	for _, row := range res.Anomalies.Outliers {
		o := Outlier{
			Date:        row.Date.Format("2006-01-02"),
			Amount:      row.Amount,
			Category:    row.Category,
			Score:       row.Score,
			RollingMean: finite(row.RollingMean),
			RollingStd:  finite(row.RollingStd),
		}
		if row.IsolationOutlier {
			o.Reasons = append(o.Reasons, ReasonIsolation)
		}
		if row.RollingOutlier {
			o.Reasons = append(o.Reasons, ReasonRolling)
		}
		s.Outliers = append(s.Outliers, o)
	}
	return s
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Generate renders the summary of res in the given format.
func (g *Generator) Generate(res *pipeline.Result, format string, charts []string) ([]byte, error) {
	summary := Summarize(res, charts)

	switch strings.ToLower(format) {
	case FormatJSON:
		out, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			g.logger.WithError(err).Error("Failed to marshal JSON report")
			return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
		}
		return out, nil
	case FormatYAML:
		out, err := yaml.Marshal(summary)
		if err != nil {
			g.logger.WithError(err).Error("Failed to marshal YAML report")
			return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
		}
		return out, nil
	case FormatText:
		return renderText(summary), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func renderText(s Summary) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Expense report for %s (%d transactions)\n\n", s.Input, s.Transactions)
	fmt.Fprintf(&buf, "Total income:   %s\n", s.Totals.Income.StringFixed(2))
	fmt.Fprintf(&buf, "Total expenses: %s\n", s.Totals.Expenses.StringFixed(2))
	fmt.Fprintf(&buf, "Net savings:    %s\n", s.Totals.Net.StringFixed(2))
	fmt.Fprintf(&buf, "Needs / wants:  %s / %s\n\n", s.NeedsWants.Needs.StringFixed(2), s.NeedsWants.Wants.StringFixed(2))

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Month\tIncome\tExpense\tNet\t")
	for _, m := range s.Monthly {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", m.Month, m.Income.StringFixed(2), m.Expense.StringFixed(2), m.Net.StringFixed(2))
	}
	_ = tw.Flush()

	buf.WriteString("\nSpending by category\n")
	tw = tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	for _, c := range s.CategorySpending {
		fmt.Fprintf(tw, "  %s\t%s\n", c.Category, c.Amount.StringFixed(2))
	}
	_ = tw.Flush()

	buf.WriteString("\nForecast\n")
	if s.ForecastError != "" {
		fmt.Fprintf(&buf, "  unavailable: %s\n", s.ForecastError)
	}
	for _, p := range s.Forecast {
		fmt.Fprintf(&buf, "  %s  %.2f\n", p.Month, p.Value)
	}

	fmt.Fprintf(&buf, "\nSuspicious transactions (%d)\n", len(s.Outliers))
	for _, o := range s.Outliers {
		fmt.Fprintf(&buf, "  %s  %.2f  %s  [%s]\n", o.Date, o.Amount, o.Category, strings.Join(o.Reasons, ","))
	}

	if len(s.Charts) > 0 {
		buf.WriteString("\nCharts\n")
		for _, c := range s.Charts {
			fmt.Fprintf(&buf, "  %s\n", c)
		}
	}
	return buf.Bytes()
}
