// Package pipeline runs one analysis request end to end: load the sheet, aggregate it,
// forecast net savings and flag anomalies.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fjacquet/expense-insights/internal/aggregator"
	"fjacquet/expense-insights/internal/anomaly"
	"fjacquet/expense-insights/internal/apperror"
	"fjacquet/expense-insights/internal/forecast"
	"fjacquet/expense-insights/internal/logging"
	"fjacquet/expense-insights/internal/models"
)

// TableLoader loads a transaction table from a file.
type TableLoader interface {
	Load(ctx context.Context, path string) (models.Table, error)
}

// Options are the inputs of one run.
type Options struct {
	InputPath string
}

// Result holds everything derived from one table. Forecast is nil when ForecastErr
// is set; the other summaries are always present.
type Result struct {
	InputPath      string
	Table          models.Table
	Totals         aggregator.Totals
	Monthly        []aggregator.MonthSummary
	MonthlyByType  []aggregator.TypeSummary
	CategorySpend  []aggregator.CategoryAmount
	IncomeSources  []aggregator.CategoryAmount
	NeedsWants     aggregator.NeedsWants
	CategoryTrends aggregator.CategoryTrends
	Savings        []forecast.SavingsPoint
	Forecast       *forecast.Result
	ForecastErr    error
	Anomalies      anomaly.Report
	GeneratedAt    time.Time
}

// Analyzer wires the analysis stages.
type Analyzer struct {
	logger     logging.Logger
	loader     TableLoader
	forecaster *forecast.Forecaster
	detector   *anomaly.Detector
}

// NewAnalyzer creates an Analyzer from its stages.
func NewAnalyzer(logger logging.Logger, loader TableLoader, forecaster *forecast.Forecaster, detector *anomaly.Detector) *Analyzer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Analyzer{logger: logger, loader: loader, forecaster: forecaster, detector: detector}
}

// Run executes the pipeline. A load failure aborts the run; a forecast failure is
// recorded in Result.ForecastErr and the remaining results are still returned.
func (a *Analyzer) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.InputPath == "" {
		return nil, fmt.Errorf("input path is required")
	}
	start := time.Now()
	log := a.logger.WithField(logging.FieldFile, opts.InputPath)

	table, err := a.loader.Load(ctx, opts.InputPath)
	if err != nil {
		log.WithError(err).Error("Failed to load transactions")
		return nil, fmt.Errorf("load %s: %w", opts.InputPath, err)
	}

	nonIncome, _ := aggregator.SplitIncome(table)
	res := &Result{
		InputPath:      opts.InputPath,
		Table:          table,
		Totals:         aggregator.TotalsOf(table),
		Monthly:        aggregator.MonthlySummary(table),
		MonthlyByType:  aggregator.MonthlyByType(table),
		CategorySpend:  aggregator.CategorySpending(nonIncome),
		IncomeSources:  aggregator.IncomeSources(table),
		NeedsWants:     aggregator.NeedsVsWants(table),
		CategoryTrends: aggregator.CategoryTrendsOf(nonIncome),
		GeneratedAt:    time.Now(),
	}
	res.Savings = forecast.SavingsSeries(res.Monthly)

	fc, err := a.forecaster.Forecast(res.Savings)
	if err != nil {
		var fe *apperror.ForecastError
		if !errors.As(err, &fe) {
			return nil, fmt.Errorf("forecast: %w", err)
		}
		log.WithError(err).Warn("Savings forecast unavailable")
		res.ForecastErr = err
	} else {
		res.Forecast = &fc
	}

	report, err := a.detector.Detect(ctx, table)
	if err != nil {
		return nil, err
	}
	res.Anomalies = report

	log.Info("Analysis completed",
		logging.F(logging.FieldCount, len(table)),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return res, nil
}
