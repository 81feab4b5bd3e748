// Package anomaly flags unusual transactions. Two signals are combined: an isolation
// forest over the amount column, and a rolling z-score against the preceding rows
// of the same month.
package anomaly

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"fjacquet/expense-insights/internal/logging"
	"fjacquet/expense-insights/internal/models"
)

// Detection defaults.
const (
	DefaultTrees             = 100
	DefaultSeed              = 42
	DefaultRollingZThreshold = 4.0
	Contamination            = 0.02
	Window                   = 3
)

// Options configures a Detector. Zero Trees means DefaultTrees. A zero
// RollingZThreshold disables the rolling signal.
type Options struct {
	Trees             int
	Seed              int64
	RollingZThreshold float64
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{Trees: DefaultTrees, Seed: DefaultSeed, RollingZThreshold: DefaultRollingZThreshold}
}

// Row is one transaction with its derived anomaly columns. RollingMean and RollingStd
// are NaN for the first Window-1 rows of each month.
type Row struct {
	Index            int
	Date             time.Time
	Amount           float64
	Category         models.Category
	RollingMean      float64
	RollingStd       float64
	Score            float64
	IsolationOutlier bool
	RollingOutlier   bool
}

// Outlier reports whether any signal flagged the row.
func (r Row) Outlier() bool {
	return r.IsolationOutlier || r.RollingOutlier
}

// Report is the result of a detection run. Rows follow table order; Outliers is the
// flagged subset in the same order.
type Report struct {
	Rows      []Row
	Outliers  []Row
	Threshold float64
}

// Detector runs anomaly detection over a table.
type Detector struct {
	logger logging.Logger
	opts   Options
}

// NewDetector creates a Detector.
func NewDetector(logger logging.Logger, opts Options) *Detector {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if opts.Trees <= 0 {
		opts.Trees = DefaultTrees
	}
	return &Detector{logger: logger, opts: opts}
}

// Detect derives the rolling statistics and isolation scores of every row and returns
// the flagged rows. The run is deterministic for a given seed.
func (d *Detector) Detect(ctx context.Context, t models.Table) (Report, error) {
	if len(t) == 0 {
		return Report{Rows: []Row{}, Outliers: []Row{}}, nil
	}

	rows := make([]Row, len(t))
	for i, tx := range t {
		rows[i] = Row{
			Index:       i,
			Date:        tx.Date,
			Amount:      tx.AmountFloat(),
			Category:    tx.Category,
			RollingMean: math.NaN(),
			RollingStd:  math.NaN(),
		}
	}

	d.applyRolling(rows, t)

	amounts := t.Amounts()
	forest, err := growForest(ctx, amounts, d.opts.Trees, rand.New(rand.NewSource(d.opts.Seed)))
	if err != nil {
		return Report{}, fmt.Errorf("anomaly detection: %w", err)
	}

	scores := make([]float64, len(rows))
	for i := range rows {
		rows[i].Score = forest.score(rows[i].Amount)
		scores[i] = rows[i].Score
	}
	sort.Float64s(scores)
	threshold := quantile(1-Contamination, scores)

	outliers := make([]Row, 0)
	for i := range rows {
		rows[i].IsolationOutlier = rows[i].Score > threshold
		if rows[i].Outlier() {
			outliers = append(outliers, rows[i])
		}
	}

	d.logger.Info("Anomaly detection completed",
		logging.F(logging.FieldCount, len(rows)),
		logging.F("outliers", len(outliers)),
		logging.F("threshold", threshold))

	return Report{Rows: rows, Outliers: outliers, Threshold: threshold}, nil
}

// applyRolling fills the rolling columns per month bucket, in table order, and sets
// RollingOutlier for rows far from the preceding full window.
func (d *Detector) applyRolling(rows []Row, t models.Table) {
	buckets := make(map[models.Month][]int)
	var order []models.Month
	for i, tx := range t {
		m := tx.Month()
		if _, ok := buckets[m]; !ok {
			order = append(order, m)
		}
		buckets[m] = append(buckets[m], i)
	}

	for _, m := range order {
		idx := buckets[m]
		values := make([]float64, len(idx))
		for k, i := range idx {
			values[k] = rows[i].Amount
		}
		means, stds := rollingStats(values, Window)
		for k, i := range idx {
			rows[i].RollingMean, rows[i].RollingStd = means[k], stds[k]
			if d.opts.RollingZThreshold <= 0 || k < Window {
				continue
			}
			mean, std := means[k-1], stds[k-1]
			if std > 0 && math.Abs(values[k]-mean)/std > d.opts.RollingZThreshold {
				rows[i].RollingOutlier = true
			}
		}
	}
}
