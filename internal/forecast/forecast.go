// Package forecast projects monthly net savings six months ahead with a fixed-order
// ARIMA(2,1,2) model fitted by conditional sum of squares.
//
// The model is refitted from scratch on every call; a Forecaster holds no state
// besides its configuration.
package forecast

import (
	"fmt"
	"math"

	"fjacquet/expense-insights/internal/apperror"
	"fjacquet/expense-insights/internal/logging"
	"fjacquet/expense-insights/internal/models"

	"gonum.org/v1/gonum/optimize"
)

// DefaultOrder is the model order used by New.
var DefaultOrder = Order{P: 2, D: 1, Q: 2}

// DefaultHorizon is the number of projected months.
const DefaultHorizon = 6

// maxEvaluations bounds the Nelder-Mead search.
const maxEvaluations = 4000

// ForecastPoint is one projected month.
type ForecastPoint struct {
	Month models.Month `json:"month" yaml:"month"`
	Value float64      `json:"value" yaml:"value"`
}

// Result is a fitted model and its projection.
type Result struct {
	Fitted Params          `json:"fitted" yaml:"fitted"`
	Points []ForecastPoint `json:"points" yaml:"points"`
	SSE    float64         `json:"sse" yaml:"sse"`
}

// Forecaster fits and projects a savings series.
type Forecaster struct {
	logger  logging.Logger
	order   Order
	horizon int
}

// New creates a Forecaster with the default order and horizon.
func New(logger logging.Logger) *Forecaster {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Forecaster{logger: logger, order: DefaultOrder, horizon: DefaultHorizon}
}

// Forecast fits the model to series and projects the next months. series must be
// strictly increasing by month, as returned by SavingsSeries. The returned points start
// the month after the last observation and are consecutive.
//
// Series that are too short, contain non-finite values or yield a non-finite
// projection fail with *apperror.ForecastError.
func (f *Forecaster) Forecast(series []SavingsPoint) (Result, error) {
	required := f.order.MinObservations()
	if len(series) < required {
		return Result{}, &apperror.ForecastError{
			Observations: len(series),
			Required:     required,
			Msg:          "not enough monthly observations",
		}
	}

	y := make([]float64, len(series))
	for i, pt := range series {
		if math.IsNaN(pt.Net) || math.IsInf(pt.Net, 0) {
			return Result{}, &apperror.ForecastError{Msg: fmt.Sprintf("non-finite net savings in %s", pt.Month)}
		}
		if i > 0 && !series[i-1].Month.Before(pt.Month) {
			return Result{}, &apperror.ForecastError{Msg: fmt.Sprintf("months out of order at %s", pt.Month)}
		}
		y[i] = pt.Net
	}

	w := difference(y, f.order.D)
	params, sse, err := f.fit(w)
	if err != nil {
		return Result{}, err
	}

	diffs := extend(w, residuals(w, params), params, f.horizon)
	values := undifference(y, f.order.D, diffs)

	last := series[len(series)-1].Month
	points := make([]ForecastPoint, f.horizon)
	for h, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Result{}, &apperror.ForecastError{Msg: "model produced a non-finite forecast"}
		}
		points[h] = ForecastPoint{Month: last.AddMonths(h + 1), Value: v}
	}

	f.logger.Debug("Fitted savings model",
		logging.F(logging.FieldObservation, len(series)),
		logging.F("ar", params.AR),
		logging.F("ma", params.MA),
		logging.F("sse", sse))

	return Result{Fitted: params, Points: points, SSE: sse}, nil
}

func (f *Forecaster) fit(w []float64) (Params, float64, error) {
	dims := f.order.P + f.order.Q
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return sumOfSquares(w, decode(x, f.order))
		},
	}
	settings := &optimize.Settings{
		FuncEvaluations: maxEvaluations,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Relative:   1e-10,
			Iterations: 200,
		},
	}

	res, err := optimize.Minimize(problem, make([]float64, dims), settings, &optimize.NelderMead{})
	if res == nil || math.IsNaN(res.F) || math.IsInf(res.F, 0) {
		return Params{}, 0, &apperror.ForecastError{Msg: "model fit did not converge", Err: err}
	}
	if err != nil {
		f.logger.WithError(err).Warn("Savings model search stopped early, using best point found")
	}
	return decode(res.X, f.order), res.F, nil
}

// undifference integrates d times the projected differences back to levels of y.
func undifference(y []float64, d int, diffs []float64) []float64 {
	out := diffs
	for k := d - 1; k >= 0; k-- {
		level := difference(y, k)
		out = integrate(level[len(level)-1], out)
	}
	return out
}
