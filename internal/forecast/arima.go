package forecast

import (
	"math"
)

// Order is the (p, d, q) order of an ARIMA model.
type Order struct {
	P, D, Q int
}

// MinObservations is the shortest series the order can be fitted on: after d
// differences, p presample values must leave at least p+q conditional residuals.
func (o Order) MinObservations() int {
	return o.D + 2*o.P + o.Q
}

// Params are the fitted ARMA coefficients of the differenced series.
type Params struct {
	AR []float64 `json:"ar" yaml:"ar"`
	MA []float64 `json:"ma" yaml:"ma"`
}

// difference applies d first differences.
func difference(y []float64, d int) []float64 {
	out := append([]float64(nil), y...)
	for i := 0; i < d; i++ {
		next := make([]float64, len(out)-1)
		for t := 1; t < len(out); t++ {
			next[t-1] = out[t] - out[t-1]
		}
		out = next
	}
	return out
}

// pacfToCoefficients maps partial autocorrelations in (-1, 1) to the coefficients of a
// stationary AR polynomial with the Durbin-Levinson recursion.
func pacfToCoefficients(pacf []float64) []float64 {
	phi := make([]float64, len(pacf))
	prev := make([]float64, len(pacf))
	for k := range pacf {
		copy(prev, phi)
		phi[k] = pacf[k]
		for j := 0; j < k; j++ {
			phi[j] = prev[j] - pacf[k]*prev[k-1-j]
		}
	}
	return phi
}

// decode maps an unconstrained optimizer vector to stationary AR and invertible MA
// coefficients.
func decode(x []float64, o Order) Params {
	ar := make([]float64, o.P)
	for i := range ar {
		ar[i] = math.Tanh(x[i])
	}
	ma := make([]float64, o.Q)
	for i := range ma {
		ma[i] = math.Tanh(x[o.P+i])
	}

	params := Params{AR: pacfToCoefficients(ar), MA: pacfToCoefficients(ma)}
	// 1 + theta(B) must equal 1 - a(B) of a stationary a.
	for i := range params.MA {
		params.MA[i] = -params.MA[i]
	}
	return params
}

// residuals runs the conditional ARMA recursion over w, treating the first p values
// as presample and all presample residuals as zero.
func residuals(w []float64, params Params) []float64 {
	p, q := len(params.AR), len(params.MA)
	e := make([]float64, len(w))
	for t := p; t < len(w); t++ {
		pred := 0.0
		for i := 0; i < p; i++ {
			pred += params.AR[i] * w[t-1-i]
		}
		for j := 0; j < q; j++ {
			if t-1-j >= 0 {
				pred += params.MA[j] * e[t-1-j]
			}
		}
		e[t] = w[t] - pred
	}
	return e
}

// sumOfSquares is the conditional sum of squares objective.
func sumOfSquares(w []float64, params Params) float64 {
	e := residuals(w, params)
	sse := 0.0
	for t := len(params.AR); t < len(e); t++ {
		sse += e[t] * e[t]
	}
	return sse
}

// extend forecasts h further values of the differenced series with zero future shocks.
func extend(w, e []float64, params Params, h int) []float64 {
	n := len(w)
	ww := append(append([]float64(nil), w...), make([]float64, h)...)
	ee := append(append([]float64(nil), e...), make([]float64, h)...)
	for t := n; t < n+h; t++ {
		pred := 0.0
		for i, phi := range params.AR {
			if t-1-i >= 0 {
				pred += phi * ww[t-1-i]
			}
		}
		for j, theta := range params.MA {
			if t-1-j >= 0 {
				pred += theta * ee[t-1-j]
			}
		}
		ww[t] = pred
	}
	return ww[n:]
}

// integrate undoes one difference starting from last.
func integrate(last float64, diffs []float64) []float64 {
	out := make([]float64, len(diffs))
	level := last
	for i, dw := range diffs {
		level += dw
		out[i] = level
	}
	return out
}
