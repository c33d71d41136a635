package indicators

import (
	"math"

	"github.com/ducminhle1904/cartridge-backtest/pkg/types"
)

// Indicator is a pure series producer: given an ordered candle slice it
// returns one float series per component, each aligned index-for-index
// with the input. Warm-up bars carry NaN.
type Indicator interface {
	// Type returns the indicator type name (e.g. "SMA")
	Type() string

	// Components lists the component suffixes this indicator produces.
	// The primary component is the empty string; extras (MACD signal
	// line, stochastic %D) carry a named suffix.
	Components() []string

	// Compute calculates all component series for the candle slice
	Compute(candles []types.Candle) map[string][]float64
}

// Component suffixes for multi-output indicators.
const (
	ComponentPrimary   = ""
	ComponentSignal    = "SIGNAL"
	ComponentHistogram = "HISTOGRAM"
	ComponentD         = "D"
)

// Params carries the per-type tuning knobs declared in a cartridge.
// SessionStartMinutes is not part of the cartridge surface: the
// interpreter injects it from the timing block for session-anchored
// indicators (VWAP).
type Params struct {
	Period     int `json:"period,omitempty"`
	Fast       int `json:"fast,omitempty"`
	Slow       int `json:"slow,omitempty"`
	Signal     int `json:"signal,omitempty"`
	KPeriod    int `json:"k_period,omitempty"`
	KSmoothing int `json:"k_smoothing,omitempty"`
	DSmoothing int `json:"d_smoothing,omitempty"`

	SessionStartMinutes int `json:"-"`
}

// Defined reports whether a series value exists at a bar (false during
// warm-up).
func Defined(v float64) bool {
	return !math.IsNaN(v)
}

// emptySeries returns a series of n undefined values.
func emptySeries(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

// closes extracts the close column from a candle slice.
func closes(candles []types.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// smaOver computes a simple moving average over a series that may carry
// a NaN warm-up prefix. The output is defined once period consecutive
// defined inputs exist.
func smaOver(values []float64, period int) []float64 {
	out := emptySeries(len(values))
	first := -1
	for i, v := range values {
		if Defined(v) {
			first = i
			break
		}
	}
	if first < 0 || len(values)-first < period {
		return out
	}
	sum := 0.0
	for i := first; i < len(values); i++ {
		sum += values[i]
		if i-first >= period {
			sum -= values[i-period]
		}
		if i-first >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// emaOver computes an exponential moving average over a series that may
// carry a NaN warm-up prefix, seeded with the SMA of the first period
// defined values.
func emaOver(values []float64, period int) []float64 {
	out := emptySeries(len(values))
	first := -1
	for i, v := range values {
		if Defined(v) {
			first = i
			break
		}
	}
	if first < 0 || len(values)-first < period {
		return out
	}
	seedIdx := first + period - 1
	sum := 0.0
	for i := first; i <= seedIdx; i++ {
		sum += values[i]
	}
	ema := sum / float64(period)
	out[seedIdx] = ema
	alpha := 2.0 / float64(period+1)
	for i := seedIdx + 1; i < len(values); i++ {
		ema = values[i]*alpha + ema*(1-alpha)
		out[i] = ema
	}
	return out
}
