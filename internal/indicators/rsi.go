package indicators

import (
	"math"

	"github.com/ducminhle1904/cartridge-backtest/pkg/types"
)

// RSI implements Wilder's Relative Strength Index. The first value is
// defined at index period (one bar of history per averaged change), and
// subsequent bars use Wilder's smoothing with alpha = 1/period.
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator
func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

// Type returns the indicator type name
func (r *RSI) Type() string {
	return "RSI"
}

// Components returns the component suffixes
func (r *RSI) Components() []string {
	return []string{ComponentPrimary}
}

// Compute calculates the RSI series over the candle closes
func (r *RSI) Compute(candles []types.Candle) map[string][]float64 {
	out := emptySeries(len(candles))
	if len(candles) < r.period+1 {
		return map[string][]float64{ComponentPrimary: out}
	}

	gains := 0.0
	losses := 0.0
	for i := 1; i <= r.period; i++ {
		change := candles[i].Close - candles[i-1].Close
		if change > 0 {
			gains += change
		} else {
			losses += math.Abs(change)
		}
	}
	avgGain := gains / float64(r.period)
	avgLoss := losses / float64(r.period)
	out[r.period] = rsiValue(avgGain, avgLoss)

	alpha := 1.0 / float64(r.period)
	for i := r.period + 1; i < len(candles); i++ {
		change := candles[i].Close - candles[i-1].Close
		gain := 0.0
		loss := 0.0
		if change > 0 {
			gain = change
		} else {
			loss = math.Abs(change)
		}
		avgGain = avgGain*(1-alpha) + gain*alpha
		avgLoss = avgLoss*(1-alpha) + loss*alpha
		out[i] = rsiValue(avgGain, avgLoss)
	}

	return map[string][]float64{ComponentPrimary: out}
}

// Period returns the configured look-back
func (r *RSI) Period() int {
	return r.period
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}
