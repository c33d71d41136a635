package indicators

import (
	"github.com/ducminhle1904/cartridge-backtest/pkg/types"
)

// Stochastic computes the stochastic oscillator: raw %K over kPeriod,
// smoothed %K (SMA over kSmoothing), and %D (SMA of smoothed %K over
// dSmoothing). The primary component is the smoothed %K; %D carries the
// "D" suffix. All values are clamped to [0,100]; a flat high-low range
// yields the neutral 50.
type Stochastic struct {
	kPeriod    int
	kSmoothing int
	dSmoothing int
}

// NewStochastic creates a new Stochastic oscillator
func NewStochastic(kPeriod, kSmoothing, dSmoothing int) *Stochastic {
	return &Stochastic{
		kPeriod:    kPeriod,
		kSmoothing: kSmoothing,
		dSmoothing: dSmoothing,
	}
}

// Type returns the indicator type name
func (s *Stochastic) Type() string {
	return "STOCHASTIC"
}

// Components returns the component suffixes
func (s *Stochastic) Components() []string {
	return []string{ComponentPrimary, ComponentD}
}

// Compute calculates the smoothed %K and %D series
func (s *Stochastic) Compute(candles []types.Candle) map[string][]float64 {
	rawK := emptySeries(len(candles))
	for i := range candles {
		if i < s.kPeriod-1 {
			continue
		}
		highest := candles[i-s.kPeriod+1].High
		lowest := candles[i-s.kPeriod+1].Low
		for j := i - s.kPeriod + 2; j <= i; j++ {
			if candles[j].High > highest {
				highest = candles[j].High
			}
			if candles[j].Low < lowest {
				lowest = candles[j].Low
			}
		}
		if highest == lowest {
			rawK[i] = 50
			continue
		}
		rawK[i] = clampPercent(100 * (candles[i].Close - lowest) / (highest - lowest))
	}

	smoothK := smaOver(rawK, s.kSmoothing)
	d := smaOver(smoothK, s.dSmoothing)
	for i := range smoothK {
		if Defined(smoothK[i]) {
			smoothK[i] = clampPercent(smoothK[i])
		}
		if Defined(d[i]) {
			d[i] = clampPercent(d[i])
		}
	}

	return map[string][]float64{
		ComponentPrimary: smoothK,
		ComponentD:       d,
	}
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
