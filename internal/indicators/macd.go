package indicators

import (
	"github.com/ducminhle1904/cartridge-backtest/pkg/types"
)

// MACD produces three aligned series: the MACD line (fast EMA minus
// slow EMA), its signal line (EMA of the MACD line), and the histogram
// (line minus signal).
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewMACD creates a new MACD indicator
func NewMACD(fastPeriod, slowPeriod, signalPeriod int) *MACD {
	return &MACD{
		fastPeriod:   fastPeriod,
		slowPeriod:   slowPeriod,
		signalPeriod: signalPeriod,
	}
}

// Type returns the indicator type name
func (m *MACD) Type() string {
	return "MACD"
}

// Components returns the component suffixes
func (m *MACD) Components() []string {
	return []string{ComponentPrimary, ComponentSignal, ComponentHistogram}
}

// Compute calculates the MACD line, signal line and histogram series
func (m *MACD) Compute(candles []types.Candle) map[string][]float64 {
	prices := closes(candles)
	fast := emaOver(prices, m.fastPeriod)
	slow := emaOver(prices, m.slowPeriod)

	line := emptySeries(len(candles))
	for i := range line {
		if Defined(fast[i]) && Defined(slow[i]) {
			line[i] = fast[i] - slow[i]
		}
	}

	signal := emaOver(line, m.signalPeriod)

	histogram := emptySeries(len(candles))
	for i := range histogram {
		if Defined(line[i]) && Defined(signal[i]) {
			histogram[i] = line[i] - signal[i]
		}
	}

	return map[string][]float64{
		ComponentPrimary:   line,
		ComponentSignal:    signal,
		ComponentHistogram: histogram,
	}
}
