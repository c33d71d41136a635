package indicators

import (
	"github.com/ducminhle1904/cartridge-backtest/pkg/types"
)

// EMA represents the Exponential Moving Average technical indicator.
// The first value is seeded with the SMA of the first period closes,
// after which the standard recurrence applies with alpha = 2/(period+1).
type EMA struct {
	period int
}

// NewEMA creates a new EMA indicator
func NewEMA(period int) *EMA {
	return &EMA{period: period}
}

// Type returns the indicator type name
func (e *EMA) Type() string {
	return "EMA"
}

// Components returns the component suffixes
func (e *EMA) Components() []string {
	return []string{ComponentPrimary}
}

// Compute calculates the EMA series over the candle closes
func (e *EMA) Compute(candles []types.Candle) map[string][]float64 {
	return map[string][]float64{
		ComponentPrimary: emaOver(closes(candles), e.period),
	}
}

// Period returns the configured look-back
func (e *EMA) Period() int {
	return e.period
}
