package indicators

import (
	"github.com/ducminhle1904/cartridge-backtest/pkg/types"
)

// SMA represents the Simple Moving Average technical indicator
type SMA struct {
	period int
}

// NewSMA creates a new SMA indicator
func NewSMA(period int) *SMA {
	return &SMA{period: period}
}

// Type returns the indicator type name
func (s *SMA) Type() string {
	return "SMA"
}

// Components returns the component suffixes
func (s *SMA) Components() []string {
	return []string{ComponentPrimary}
}

// Compute calculates the SMA series over the candle closes
func (s *SMA) Compute(candles []types.Candle) map[string][]float64 {
	return map[string][]float64{
		ComponentPrimary: smaOver(closes(candles), s.period),
	}
}

// Period returns the configured look-back
func (s *SMA) Period() int {
	return s.period
}
