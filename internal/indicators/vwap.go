package indicators

import (
	"math"
	"time"

	"github.com/ducminhle1904/cartridge-backtest/pkg/types"
)

// VWAP accumulates sum(mid*volume)/sum(volume) with mid = (high+low)/2,
// resetting at every trading-session boundary. The boundary defaults to
// the UTC calendar day; a cartridge with a declared session window
// anchors it to the session's reference time instead. Bars with zero
// cumulative volume stay undefined.
type VWAP struct {
	sessionStart time.Duration
}

// NewVWAP creates a new VWAP indicator whose session starts
// sessionStartMinutes after UTC midnight (0 = plain UTC day).
func NewVWAP(sessionStartMinutes int) *VWAP {
	return &VWAP{sessionStart: time.Duration(sessionStartMinutes) * time.Minute}
}

// Type returns the indicator type name
func (v *VWAP) Type() string {
	return "VWAP"
}

// Components returns the component suffixes
func (v *VWAP) Components() []string {
	return []string{ComponentPrimary}
}

// Compute calculates the session-anchored VWAP series
func (v *VWAP) Compute(candles []types.Candle) map[string][]float64 {
	out := emptySeries(len(candles))
	sumPV := 0.0
	sumV := 0.0
	var sessionY int
	var sessionD int

	for i, c := range candles {
		// shifting by the session start maps each session onto one
		// calendar day, so a day change is a session boundary
		ts := c.Timestamp.UTC().Add(-v.sessionStart)
		y := ts.Year()
		yday := ts.YearDay()
		if i == 0 || y != sessionY || yday != sessionD {
			sumPV = 0
			sumV = 0
			sessionY = y
			sessionD = yday
		}
		mid := (c.High + c.Low) / 2
		sumPV += mid * c.Volume
		sumV += c.Volume
		if sumV > 0 {
			out[i] = sumPV / sumV
		} else {
			out[i] = math.NaN()
		}
	}

	return map[string][]float64{ComponentPrimary: out}
}
