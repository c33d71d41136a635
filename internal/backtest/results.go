package backtest

import (
	"encoding/json"
	"math"

	"github.com/ducminhle1904/cartridge-backtest/pkg/types"
)

// Result is the full output of one backtest run: trades in candle-time
// order, every indicator series aligned to the candle timeline, and the
// aggregate summary.
type Result struct {
	Trades          []types.Trade        `json:"trades"`
	Timestamps      []int64              `json:"timestamps"`
	IndicatorSeries map[string][]float64 `json:"indicator_series"`
	Summary         Summary              `json:"summary"`
}

// Summary aggregates the run's trades. ProfitFactor is +Inf when there
// are winning trades and no losers, and 0 when there are no trades.
type Summary struct {
	TotalTrades  int     `json:"total_trades"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      float64 `json:"win_rate"`
	TotalPips    float64 `json:"total_pips"`
	AverageWin   float64 `json:"average_win"`
	AverageLoss  float64 `json:"average_loss"`
	ProfitFactor float64 `json:"profit_factor"`
}

// MarshalJSON renders an infinite profit factor as the string "inf" so
// the summary stays serializable.
func (s Summary) MarshalJSON() ([]byte, error) {
	type alias Summary
	out := struct {
		alias
		ProfitFactor interface{} `json:"profit_factor"`
	}{alias: alias(s)}
	if math.IsInf(s.ProfitFactor, 1) {
		out.ProfitFactor = "inf"
	} else {
		out.ProfitFactor = s.ProfitFactor
	}
	return json.Marshal(out)
}

// Assemble packages trades and indicator series into a Result.
func Assemble(trades []types.Trade, timestamps []int64, series map[string][]float64) *Result {
	if trades == nil {
		trades = []types.Trade{}
	}
	return &Result{
		Trades:          trades,
		Timestamps:      timestamps,
		IndicatorSeries: series,
		Summary:         Summarize(trades),
	}
}

// Summarize computes the aggregate statistics for a trade list.
func Summarize(trades []types.Trade) Summary {
	s := Summary{TotalTrades: len(trades)}
	if len(trades) == 0 {
		return s
	}

	winPips := 0.0
	lossPips := 0.0
	for _, t := range trades {
		s.TotalPips += t.Pips
		switch {
		case t.Pips > 0:
			s.Wins++
			winPips += t.Pips
		case t.Pips < 0:
			s.Losses++
			lossPips += t.Pips
		}
	}

	s.WinRate = float64(s.Wins) / float64(s.TotalTrades)
	if s.Wins > 0 {
		s.AverageWin = winPips / float64(s.Wins)
	}
	if s.Losses > 0 {
		s.AverageLoss = lossPips / float64(s.Losses)
	}
	switch {
	case s.Losses > 0:
		s.ProfitFactor = winPips / math.Abs(lossPips)
	case s.Wins > 0:
		s.ProfitFactor = math.Inf(1)
	}
	return s
}
