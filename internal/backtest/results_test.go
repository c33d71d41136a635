package backtest

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/cartridge-backtest/pkg/types"
)

func tradeWithPips(pips float64) types.Trade {
	return types.Trade{
		Direction:  types.DirectionBuy,
		EntryPrice: 1.0,
		ExitPrice:  1.0 + pips*0.0001,
		Pips:       pips,
	}
}

func TestSummarize_NoTrades(t *testing.T) {
	s := Summarize(nil)

	assert.Equal(t, 0, s.TotalTrades)
	assert.Equal(t, 0.0, s.WinRate)
	assert.Equal(t, 0.0, s.ProfitFactor)
}

func TestSummarize_MixedTrades(t *testing.T) {
	trades := []types.Trade{
		tradeWithPips(10),
		tradeWithPips(20),
		tradeWithPips(-5),
		tradeWithPips(-10),
	}

	s := Summarize(trades)

	assert.Equal(t, 4, s.TotalTrades)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 2, s.Losses)
	assert.InDelta(t, 0.5, s.WinRate, 1e-9)
	assert.InDelta(t, 15.0, s.TotalPips, 1e-9)
	assert.InDelta(t, 15.0, s.AverageWin, 1e-9)
	assert.InDelta(t, -7.5, s.AverageLoss, 1e-9)
	assert.InDelta(t, 2.0, s.ProfitFactor, 1e-9)
}

func TestSummarize_NoLossesIsInfiniteProfitFactor(t *testing.T) {
	s := Summarize([]types.Trade{tradeWithPips(10), tradeWithPips(5)})

	assert.True(t, math.IsInf(s.ProfitFactor, 1))
	assert.Equal(t, 1.0, s.WinRate)
}

func TestSummarize_BreakevenTradeCountsNeither(t *testing.T) {
	s := Summarize([]types.Trade{tradeWithPips(10), tradeWithPips(0)})

	assert.Equal(t, 2, s.TotalTrades)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 0, s.Losses)
}

func TestSummarize_TotalPipsExact(t *testing.T) {
	trades := []types.Trade{
		tradeWithPips(1.25),
		tradeWithPips(-0.75),
		tradeWithPips(3.5),
	}

	s := Summarize(trades)

	sum := 0.0
	for _, trade := range trades {
		sum += trade.Pips
	}
	assert.Equal(t, sum, s.TotalPips)
}

func TestPipsFor_Conversions(t *testing.T) {
	assert.InDelta(t, 10.0, types.PipsFor(types.DirectionBuy, 1.0, 1.0010, 0.0001), 1e-9)
	assert.InDelta(t, -5.0, types.PipsFor(types.DirectionBuy, 1.0, 0.9995, 0.0001), 1e-9)
	assert.InDelta(t, 10.0, types.PipsFor(types.DirectionSell, 1.0, 0.9990, 0.0001), 1e-9)
	assert.InDelta(t, 25.0, types.PipsFor(types.DirectionBuy, 39000, 39025, 1.0), 1e-9)
}

func TestSummary_MarshalJSON_Infinity(t *testing.T) {
	s := Summarize([]types.Trade{tradeWithPips(10)})

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"profit_factor":"inf"`)
}

func TestAssemble_EmptyTradesNotNil(t *testing.T) {
	result := Assemble(nil, nil, nil)

	assert.NotNil(t, result.Trades)
	assert.Equal(t, 0, result.Summary.TotalTrades)
}

func TestValidateTimeline(t *testing.T) {
	assert.NoError(t, ValidateTimeline(candlesFromCloses(1, 2, 3)))
	assert.NoError(t, ValidateTimeline(nil))

	bad := candlesFromCloses(1, 2, 3)
	bad[2].Timestamp = bad[1].Timestamp
	assert.Error(t, ValidateTimeline(bad))
}
