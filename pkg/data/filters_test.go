package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/cartridge-backtest/pkg/types"
)

func testCandles(n int) []types.Candle {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	candles := make([]types.Candle, n)
	for i := 0; i < n; i++ {
		price := 100.0 + float64(i)
		candles[i] = types.Candle{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      price,
			High:      price + 1,
			Low:       price - 1,
			Close:     price,
			Volume:    10,
		}
	}
	return candles
}

func TestParseTrailingPeriod(t *testing.T) {
	d, ok := ParseTrailingPeriod("7d")
	require.True(t, ok)
	assert.Equal(t, 7*24*time.Hour, d)

	d, ok = ParseTrailingPeriod(" 30D ")
	require.True(t, ok)
	assert.Equal(t, 30*24*time.Hour, d)

	for _, invalid := range []string{"", "7", "d", "-3d", "7h", "abc"} {
		_, ok := ParseTrailingPeriod(invalid)
		assert.False(t, ok, invalid)
	}
}

func TestFilterByPeriod(t *testing.T) {
	candles := testCandles(48)

	filtered := FilterByPeriod(candles, 12*time.Hour)

	require.NotEmpty(t, filtered)
	last := candles[len(candles)-1].Timestamp
	for _, c := range filtered {
		assert.True(t, !c.Timestamp.Before(last.Add(-12*time.Hour)))
	}
	assert.Equal(t, last, filtered[len(filtered)-1].Timestamp)
}

func TestFilterByDateRange(t *testing.T) {
	candles := testCandles(24)
	start := candles[6].Timestamp
	end := candles[12].Timestamp

	filtered := FilterByDateRange(candles, start, end)

	require.Len(t, filtered, 6)
	assert.Equal(t, start, filtered[0].Timestamp)
	assert.True(t, filtered[len(filtered)-1].Timestamp.Before(end))
}

func TestCSVProvider_ValidateData(t *testing.T) {
	provider := NewCSVProvider()

	assert.NoError(t, provider.ValidateData(testCandles(10)))

	broken := testCandles(10)
	broken[4].Timestamp = broken[3].Timestamp
	assert.Error(t, provider.ValidateData(broken))

	inconsistent := testCandles(10)
	inconsistent[2].Low = inconsistent[2].High + 1
	assert.Error(t, provider.ValidateData(inconsistent))
}
