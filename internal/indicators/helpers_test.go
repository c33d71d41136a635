package indicators

import (
	"math"
	"time"

	"github.com/ducminhle1904/cartridge-backtest/pkg/types"
)

var testStart = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

// generateTestData produces a deterministic wavy price series
func generateTestData(n int) []types.Candle {
	candles := make([]types.Candle, n)
	for i := 0; i < n; i++ {
		price := 100.0 + 10.0*math.Sin(float64(i)/3.0)
		candles[i] = types.Candle{
			Timestamp: testStart.Add(time.Duration(i) * time.Minute),
			Open:      price - 0.5,
			High:      price + 1.0,
			Low:       price - 1.0,
			Close:     price,
			Volume:    1000 + float64(i),
		}
	}
	return candles
}

// generateFlatData produces candles where every price is 100.0
func generateFlatData(n int) []types.Candle {
	candles := make([]types.Candle, n)
	for i := 0; i < n; i++ {
		candles[i] = types.Candle{
			Timestamp: testStart.Add(time.Duration(i) * time.Minute),
			Open:      100.0,
			High:      100.0,
			Low:       100.0,
			Close:     100.0,
			Volume:    1000,
		}
	}
	return candles
}

// candlesFromCloses builds flat-bodied candles from a close series
func candlesFromCloses(closes ...float64) []types.Candle {
	candles := make([]types.Candle, len(closes))
	for i, c := range closes {
		candles[i] = types.Candle{
			Timestamp: testStart.Add(time.Duration(i) * time.Minute),
			Open:      c,
			High:      c,
			Low:       c,
			Close:     c,
			Volume:    1000,
		}
	}
	return candles
}
