package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/cartridge-backtest/pkg/types"
)

func TestStochastic_Components(t *testing.T) {
	stoch := NewStochastic(14, 3, 3)
	assert.Equal(t, []string{ComponentPrimary, ComponentD}, stoch.Components())
}

func TestStochastic_Compute_Bounds(t *testing.T) {
	stoch := NewStochastic(9, 3, 3)
	series := stoch.Compute(generateTestData(300))

	for _, component := range []string{ComponentPrimary, ComponentD} {
		for i, v := range series[component] {
			if !Defined(v) {
				continue
			}
			assert.GreaterOrEqual(t, v, 0.0, "%s at %d", component, i)
			assert.LessOrEqual(t, v, 100.0, "%s at %d", component, i)
		}
	}
}

func TestStochastic_Compute_FlatRangeIsNeutral(t *testing.T) {
	stoch := NewStochastic(5, 1, 1)
	series := stoch.Compute(generateFlatData(20))

	for i := 4; i < 20; i++ {
		require.True(t, Defined(series[ComponentPrimary][i]))
		assert.Equal(t, 50.0, series[ComponentPrimary][i])
		assert.Equal(t, 50.0, series[ComponentD][i])
	}
}

func TestStochastic_Compute_RawK(t *testing.T) {
	// close at the 2-bar high gives %K = 100, at the low gives 0
	candles := []types.Candle{
		{Timestamp: testStart, Open: 10, High: 11, Low: 9, Close: 10, Volume: 1},
		{Timestamp: testStart.Add(time.Minute), Open: 10, High: 12, Low: 10, Close: 12, Volume: 1},
		{Timestamp: testStart.Add(2 * time.Minute), Open: 12, High: 12, Low: 10, Close: 10, Volume: 1},
	}

	stoch := NewStochastic(2, 1, 1)
	series := stoch.Compute(candles)[ComponentPrimary]

	assert.False(t, Defined(series[0]))
	// bar 1: range 9..12, close 12
	assert.InDelta(t, 100.0, series[1], 1e-9)
	// bar 2: range 10..12, close 10
	assert.InDelta(t, 0.0, series[2], 1e-9)
}

func TestStochastic_Compute_Smoothing(t *testing.T) {
	stoch := NewStochastic(2, 2, 2)
	series := stoch.Compute(generateTestData(50))

	rawLike := NewStochastic(2, 1, 1).Compute(generateTestData(50))[ComponentPrimary]

	// smoothed %K is the 2-bar average of raw %K
	for i := 2; i < 50; i++ {
		expected := (rawLike[i] + rawLike[i-1]) / 2
		assert.InDelta(t, expected, series[ComponentPrimary][i], 1e-9, "index %d", i)
	}
}

func TestStochastic_InterfaceCompliance(t *testing.T) {
	var _ Indicator = NewStochastic(14, 3, 3)
}

func BenchmarkStochastic_Compute(b *testing.B) {
	stoch := NewStochastic(14, 3, 3)
	data := generateTestData(10000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		stoch.Compute(data)
	}
}
