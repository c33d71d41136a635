package strategy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/cartridge-backtest/internal/dsl"
	"github.com/ducminhle1904/cartridge-backtest/pkg/types"
)

// syntheticEvaluator installs precomputed series in a manager and walks
// the detector bar by bar, calling check at each bar before advancing.
func syntheticEvaluator(t *testing.T, series map[string][]float64, check func(e *Evaluator, bar int)) {
	t.Helper()

	manager := NewMultiIndicatorManager()
	n := 0
	for alias, values := range series {
		require.NoError(t, manager.SetSeries(alias, values))
		n = len(values)
	}
	detector := NewCrossoverDetector()
	evaluator := NewEvaluator(manager, detector)

	for bar := 0; bar < n; bar++ {
		check(evaluator, bar)
		for alias := range series {
			if v, ok := manager.Value(alias, bar); ok {
				detector.Update(alias, v)
			} else {
				detector.Reset(alias)
			}
		}
	}
}

func mustCompile(t *testing.T, cond *dsl.Condition) *compiledCondition {
	t.Helper()
	compiled, err := compileCondition(cond, types.DirectionBuy)
	require.NoError(t, err)
	return compiled
}

func TestEvaluator_Comparison(t *testing.T) {
	cond := mustCompile(t, &dsl.Condition{Compare: "fast > slow"})
	results := make([]bool, 0, 4)

	syntheticEvaluator(t, map[string][]float64{
		"fast": {1, 3, 2, 5},
		"slow": {2, 2, 4, 4},
	}, func(e *Evaluator, bar int) {
		results = append(results, e.Evaluate(cond, bar))
	})

	assert.Equal(t, []bool{false, true, false, true}, results)
}

func TestEvaluator_Comparison_MissingValueIsFalse(t *testing.T) {
	cond := mustCompile(t, &dsl.Condition{Compare: "fast > 0"})
	results := make([]bool, 0, 3)

	syntheticEvaluator(t, map[string][]float64{
		"fast": {math.NaN(), 1, 2},
	}, func(e *Evaluator, bar int) {
		results = append(results, e.Evaluate(cond, bar))
	})

	assert.Equal(t, []bool{false, true, true}, results)
}

func TestEvaluator_CrossoverComparison_FiresOnTransitionOnly(t *testing.T) {
	cond := mustCompile(t, &dsl.Condition{Compare: "fast > slow", Crossover: true})
	results := make([]bool, 0, 5)

	syntheticEvaluator(t, map[string][]float64{
		"fast": {1, 1, 3, 3, 1},
		"slow": {2, 2, 2, 2, 2},
	}, func(e *Evaluator, bar int) {
		results = append(results, e.Evaluate(cond, bar))
	})

	// predicate goes false,false,true,true,false: only bar 2 is a transition
	assert.Equal(t, []bool{false, false, true, false, false}, results)
}

func TestEvaluator_CrossoverComparison_WarmUpBoundary(t *testing.T) {
	cond := mustCompile(t, &dsl.Condition{Compare: "fast > slow", Crossover: true})
	results := make([]bool, 0, 4)

	// slow is undefined until bar 2; the predicate was false (missing)
	// before, so it may fire at the first bar both sides are defined
	syntheticEvaluator(t, map[string][]float64{
		"fast": {1, 3, 3, 3},
		"slow": {math.NaN(), math.NaN(), 2, 2},
	}, func(e *Evaluator, bar int) {
		results = append(results, e.Evaluate(cond, bar))
	})

	assert.Equal(t, []bool{false, false, true, false}, results)
}

func TestEvaluator_Zone_AllBelow(t *testing.T) {
	below := 20.0
	cond := mustCompile(t, &dsl.Condition{
		Type:    "rotation",
		Zone:    &dsl.Zone{AllBelow: &below, Indicators: []string{"a", "b"}},
		Trigger: &dsl.Trigger{Indicator: "a", CrossesAbove: &below},
	})

	// direct zone checks through the evaluator internals
	manager := NewMultiIndicatorManager()
	require.NoError(t, manager.SetSeries("a", []float64{10, 15, 25}))
	require.NoError(t, manager.SetSeries("b", []float64{12, 22, 12}))
	e := NewEvaluator(manager, NewCrossoverDetector())

	assert.True(t, e.zoneHolds(cond.zone, 0))
	assert.False(t, e.zoneHolds(cond.zone, 1), "b is outside the zone")
	assert.False(t, e.zoneHolds(cond.zone, 2), "a is outside the zone")
}

func TestEvaluator_Zone_AllAbove(t *testing.T) {
	above := 80.0
	zone := &dsl.Zone{AllAbove: &above, Indicators: []string{"a", "b"}}

	manager := NewMultiIndicatorManager()
	require.NoError(t, manager.SetSeries("a", []float64{85, 85, 80}))
	require.NoError(t, manager.SetSeries("b", []float64{90, 79, 90}))
	e := NewEvaluator(manager, NewCrossoverDetector())

	assert.True(t, e.zoneHolds(zone, 0))
	assert.False(t, e.zoneHolds(zone, 1))
	// exactly at the bound is not above
	assert.False(t, e.zoneHolds(zone, 2))
}

func TestEvaluator_Zone_UndefinedValueIsFalse(t *testing.T) {
	below := 20.0
	zone := &dsl.Zone{AllBelow: &below, Indicators: []string{"a", "b"}}

	manager := NewMultiIndicatorManager()
	require.NoError(t, manager.SetSeries("a", []float64{10}))
	require.NoError(t, manager.SetSeries("b", []float64{math.NaN()}))
	e := NewEvaluator(manager, NewCrossoverDetector())

	assert.False(t, e.zoneHolds(zone, 0))
}

func TestEvaluator_Rotation_ZonePreviousBarAndTriggerCross(t *testing.T) {
	below := 20.0
	cond := mustCompile(t, &dsl.Condition{
		Type:    "rotation",
		Zone:    &dsl.Zone{AllBelow: &below, Indicators: []string{"fast", "slow"}},
		Trigger: &dsl.Trigger{Indicator: "fast", CrossesAbove: &below},
	})
	results := make([]bool, 0, 4)

	// bar 1: zone holds (both < 20); bar 2: fast crosses above 20 while
	// slow is still extreme -> rotation fires at bar 2 only
	syntheticEvaluator(t, map[string][]float64{
		"fast": {15, 12, 35, 40},
		"slow": {18, 15, 16, 30},
	}, func(e *Evaluator, bar int) {
		results = append(results, e.Evaluate(cond, bar))
	})

	assert.Equal(t, []bool{false, false, true, false}, results)
}

func TestEvaluator_Rotation_ZoneMustHoldOnPreviousBar(t *testing.T) {
	below := 20.0
	cond := mustCompile(t, &dsl.Condition{
		Type:    "rotation",
		Zone:    &dsl.Zone{AllBelow: &below, Indicators: []string{"fast", "slow"}},
		Trigger: &dsl.Trigger{Indicator: "fast", CrossesAbove: &below},
	})
	results := make([]bool, 0, 3)

	// slow never enters the zone: the trigger crossing alone is not enough
	syntheticEvaluator(t, map[string][]float64{
		"fast": {15, 12, 35},
		"slow": {50, 50, 50},
	}, func(e *Evaluator, bar int) {
		results = append(results, e.Evaluate(cond, bar))
	})

	assert.Equal(t, []bool{false, false, false}, results)
}

func TestEvaluator_Rotation_ZoneWindow(t *testing.T) {
	below := 20.0
	makeCond := func(window int) *compiledCondition {
		return mustCompile(t, &dsl.Condition{
			Type:       "rotation",
			Zone:       &dsl.Zone{AllBelow: &below, Indicators: []string{"fast", "slow"}},
			Trigger:    &dsl.Trigger{Indicator: "fast", CrossesAbove: &below},
			ZoneWindow: window,
		})
	}

	// zone holds at bar 0 only; slow leaves the zone at bar 1 and fast
	// crosses above 20 between bars 2 and 3
	series := map[string][]float64{
		"fast": {12, 19, 18, 30},
		"slow": {15, 30, 30, 30},
	}

	strict := make([]bool, 0, 4)
	syntheticEvaluator(t, series, func(e *Evaluator, bar int) {
		strict = append(strict, e.Evaluate(makeCond(1), bar))
	})
	assert.Equal(t, []bool{false, false, false, false}, strict, "window 1 requires the zone on the bar before the trigger")

	relaxed := make([]bool, 0, 4)
	syntheticEvaluator(t, series, func(e *Evaluator, bar int) {
		relaxed = append(relaxed, e.Evaluate(makeCond(3), bar))
	})
	assert.Equal(t, []bool{false, false, false, true}, relaxed, "window 3 reaches back to the extreme at bar 0")
}

func TestCompileCondition_Reasons(t *testing.T) {
	buy, err := compileCondition(&dsl.Condition{Compare: "fast > slow"}, types.DirectionBuy)
	require.NoError(t, err)
	assert.Contains(t, buy.reason, "fast > slow")

	above := 20.0
	rot, err := compileCondition(&dsl.Condition{
		Type:    "rotation",
		Zone:    &dsl.Zone{AllBelow: &above, Indicators: []string{"fast"}},
		Trigger: &dsl.Trigger{Indicator: "fast", CrossesAbove: &above},
	}, types.DirectionBuy)
	require.NoError(t, err)
	assert.Contains(t, rot.reason, "crossed above 20")
}
