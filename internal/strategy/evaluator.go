package strategy

import (
	"fmt"

	"github.com/ducminhle1904/cartridge-backtest/internal/dsl"
	"github.com/ducminhle1904/cartridge-backtest/pkg/types"
)

// compiledCondition is a cartridge condition lowered into the form the
// evaluator consumes every bar: the comparison pre-parsed, the rotation
// pieces unpacked, and a ready-made reason string for emitted signals.
type compiledCondition struct {
	kind       dsl.ConditionKind
	direction  types.Direction
	reason     string
	compare    *dsl.Comparison
	crossover  bool
	zone       *dsl.Zone
	trigger    *dsl.Trigger
	zoneWindow int
}

func compileCondition(cond *dsl.Condition, direction types.Direction) (*compiledCondition, error) {
	out := &compiledCondition{
		kind:      cond.Kind(),
		direction: direction,
	}

	switch out.kind {
	case dsl.KindComparison:
		cmp, err := dsl.ParseComparison(cond.Compare)
		if err != nil {
			return nil, err
		}
		out.compare = cmp
		out.crossover = cond.Crossover
		if cond.Crossover {
			out.reason = fmt.Sprintf("%s: %s crossed true", direction, cond.Compare)
		} else {
			out.reason = fmt.Sprintf("%s: %s", direction, cond.Compare)
		}

	case dsl.KindRotation:
		out.zone = cond.Zone
		out.trigger = cond.Trigger
		out.zoneWindow = cond.EffectiveZoneWindow()
		if cond.Trigger.CrossesAbove != nil {
			out.reason = fmt.Sprintf("%s rotation: %s crossed above %g", direction, cond.Trigger.Indicator, *cond.Trigger.CrossesAbove)
		} else {
			out.reason = fmt.Sprintf("%s rotation: %s crossed below %g", direction, cond.Trigger.Indicator, *cond.Trigger.CrossesBelow)
		}
	}

	return out, nil
}

// Evaluator resolves conditions against the manager's series and the
// crossover detector's previous-bar state.
type Evaluator struct {
	manager  *MultiIndicatorManager
	detector *CrossoverDetector
}

// NewEvaluator creates an evaluator over the given manager and detector
func NewEvaluator(manager *MultiIndicatorManager, detector *CrossoverDetector) *Evaluator {
	return &Evaluator{manager: manager, detector: detector}
}

// Evaluate reports whether the condition holds on bar i. Missing values
// anywhere make the answer false, never an error.
func (e *Evaluator) Evaluate(cond *compiledCondition, i int) bool {
	switch cond.kind {
	case dsl.KindComparison:
		return e.evalComparison(cond, i)
	case dsl.KindRotation:
		return e.evalRotation(cond, i)
	}
	return false
}

func (e *Evaluator) evalComparison(cond *compiledCondition, i int) bool {
	current := func(alias string) (float64, bool) {
		return e.manager.Value(alias, i)
	}
	if !cond.compare.Holds(current) {
		return false
	}
	if !cond.crossover {
		return true
	}

	// crossover: the predicate must have been false on the previous
	// bar. A missing previous value makes the previous predicate false,
	// so the transition may fire on the first bar both sides are defined.
	return !cond.compare.Holds(e.detector.Previous)
}

func (e *Evaluator) evalRotation(cond *compiledCondition, i int) bool {
	if i == 0 {
		return false
	}

	zoneHeld := false
	for j := i - 1; j >= i-cond.zoneWindow && j >= 0; j-- {
		if e.zoneHolds(cond.zone, j) {
			zoneHeld = true
			break
		}
	}
	if !zoneHeld {
		return false
	}

	current, ok := e.manager.Value(cond.trigger.Indicator, i)
	if !ok {
		return false
	}
	if cond.trigger.CrossesAbove != nil {
		return e.detector.CrossAbove(cond.trigger.Indicator, current, *cond.trigger.CrossesAbove)
	}
	return e.detector.CrossBelow(cond.trigger.Indicator, current, *cond.trigger.CrossesBelow)
}

// zoneHolds checks the zone on bar j, short-circuiting on the first
// alias that is outside the zone or undefined.
func (e *Evaluator) zoneHolds(zone *dsl.Zone, j int) bool {
	for _, alias := range zone.Indicators {
		v, ok := e.manager.Value(alias, j)
		if !ok {
			return false
		}
		if zone.AllAbove != nil && v <= *zone.AllAbove {
			return false
		}
		if zone.AllBelow != nil && v >= *zone.AllBelow {
			return false
		}
	}
	return true
}
