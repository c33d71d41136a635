package strategy

import (
	"math"
	"strings"

	"github.com/ducminhle1904/cartridge-backtest/internal/dsl"
	"github.com/ducminhle1904/cartridge-backtest/pkg/types"
)

// Interpreter drives a validated cartridge over a candle stream. It owns
// the indicator manager and the crossover detector for one run; nothing
// is shared between runs.
type Interpreter struct {
	cartridge *dsl.Cartridge
	manager   *MultiIndicatorManager
	detector  *CrossoverDetector
	evaluator *Evaluator

	buy  *compiledCondition
	sell *compiledCondition

	aliases []string
	candles []types.Candle

	hasTiming     bool
	refMinutes    int
	signalMinutes int
	refField      string
}

// NewInterpreter builds an interpreter from a validated cartridge,
// registering declared (or implicit) indicator instances.
func NewInterpreter(cartridge *dsl.Cartridge) (*Interpreter, error) {
	s := &Interpreter{
		cartridge: cartridge,
		manager:   NewMultiIndicatorManager(),
		detector:  NewCrossoverDetector(),
	}
	s.evaluator = NewEvaluator(s.manager, s.detector)

	if cartridge.Timing != nil {
		refMinutes, err := dsl.ParseTimeOfDay(cartridge.Timing.ReferenceTime)
		if err != nil {
			return nil, err
		}
		signalMinutes, err := dsl.ParseTimeOfDay(cartridge.Timing.SignalTime)
		if err != nil {
			return nil, err
		}
		s.hasTiming = true
		s.refMinutes = refMinutes
		s.signalMinutes = signalMinutes
		s.refField = cartridge.Timing.ReferencePrice
	}

	for _, spec := range cartridge.Indicators {
		params := spec.EffectiveParams()
		// session-anchored indicators reset at the declared session
		// boundary rather than UTC midnight
		if s.hasTiming && strings.EqualFold(spec.Type, "VWAP") {
			params.SessionStartMinutes = s.refMinutes
		}
		if err := s.manager.Register(spec.Type, spec.ResolvedAlias(), params); err != nil {
			return nil, err
		}
	}

	if cartridge.Conditions.Buy != nil {
		compiled, err := compileCondition(cartridge.Conditions.Buy, types.DirectionBuy)
		if err != nil {
			return nil, err
		}
		s.buy = compiled
	}
	if cartridge.Conditions.Sell != nil {
		compiled, err := compileCondition(cartridge.Conditions.Sell, types.DirectionSell)
		if err != nil {
			return nil, err
		}
		s.sell = compiled
	}

	return s, nil
}

// Prepare computes every indicator series for the run's candle slice and
// installs the implicit CLOSE / REF_PRICE aliases.
func (s *Interpreter) Prepare(candles []types.Candle) error {
	s.candles = candles

	closeSeries := make([]float64, len(candles))
	for i, c := range candles {
		closeSeries[i] = c.Close
	}
	if err := s.manager.SetSeries(dsl.AliasClose, closeSeries); err != nil {
		return err
	}
	if s.hasTiming {
		if err := s.manager.SetSeries(dsl.AliasRefPrice, s.referenceSeries(candles)); err != nil {
			return err
		}
	}

	s.manager.ComputeAll(candles)
	s.aliases = s.manager.Aliases()
	return nil
}

// referenceSeries captures the chosen price component of the first bar
// at or after reference_time each UTC day, holding it for the rest of
// that day.
func (s *Interpreter) referenceSeries(candles []types.Candle) []float64 {
	out := make([]float64, len(candles))
	ref := math.NaN()
	lastDay := -1
	lastYear := -1
	for i, c := range candles {
		ts := c.Timestamp.UTC()
		if ts.Year() != lastYear || ts.YearDay() != lastDay {
			ref = math.NaN()
			lastYear = ts.Year()
			lastDay = ts.YearDay()
		}
		if math.IsNaN(ref) && minutesOfDay(c) >= s.refMinutes {
			switch s.refField {
			case "open":
				ref = c.Open
			case "high":
				ref = c.High
			case "low":
				ref = c.Low
			default:
				ref = c.Close
			}
		}
		out[i] = ref
	}
	return out
}

// OnBar evaluates the bar's conditions and advances crossover state.
// Evaluation is skipped while a position is open or the bar is outside
// the signal window, but state always advances exactly once per bar.
func (s *Interpreter) OnBar(i int, hasOpen bool) *types.Signal {
	var signal *types.Signal

	if !hasOpen && s.SignalEligible(i) {
		// sell takes precedence; at most one signal per bar
		if s.sell != nil && s.evaluator.Evaluate(s.sell, i) {
			signal = s.newSignal(s.sell, i)
		} else if s.buy != nil && s.evaluator.Evaluate(s.buy, i) {
			signal = s.newSignal(s.buy, i)
		}
	}

	s.advanceState(i)
	return signal
}

// advanceState records each alias's current value as the previous value
// for the next bar. Undefined values reset the alias so a crossing is
// never detected across a warm-up gap.
func (s *Interpreter) advanceState(i int) {
	for _, alias := range s.aliases {
		if v, ok := s.manager.Value(alias, i); ok {
			s.detector.Update(alias, v)
		} else {
			s.detector.Reset(alias)
		}
	}
}

func (s *Interpreter) newSignal(cond *compiledCondition, i int) *types.Signal {
	return &types.Signal{
		Direction: cond.direction,
		Price:     s.candles[i].Close,
		Timestamp: s.candles[i].Timestamp,
		Reason:    cond.reason,
	}
}

// SignalEligible reports whether bar i may produce new signals. Bars
// outside a declared session window may still close open trades.
func (s *Interpreter) SignalEligible(i int) bool {
	if !s.hasTiming {
		return true
	}
	return minutesOfDay(s.candles[i]) >= s.signalMinutes
}

// HasSession reports whether the cartridge declares a session window.
func (s *Interpreter) HasSession() bool {
	return s.hasTiming
}

// Series returns every computed series keyed by alias, aligned to the
// candle timeline.
func (s *Interpreter) Series() map[string][]float64 {
	return s.manager.Series()
}

// Name returns the cartridge name.
func (s *Interpreter) Name() string {
	return s.cartridge.Name
}

// Risk returns the cartridge's risk parameters.
func (s *Interpreter) Risk() dsl.Risk {
	return s.cartridge.Risk
}

func minutesOfDay(c types.Candle) int {
	ts := c.Timestamp.UTC()
	return ts.Hour()*60 + ts.Minute()
}
