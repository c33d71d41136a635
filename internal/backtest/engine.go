package backtest

import (
	"time"

	"github.com/ducminhle1904/cartridge-backtest/internal/dsl"
	"github.com/ducminhle1904/cartridge-backtest/internal/engineerr"
	"github.com/ducminhle1904/cartridge-backtest/internal/strategy"
	"github.com/ducminhle1904/cartridge-backtest/pkg/types"
)

// Engine drives the bar loop for one run: at most one open trade,
// SL/TP bracket checks before new signals, per-day trade caps, and
// forced closes at session and run boundaries.
type Engine struct {
	interpreter *strategy.Interpreter
	risk        dsl.Risk
	pipSize     float64

	trades []types.Trade
	open   *types.Trade

	dayYear   int
	dayNumber int
	dayTrades int
}

// Run validates the cartridge and candle stream, builds the interpreter,
// and executes the backtest. pipSize is supplied per symbol by the
// caller (0.0001 for typical FX, 1.0 for indices).
func Run(candles []types.Candle, cartridge *dsl.Cartridge, pipSize float64) (*Result, error) {
	if pipSize <= 0 {
		return nil, engineerr.New(engineerr.KindNumericDomain, "pip_size", "must be > 0, got %v", pipSize)
	}
	if errs := dsl.Validate(cartridge); !errs.Empty() {
		return nil, errs
	}
	if err := ValidateTimeline(candles); err != nil {
		return nil, err
	}

	interpreter, err := strategy.NewInterpreter(cartridge)
	if err != nil {
		return nil, err
	}
	if err := interpreter.Prepare(candles); err != nil {
		return nil, err
	}

	engine := &Engine{
		interpreter: interpreter,
		risk:        cartridge.Risk,
		pipSize:     pipSize,
	}
	return engine.run(candles), nil
}

// ValidateTimeline rejects candle streams with duplicate or
// non-monotonic timestamps.
func ValidateTimeline(candles []types.Candle) error {
	for i := 1; i < len(candles); i++ {
		if !candles[i].Timestamp.After(candles[i-1].Timestamp) {
			return engineerr.New(engineerr.KindBadTimeline, "candles",
				"timestamp at index %d (%s) does not advance past index %d (%s)",
				i, candles[i].Timestamp.UTC(), i-1, candles[i-1].Timestamp.UTC())
		}
	}
	return nil
}

func (e *Engine) run(candles []types.Candle) *Result {
	if len(candles) == 0 {
		return Assemble(nil, nil, e.interpreter.Series())
	}

	// bar 0 only seeds crossover state; entries begin at bar 1
	e.interpreter.OnBar(0, true)

	for i := 1; i < len(candles); i++ {
		candle := candles[i]

		// 1. close-before-signal: scan the bar's bracket first
		closedThisBar := false
		exitPrice := 0.0
		if e.open != nil {
			if price, reason, hit := e.checkBracket(candle); hit {
				e.closeTrade(candle.Timestamp.UTC(), price, reason)
				closedThisBar = true
				exitPrice = price
			}
		}

		// 2+3. signal evaluation and open
		hasOpen := e.open != nil
		signal := e.interpreter.OnBar(i, hasOpen)
		if signal != nil && !hasOpen && e.mayOpen(candles, i, closedThisBar, exitPrice, signal) {
			e.openTrade(signal)
		}

		// session boundary: force-close before the next trading day
		if e.open != nil && e.sessionLastBar(candles, i) {
			e.closeTrade(candle.Timestamp.UTC(), candle.Close, types.ExitSessionEnd)
		}
	}

	if e.open != nil {
		last := candles[len(candles)-1]
		e.closeTrade(last.Timestamp.UTC(), last.Close, types.ExitEndOfRun)
	}

	timestamps := make([]int64, len(candles))
	for i, c := range candles {
		timestamps[i] = c.Timestamp.UTC().UnixMilli()
	}
	return Assemble(e.trades, timestamps, e.interpreter.Series())
}

// checkBracket scans a candle for SL/TP touches of the open trade. When
// both levels sit inside the bar the stop wins (pessimistic fill). The
// entry bar itself is never scanned: entries happen at the close, so
// checks begin on the following bar.
func (e *Engine) checkBracket(candle types.Candle) (float64, types.ExitReason, bool) {
	t := e.open
	if t.Direction == types.DirectionBuy {
		slHit := candle.Low <= t.StopLoss
		tpHit := candle.High >= t.TakeProfit
		switch {
		case slHit:
			return t.StopLoss, types.ExitStopLoss, true
		case tpHit:
			return t.TakeProfit, types.ExitTakeProfit, true
		}
		return 0, "", false
	}

	slHit := candle.High >= t.StopLoss
	tpHit := candle.Low <= t.TakeProfit
	switch {
	case slHit:
		return t.StopLoss, types.ExitStopLoss, true
	case tpHit:
		return t.TakeProfit, types.ExitTakeProfit, true
	}
	return 0, "", false
}

// mayOpen applies the entry gates that sit outside the interpreter:
// the daily cap, the same-bar re-entry policy, and the session's last
// bar (which would close the trade at its own entry price).
func (e *Engine) mayOpen(candles []types.Candle, i int, closedThisBar bool, exitPrice float64, signal *types.Signal) bool {
	if closedThisBar {
		if e.risk.MinPipDistance <= 0 {
			return false
		}
		distance := signal.Price - exitPrice
		if distance < 0 {
			distance = -distance
		}
		if distance < e.risk.MinPipDistance*e.pipSize {
			return false
		}
	}

	if e.sessionLastBar(candles, i) {
		return false
	}

	ts := signal.Timestamp.UTC()
	if ts.Year() != e.dayYear || ts.YearDay() != e.dayNumber {
		e.dayYear = ts.Year()
		e.dayNumber = ts.YearDay()
		e.dayTrades = 0
	}
	if e.risk.MaxDailyTrades > 0 && e.dayTrades >= e.risk.MaxDailyTrades {
		return false
	}
	return true
}

func (e *Engine) openTrade(signal *types.Signal) {
	slDistance := e.risk.StopLossPips * e.pipSize
	tpDistance := e.risk.TakeProfitPips * e.pipSize

	trade := &types.Trade{
		EntryTime:  signal.Timestamp.UTC(),
		Direction:  signal.Direction,
		EntryPrice: signal.Price,
	}
	if signal.Direction == types.DirectionBuy {
		trade.StopLoss = signal.Price - slDistance
		trade.TakeProfit = signal.Price + tpDistance
	} else {
		trade.StopLoss = signal.Price + slDistance
		trade.TakeProfit = signal.Price - tpDistance
	}

	e.open = trade
	e.dayTrades++
}

func (e *Engine) closeTrade(exitTime time.Time, exitPrice float64, reason types.ExitReason) {
	t := e.open
	t.ExitTime = exitTime
	t.ExitPrice = exitPrice
	t.ExitReason = reason
	t.Pips = types.PipsFor(t.Direction, t.EntryPrice, exitPrice, e.pipSize)
	e.trades = append(e.trades, *t)
	e.open = nil
}

// sessionLastBar reports whether bar i is the final bar of a declared
// session day. Without a timing block there is no session close; the
// end-of-run close covers the stream's last bar.
func (e *Engine) sessionLastBar(candles []types.Candle, i int) bool {
	if !e.interpreter.HasSession() || i >= len(candles)-1 {
		return false
	}
	current := candles[i].Timestamp.UTC()
	next := candles[i+1].Timestamp.UTC()
	return current.Year() != next.Year() || current.YearDay() != next.YearDay()
}
