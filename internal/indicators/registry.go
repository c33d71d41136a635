package indicators

import (
	"strings"

	"github.com/ducminhle1904/cartridge-backtest/internal/engineerr"
)

// Default indicator parameters
const (
	DefaultRSIPeriod        = 14
	DefaultMACDFast         = 12
	DefaultMACDSlow         = 26
	DefaultMACDSignal       = 9
	DefaultStochKPeriod     = 14
	DefaultStochKSmoothing  = 3
	DefaultStochDSmoothing  = 3
)

// New constructs an indicator instance from its cartridge type name and
// parameters. Unknown types and out-of-range parameters are rejected at
// construction so a run never starts with a half-configured library.
func New(indicatorType string, params Params) (Indicator, error) {
	switch strings.ToUpper(indicatorType) {
	case "SMA":
		if params.Period < 1 {
			return nil, engineerr.New(engineerr.KindNumericDomain, "period", "SMA period must be >= 1, got %d", params.Period)
		}
		return NewSMA(params.Period), nil

	case "EMA":
		if params.Period < 1 {
			return nil, engineerr.New(engineerr.KindNumericDomain, "period", "EMA period must be >= 1, got %d", params.Period)
		}
		return NewEMA(params.Period), nil

	case "RSI":
		period := params.Period
		if period == 0 {
			period = DefaultRSIPeriod
		}
		if period < 1 {
			return nil, engineerr.New(engineerr.KindNumericDomain, "period", "RSI period must be >= 1, got %d", period)
		}
		return NewRSI(period), nil

	case "MACD":
		fast, slow, signal := params.Fast, params.Slow, params.Signal
		if fast == 0 {
			fast = DefaultMACDFast
		}
		if slow == 0 {
			slow = DefaultMACDSlow
		}
		if signal == 0 {
			signal = DefaultMACDSignal
		}
		if fast < 1 || slow < 1 || signal < 1 {
			return nil, engineerr.New(engineerr.KindNumericDomain, "params", "MACD periods must be >= 1, got fast=%d slow=%d signal=%d", fast, slow, signal)
		}
		if fast >= slow {
			return nil, engineerr.New(engineerr.KindNumericDomain, "params", "MACD fast period must be below slow period, got fast=%d slow=%d", fast, slow)
		}
		return NewMACD(fast, slow, signal), nil

	case "VWAP":
		if params.SessionStartMinutes < 0 || params.SessionStartMinutes >= 24*60 {
			return nil, engineerr.New(engineerr.KindNumericDomain, "params", "VWAP session start must be a minute of the day, got %d", params.SessionStartMinutes)
		}
		return NewVWAP(params.SessionStartMinutes), nil

	case "STOCHASTIC":
		k, ks, ds := params.KPeriod, params.KSmoothing, params.DSmoothing
		if k == 0 {
			k = DefaultStochKPeriod
		}
		if ks == 0 {
			ks = DefaultStochKSmoothing
		}
		if ds == 0 {
			ds = DefaultStochDSmoothing
		}
		if k < 1 || ks < 1 || ds < 1 {
			return nil, engineerr.New(engineerr.KindNumericDomain, "params", "stochastic periods must be >= 1, got k_period=%d k_smoothing=%d d_smoothing=%d", k, ks, ds)
		}
		return NewStochastic(k, ks, ds), nil

	default:
		return nil, engineerr.New(engineerr.KindUnknownIndicator, "type", "unsupported indicator type %q", indicatorType)
	}
}

// KnownTypes lists the indicator types the library implements.
func KnownTypes() []string {
	return []string{"SMA", "EMA", "RSI", "MACD", "VWAP", "STOCHASTIC"}
}

// IsKnownType reports whether the library implements the given type.
func IsKnownType(indicatorType string) bool {
	switch strings.ToUpper(indicatorType) {
	case "SMA", "EMA", "RSI", "MACD", "VWAP", "STOCHASTIC":
		return true
	}
	return false
}
