package dsl

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ducminhle1904/cartridge-backtest/internal/engineerr"
	"github.com/ducminhle1904/cartridge-backtest/internal/indicators"
)

// Cartridge is a self-contained JSON strategy definition. The engine
// treats a validated cartridge as read-only for the whole run.
type Cartridge struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`

	Timing     *Timing         `json:"timing,omitempty"`
	Indicators []IndicatorSpec `json:"indicators,omitempty"`
	Conditions Conditions      `json:"conditions"`
	Risk       Risk            `json:"risk_management"`
}

// Timing declares a session window for time-based cartridges. Times are
// UTC "HH:MM" values.
type Timing struct {
	ReferenceTime  string `json:"reference_time"`
	ReferencePrice string `json:"reference_price"`
	SignalTime     string `json:"signal_time"`
}

// IndicatorSpec declares one indicator instance. The simple dialect uses
// the flat Period field; the advanced dialect nests per-type Params.
type IndicatorSpec struct {
	Type   string             `json:"type"`
	Alias  string             `json:"alias,omitempty"`
	Period int                `json:"period,omitempty"`
	Params *indicators.Params `json:"params,omitempty"`
}

// EffectiveParams merges the flat simple-dialect period with the nested
// advanced-dialect params.
func (s IndicatorSpec) EffectiveParams() indicators.Params {
	var p indicators.Params
	if s.Params != nil {
		p = *s.Params
	}
	if p.Period == 0 {
		p.Period = s.Period
	}
	return p
}

// ResolvedAlias returns the explicit alias, or synthesizes the implicit
// one a simple cartridge relies on (SMA20, EMA50, RSI, MACD, VWAP).
func (s IndicatorSpec) ResolvedAlias() string {
	if s.Alias != "" {
		return s.Alias
	}
	switch strings.ToUpper(s.Type) {
	case "SMA":
		return fmt.Sprintf("SMA%d", s.EffectiveParams().Period)
	case "EMA":
		return fmt.Sprintf("EMA%d", s.EffectiveParams().Period)
	default:
		return strings.ToUpper(s.Type)
	}
}

// Conditions holds the buy and sell sides of a strategy.
type Conditions struct {
	Buy  *Condition `json:"buy,omitempty"`
	Sell *Condition `json:"sell,omitempty"`
}

// ConditionKind discriminates the condition variants the DSL supports.
type ConditionKind int

const (
	KindComparison ConditionKind = iota
	KindRotation
)

// Condition is the tagged union of a simple comparison and a rotation
// condition. Exactly one variant is populated; Kind() discriminates.
type Condition struct {
	Type       string   `json:"type,omitempty"`
	Compare    string   `json:"compare,omitempty"`
	Crossover  bool     `json:"crossover,omitempty"`
	Zone       *Zone    `json:"zone,omitempty"`
	Trigger    *Trigger `json:"trigger,omitempty"`
	ZoneWindow int      `json:"zone_window,omitempty"`
}

// Kind reports which variant this condition is.
func (c *Condition) Kind() ConditionKind {
	if c.Type == "rotation" {
		return KindRotation
	}
	return KindComparison
}

// EffectiveZoneWindow returns the number of prior bars the zone may
// satisfy, defaulting to 1 and clamped to 8.
func (c *Condition) EffectiveZoneWindow() int {
	if c.ZoneWindow < 1 {
		return 1
	}
	if c.ZoneWindow > 8 {
		return 8
	}
	return c.ZoneWindow
}

// Zone requires every listed indicator to sit above or below a level.
// Exactly one of AllAbove/AllBelow is set.
type Zone struct {
	AllAbove   *float64 `json:"all_above,omitempty"`
	AllBelow   *float64 `json:"all_below,omitempty"`
	Indicators []string `json:"indicators"`
}

// Trigger fires when a designated indicator crosses a threshold.
// Exactly one of CrossesAbove/CrossesBelow is set.
type Trigger struct {
	Indicator    string   `json:"indicator"`
	CrossesAbove *float64 `json:"crosses_above,omitempty"`
	CrossesBelow *float64 `json:"crosses_below,omitempty"`
}

// Risk holds the fixed risk-management parameters. Pip size is a
// per-run argument and never lives in the cartridge.
type Risk struct {
	StopLossPips   float64 `json:"stop_loss_pips"`
	TakeProfitPips float64 `json:"take_profit_pips"`
	MaxDailyTrades int     `json:"max_daily_trades,omitempty"`
	MinPipDistance float64 `json:"min_pip_distance,omitempty"`
}

// Advanced reports whether the cartridge uses the advanced dialect.
func (c *Cartridge) Advanced() bool {
	for _, cond := range []*Condition{c.Conditions.Buy, c.Conditions.Sell} {
		if cond != nil && cond.Kind() == KindRotation {
			return true
		}
	}
	return false
}

// Parse decodes a cartridge from JSON. Structural validation is a
// separate step (Validate) so callers can collect every failing field.
func Parse(data []byte) (*Cartridge, error) {
	var c Cartridge
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, engineerr.Wrap(err, engineerr.KindSchemaInvalid, "", "cartridge is not valid JSON")
	}
	return &c, nil
}

// Load reads and decodes a cartridge file.
func Load(path string) (*Cartridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cartridge file: %w", err)
	}
	return Parse(data)
}

// ComponentAliases expands an indicator spec into every alias it
// contributes: the instance alias for the primary component, plus
// suffixed aliases for multi-output components (MACD_SIGNAL, fast_D, ...).
func ComponentAliases(spec IndicatorSpec) ([]string, error) {
	ind, err := indicators.New(spec.Type, spec.EffectiveParams())
	if err != nil {
		return nil, err
	}
	base := spec.ResolvedAlias()
	var out []string
	for _, component := range ind.Components() {
		if component == indicators.ComponentPrimary {
			out = append(out, base)
		} else {
			out = append(out, base+"_"+component)
		}
	}
	return out, nil
}

// Implicit aliases available to comparison expressions regardless of the
// declared indicator set.
const (
	AliasClose    = "CLOSE"
	AliasRefPrice = "REF_PRICE"
)
