package dsl

import (
	"errors"
	"fmt"
	"time"

	"github.com/ducminhle1904/cartridge-backtest/internal/engineerr"
	"github.com/ducminhle1904/cartridge-backtest/internal/indicators"
)

// Validate statically checks a cartridge and returns every failing field
// in one list. A cartridge that passes here can be handed to the
// interpreter without further structural checks.
func Validate(c *Cartridge) *engineerr.List {
	list := &engineerr.List{}

	if c.Name == "" {
		list.Addf(engineerr.KindSchemaInvalid, "name", "cartridge name is required")
	}
	if c.Version == "" {
		list.Addf(engineerr.KindSchemaInvalid, "version", "cartridge version is required")
	}

	validateRisk(c, list)
	aliases := validateIndicators(c, list)
	validateTiming(c, list)

	if c.Conditions.Buy == nil && c.Conditions.Sell == nil {
		list.Addf(engineerr.KindSchemaInvalid, "conditions", "at least one of buy/sell is required")
	}
	validateCondition(c, c.Conditions.Buy, "conditions.buy", aliases, list)
	validateCondition(c, c.Conditions.Sell, "conditions.sell", aliases, list)

	return list
}

func validateRisk(c *Cartridge, list *engineerr.List) {
	if c.Risk.StopLossPips <= 0 {
		list.Addf(engineerr.KindNumericDomain, "risk_management.stop_loss_pips", "must be > 0, got %v", c.Risk.StopLossPips)
	}
	if c.Risk.TakeProfitPips <= 0 {
		list.Addf(engineerr.KindNumericDomain, "risk_management.take_profit_pips", "must be > 0, got %v", c.Risk.TakeProfitPips)
	}
	if c.Risk.MaxDailyTrades < 0 {
		list.Addf(engineerr.KindNumericDomain, "risk_management.max_daily_trades", "must be >= 0, got %d", c.Risk.MaxDailyTrades)
	}
	if c.Risk.MinPipDistance < 0 {
		list.Addf(engineerr.KindNumericDomain, "risk_management.min_pip_distance", "must be >= 0, got %v", c.Risk.MinPipDistance)
	}
}

// validateIndicators checks every instance declaration and returns the
// full alias set (instance aliases plus component and implicit aliases)
// available to condition expressions.
func validateIndicators(c *Cartridge, list *engineerr.List) map[string]struct{} {
	aliases := map[string]struct{}{
		AliasClose: {},
	}
	if c.Timing != nil {
		aliases[AliasRefPrice] = struct{}{}
	}

	for i, spec := range c.Indicators {
		field := fmt.Sprintf("indicators[%d]", i)

		if spec.Type == "" {
			list.Addf(engineerr.KindSchemaInvalid, field+".type", "indicator type is required")
			continue
		}
		if !indicators.IsKnownType(spec.Type) {
			list.Addf(engineerr.KindUnknownIndicator, field+".type", "unsupported indicator type %q", spec.Type)
			continue
		}

		expansion, err := ComponentAliases(spec)
		if err != nil {
			var e *engineerr.Error
			if errors.As(err, &e) {
				list.Add(engineerr.New(e.Kind, field+"."+e.Field, "%s", e.Message))
			} else {
				list.Add(engineerr.Wrap(err, engineerr.KindSchemaInvalid, field, "invalid indicator declaration"))
			}
			continue
		}
		for _, alias := range expansion {
			if _, dup := aliases[alias]; dup {
				list.Addf(engineerr.KindDuplicateAlias, field+".alias", "alias %q is already registered", alias)
				continue
			}
			aliases[alias] = struct{}{}
		}
	}

	return aliases
}

func validateTiming(c *Cartridge, list *engineerr.List) {
	if c.Timing == nil {
		return
	}
	if _, err := ParseTimeOfDay(c.Timing.ReferenceTime); err != nil {
		list.Addf(engineerr.KindSchemaInvalid, "timing.reference_time", "invalid time %q (want HH:MM)", c.Timing.ReferenceTime)
	}
	if _, err := ParseTimeOfDay(c.Timing.SignalTime); err != nil {
		list.Addf(engineerr.KindSchemaInvalid, "timing.signal_time", "invalid time %q (want HH:MM)", c.Timing.SignalTime)
	}
	switch c.Timing.ReferencePrice {
	case "open", "high", "low", "close":
	default:
		list.Addf(engineerr.KindSchemaInvalid, "timing.reference_price", "must be one of open/high/low/close, got %q", c.Timing.ReferencePrice)
	}
}

func validateCondition(c *Cartridge, cond *Condition, field string, aliases map[string]struct{}, list *engineerr.List) {
	if cond == nil {
		return
	}

	switch cond.Kind() {
	case KindComparison:
		if cond.Compare == "" {
			list.Addf(engineerr.KindSchemaInvalid, field+".compare", "compare expression is required")
			return
		}
		cmp, err := ParseComparison(cond.Compare)
		if err != nil {
			var e *engineerr.Error
			if errors.As(err, &e) {
				list.Add(engineerr.New(e.Kind, field+".compare", "%s", e.Message))
			}
			return
		}
		for _, alias := range cmp.Aliases() {
			if _, ok := aliases[alias]; !ok {
				list.Addf(engineerr.KindSchemaInvalid, field+".compare", "alias %q is not declared", alias)
			}
		}

	case KindRotation:
		validateZone(cond.Zone, field+".zone", aliases, list)
		validateTrigger(cond.Trigger, field+".trigger", aliases, list)
		if cond.ZoneWindow < 0 || cond.ZoneWindow > 8 {
			list.Addf(engineerr.KindNumericDomain, field+".zone_window", "must be between 0 and 8, got %d", cond.ZoneWindow)
		}
	}
}

func validateZone(zone *Zone, field string, aliases map[string]struct{}, list *engineerr.List) {
	if zone == nil {
		list.Addf(engineerr.KindSchemaInvalid, field, "rotation condition requires a zone")
		return
	}
	if (zone.AllAbove == nil) == (zone.AllBelow == nil) {
		list.Addf(engineerr.KindSchemaInvalid, field, "exactly one of all_above/all_below is required")
	}
	if len(zone.Indicators) == 0 {
		list.Addf(engineerr.KindSchemaInvalid, field+".indicators", "zone requires at least one indicator alias")
	}
	for i, alias := range zone.Indicators {
		if _, ok := aliases[alias]; !ok {
			list.Addf(engineerr.KindSchemaInvalid, fmt.Sprintf("%s.indicators[%d]", field, i), "alias %q is not declared", alias)
		}
	}
}

func validateTrigger(trigger *Trigger, field string, aliases map[string]struct{}, list *engineerr.List) {
	if trigger == nil {
		list.Addf(engineerr.KindSchemaInvalid, field, "rotation condition requires a trigger")
		return
	}
	if trigger.Indicator == "" {
		list.Addf(engineerr.KindSchemaInvalid, field+".indicator", "trigger indicator alias is required")
	} else if _, ok := aliases[trigger.Indicator]; !ok {
		list.Addf(engineerr.KindSchemaInvalid, field+".indicator", "alias %q is not declared", trigger.Indicator)
	}
	if (trigger.CrossesAbove == nil) == (trigger.CrossesBelow == nil) {
		list.Addf(engineerr.KindSchemaInvalid, field, "exactly one of crosses_above/crosses_below is required")
	}
}

// ParseTimeOfDay parses a UTC "HH:MM" string into a minutes-since-
// midnight offset.
func ParseTimeOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
