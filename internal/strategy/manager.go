package strategy

import (
	"sort"

	"github.com/ducminhle1904/cartridge-backtest/internal/engineerr"
	"github.com/ducminhle1904/cartridge-backtest/internal/indicators"
	"github.com/ducminhle1904/cartridge-backtest/pkg/types"
)

// MultiIndicatorManager registers uniquely-aliased indicator instances
// and computes every component series once per run. Multi-output
// instances contribute suffixed aliases (MACD_SIGNAL, fast_D, ...)
// alongside their primary alias.
type MultiIndicatorManager struct {
	instances []managedInstance
	series    map[string][]float64
}

type managedInstance struct {
	alias     string
	indicator indicators.Indicator
}

// NewMultiIndicatorManager creates an empty manager
func NewMultiIndicatorManager() *MultiIndicatorManager {
	return &MultiIndicatorManager{
		series: make(map[string][]float64),
	}
}

// Register adds an indicator instance under the given alias. Alias
// collisions (including component aliases) are rejected.
func (m *MultiIndicatorManager) Register(indicatorType, alias string, params indicators.Params) error {
	ind, err := indicators.New(indicatorType, params)
	if err != nil {
		return err
	}

	for _, component := range ind.Components() {
		candidate := componentAlias(alias, component)
		if _, exists := m.series[candidate]; exists {
			return engineerr.New(engineerr.KindDuplicateAlias, "alias", "alias %q is already registered", candidate)
		}
	}
	for _, component := range ind.Components() {
		m.series[componentAlias(alias, component)] = nil
	}
	m.instances = append(m.instances, managedInstance{alias: alias, indicator: ind})
	return nil
}

// SetSeries installs an externally computed series under an alias (used
// for the implicit CLOSE and REF_PRICE aliases).
func (m *MultiIndicatorManager) SetSeries(alias string, values []float64) error {
	if s, exists := m.series[alias]; exists && s != nil {
		return engineerr.New(engineerr.KindDuplicateAlias, "alias", "alias %q is already registered", alias)
	}
	m.series[alias] = values
	return nil
}

// ComputeAll calculates every registered instance over the candle slice.
func (m *MultiIndicatorManager) ComputeAll(candles []types.Candle) {
	for _, inst := range m.instances {
		for component, values := range inst.indicator.Compute(candles) {
			m.series[componentAlias(inst.alias, component)] = values
		}
	}
}

// Value returns the series value for an alias at bar index i, and
// whether it is defined there.
func (m *MultiIndicatorManager) Value(alias string, i int) (float64, bool) {
	values, ok := m.series[alias]
	if !ok || i < 0 || i >= len(values) {
		return 0, false
	}
	v := values[i]
	if !indicators.Defined(v) {
		return 0, false
	}
	return v, true
}

// Aliases returns every registered alias in deterministic order.
func (m *MultiIndicatorManager) Aliases() []string {
	out := make([]string, 0, len(m.series))
	for alias := range m.series {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}

// Series returns the computed series keyed by alias.
func (m *MultiIndicatorManager) Series() map[string][]float64 {
	return m.series
}

func componentAlias(alias, component string) string {
	if component == indicators.ComponentPrimary {
		return alias
	}
	return alias + "_" + component
}
