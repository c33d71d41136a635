package reporting

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/ducminhle1904/cartridge-backtest/internal/backtest"
)

// DefaultJSONWriter persists results as indented JSON
type DefaultJSONWriter struct{}

// NewDefaultJSONWriter creates a new JSON writer
func NewDefaultJSONWriter() *DefaultJSONWriter {
	return &DefaultJSONWriter{}
}

// jsonResult mirrors backtest.Result with indicator series encoded as
// nullable values, since undefined (NaN) warm-up entries are not
// representable in JSON.
type jsonResult struct {
	Trades          interface{}           `json:"trades"`
	Timestamps      []int64               `json:"timestamps"`
	IndicatorSeries map[string][]*float64 `json:"indicator_series"`
	Summary         backtest.Summary      `json:"summary"`
}

// Write serializes a run result to the given path
func (w *DefaultJSONWriter) Write(result *backtest.Result, path string) error {
	series := make(map[string][]*float64, len(result.IndicatorSeries))
	for alias, values := range result.IndicatorSeries {
		nullable := make([]*float64, len(values))
		for i, v := range values {
			if !math.IsNaN(v) {
				value := v
				nullable[i] = &value
			}
		}
		series[alias] = nullable
	}

	payload := jsonResult{
		Trades:          result.Trades,
		Timestamps:      result.Timestamps,
		IndicatorSeries: series,
		Summary:         result.Summary,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// WriteResultJSON is a package-level convenience wrapper
func WriteResultJSON(result *backtest.Result, path string) error {
	return NewDefaultJSONWriter().Write(result, path)
}
