package config

import (
	"fmt"
	"os"
	"strconv"
)

// Default run parameter values
const (
	DefaultPipSize   = 0.0001
	DefaultOutputDir = "results"
	DefaultDataRoot  = "data"
)

// RunConfig holds everything one backtest run needs besides the
// cartridge itself. Pip size lives here, never in the cartridge: it is
// a property of the symbol, supplied by the caller per run.
type RunConfig struct {
	CartridgeFile string  `json:"cartridge_file"`
	DataFile      string  `json:"data_file"`
	Symbol        string  `json:"symbol"`
	Interval      string  `json:"interval"`
	PipSize       float64 `json:"pip_size"`
	Period        string  `json:"period,omitempty"`
	OutputDir     string  `json:"output_dir"`
	ConsoleOnly   bool    `json:"console_only"`
}

// NewRunConfig builds a run configuration from resolved flag values,
// falling back to environment variables loaded from .env.
func NewRunConfig(cartridgeFile, dataFile, symbol, interval string, pipSize float64) *RunConfig {
	cfg := &RunConfig{
		CartridgeFile: cartridgeFile,
		DataFile:      dataFile,
		Symbol:        symbol,
		Interval:      interval,
		PipSize:       pipSize,
		OutputDir:     DefaultOutputDir,
	}

	if cfg.DataFile == "" {
		cfg.DataFile = os.Getenv("BACKTEST_DATA_FILE")
	}
	if cfg.Symbol == "" {
		cfg.Symbol = os.Getenv("BACKTEST_SYMBOL")
	}
	if cfg.PipSize == 0 {
		if raw := os.Getenv("BACKTEST_PIP_SIZE"); raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				cfg.PipSize = v
			}
		}
	}
	if cfg.PipSize == 0 {
		cfg.PipSize = DefaultPipSize
	}
	if dir := os.Getenv("BACKTEST_OUTPUT_DIR"); dir != "" {
		cfg.OutputDir = dir
	}

	return cfg
}

// Validate checks the run configuration is complete.
func (c *RunConfig) Validate() error {
	if c.CartridgeFile == "" {
		return fmt.Errorf("cartridge file is required")
	}
	if c.DataFile == "" {
		return fmt.Errorf("data file is required (flag -data or BACKTEST_DATA_FILE)")
	}
	if c.PipSize <= 0 {
		return fmt.Errorf("pip size must be positive, got %v", c.PipSize)
	}
	return nil
}
