package reporting

import (
	"github.com/ducminhle1904/cartridge-backtest/internal/backtest"
)

// ConsoleReporter renders a run's results to stdout.
type ConsoleReporter interface {
	OutputResults(result *backtest.Result, cartridgeName, symbol string)
}

// FileReporter persists a run's results to disk.
type FileReporter interface {
	Write(result *backtest.Result, path string) error
}
