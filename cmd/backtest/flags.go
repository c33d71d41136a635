package main

import (
	"flag"
	"fmt"
)

// BacktestFlags holds all command line flags for the backtest command
type BacktestFlags struct {
	CartridgeFile *string
	DataFile      *string
	Symbol        *string
	Interval      *string
	PipSize       *float64
	Period        *string

	ValidateOnly *bool
	ConsoleOnly  *bool
	OutputDir    *string
	EnvFile      *string

	ShowVersion *bool
	ShowHelp    *bool
}

// NewBacktestFlags creates and registers all command line flags
func NewBacktestFlags() *BacktestFlags {
	return &BacktestFlags{
		CartridgeFile: flag.String("cartridge", "", "Strategy cartridge JSON file (required)"),
		DataFile:      flag.String("data", "", "Candle CSV file"),
		Symbol:        flag.String("symbol", "EURUSD", "Symbol label for reporting"),
		Interval:      flag.String("interval", "1m", "Bar interval label for reporting"),
		PipSize:       flag.Float64("pip-size", 0, "Pip size for the symbol (e.g. 0.0001 for FX, 1.0 for indices)"),
		Period:        flag.String("period", "", "Trailing period filter (7d, 30d, 180d, 365d)"),

		ValidateOnly: flag.Bool("validate", false, "Validate the cartridge and exit"),
		ConsoleOnly:  flag.Bool("console-only", false, "Skip JSON/Excel output files"),
		OutputDir:    flag.String("output", "", "Directory for result files"),
		EnvFile:      flag.String("env", ".env", "Environment file to load"),

		ShowVersion: flag.Bool("version", false, "Show version and exit"),
		ShowHelp:    flag.Bool("help", false, "Show usage help"),
	}
}

// ValidateBacktestFlags checks flag combinations before running
func ValidateBacktestFlags(flags *BacktestFlags) error {
	if *flags.ShowVersion || *flags.ShowHelp {
		return nil
	}
	if *flags.CartridgeFile == "" {
		return fmt.Errorf("-cartridge is required")
	}
	if *flags.PipSize < 0 {
		return fmt.Errorf("-pip-size must be positive")
	}
	return nil
}

// PrintUsageExamples prints common invocations
func PrintUsageExamples() {
	fmt.Println("EXAMPLES:")
	fmt.Println("  backtest -cartridge strategies/ma_cross.json -data data/EURUSD_1m.csv")
	fmt.Println("  backtest -cartridge strategies/stoch_rotation.json -data data/US30_1m.csv -pip-size 1.0")
	fmt.Println("  backtest -cartridge strategies/ma_cross.json -validate")
	fmt.Println("  backtest -cartridge strategies/ma_cross.json -data data/EURUSD_1m.csv -period 30d -console-only")
}
