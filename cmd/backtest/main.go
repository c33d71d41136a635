package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ducminhle1904/cartridge-backtest/internal/backtest"
	"github.com/ducminhle1904/cartridge-backtest/internal/dsl"
	"github.com/ducminhle1904/cartridge-backtest/internal/monitoring"
	"github.com/ducminhle1904/cartridge-backtest/pkg/config"
	datamanager "github.com/ducminhle1904/cartridge-backtest/pkg/data"
	"github.com/ducminhle1904/cartridge-backtest/pkg/reporting"
	"github.com/ducminhle1904/cartridge-backtest/pkg/types"
)

const (
	AppName    = "Cartridge Backtest"
	AppVersion = "1.2.0"
)

func main() {
	flags := NewBacktestFlags()
	flag.Parse()

	if err := ValidateBacktestFlags(flags); err != nil {
		log.Fatalf("❌ Flag validation error: %v", err)
	}

	if *flags.ShowVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}
	if *flags.ShowHelp {
		printUsageHelp()
		return
	}

	printHeader()
	loadEnvironment(*flags.EnvFile)

	cartridge, err := dsl.Load(*flags.CartridgeFile)
	if err != nil {
		log.Fatalf("❌ Cartridge error: %v", err)
	}
	if errs := dsl.Validate(cartridge); !errs.Empty() {
		fmt.Printf("❌ Cartridge %q failed validation:\n", cartridge.Name)
		for _, e := range errs.Errors {
			fmt.Printf("  - %v\n", e)
		}
		log.Fatalf("❌ %d validation error(s)", len(errs.Errors))
	}
	fmt.Printf("✅ Cartridge %q v%s is valid\n", cartridge.Name, cartridge.Version)
	if *flags.ValidateOnly {
		return
	}

	cfg := config.NewRunConfig(*flags.CartridgeFile, *flags.DataFile, *flags.Symbol, *flags.Interval, *flags.PipSize)
	cfg.ConsoleOnly = *flags.ConsoleOnly
	if *flags.OutputDir != "" {
		cfg.OutputDir = *flags.OutputDir
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	candles := loadCandles(cfg, *flags.Period)
	fmt.Printf("📊 Loaded %d candles for %s %s\n\n", len(candles), cfg.Symbol, cfg.Interval)

	started := time.Now()
	result, err := backtest.Run(candles, cartridge, cfg.PipSize)
	if err != nil {
		log.Fatalf("❌ Backtest failed: %v", err)
	}
	elapsed := time.Since(started)
	monitoring.RecordRun(cartridge.Name, cfg.Symbol, result, elapsed)
	fmt.Printf("⏱️  Run completed in %s\n\n", elapsed.Round(time.Millisecond))

	reporting.OutputConsole(result, cartridge.Name, cfg.Symbol)

	if !cfg.ConsoleOnly {
		writeResultFiles(cfg, cartridge, result)
	}
}

func loadCandles(cfg *config.RunConfig, period string) []types.Candle {
	provider := datamanager.NewCSVProvider()
	candles, err := provider.LoadData(cfg.DataFile)
	if err != nil {
		log.Fatalf("❌ Data error: %v", err)
	}
	if err := provider.ValidateData(candles); err != nil {
		log.Fatalf("❌ Data validation error: %v", err)
	}

	if period != "" {
		d, ok := datamanager.ParseTrailingPeriod(period)
		if !ok {
			log.Fatalf("❌ Invalid period format: %s (use 7d, 30d, 180d, 365d)", period)
		}
		before := len(candles)
		candles = datamanager.FilterByPeriod(candles, d)
		fmt.Printf("🔍 Period filter %s: %d → %d candles\n", period, before, len(candles))
	}

	return candles
}

func writeResultFiles(cfg *config.RunConfig, cartridge *dsl.Cartridge, result *backtest.Result) {
	base := fmt.Sprintf("%s_%s_%s", sanitize(cartridge.Name), cfg.Symbol, cfg.Interval)

	jsonPath := filepath.Join(cfg.OutputDir, base+".json")
	if err := reporting.WriteResultJSON(result, jsonPath); err != nil {
		log.Printf("⚠️  Could not write JSON results: %v", err)
	} else {
		fmt.Printf("💾 Results written to %s\n", jsonPath)
	}

	xlsxPath := filepath.Join(cfg.OutputDir, base+".xlsx")
	if err := reporting.WriteTradesXLSX(result, xlsxPath); err != nil {
		log.Printf("⚠️  Could not write trades workbook: %v", err)
	} else {
		fmt.Printf("💾 Trades workbook written to %s\n", xlsxPath)
	}
}

func sanitize(name string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-")
	return replacer.Replace(strings.ToLower(name))
}

func printHeader() {
	fmt.Printf("🎯 %s v%s\n", strings.ToUpper(AppName), AppVersion)
	fmt.Printf("%s\n\n", strings.Repeat("=", 50))
}

func printUsageHelp() {
	fmt.Printf("%s v%s - Strategy Cartridge Backtesting\n\n", AppName, AppVersion)
	fmt.Printf("USAGE:\n  %s [OPTIONS]\n\n", filepath.Base(flag.CommandLine.Name()))
	PrintUsageExamples()
	fmt.Println()
	flag.PrintDefaults()
}

func loadEnvironment(envFile string) {
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("⚠️  Could not load %s (%v)", envFile, err)
	}
}
