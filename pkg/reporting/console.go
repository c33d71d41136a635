package reporting

import (
	"fmt"
	"math"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/cartridge-backtest/internal/backtest"
)

const maxTradeRows = 50

// DefaultConsoleReporter renders results as rounded go-pretty tables
type DefaultConsoleReporter struct{}

// NewDefaultConsoleReporter creates a new console reporter
func NewDefaultConsoleReporter() *DefaultConsoleReporter {
	return &DefaultConsoleReporter{}
}

// OutputResults prints the run summary and the trade list
func (r *DefaultConsoleReporter) OutputResults(result *backtest.Result, cartridgeName, symbol string) {
	r.printSummary(result, cartridgeName, symbol)
	r.printTrades(result)
}

func (r *DefaultConsoleReporter) printSummary(result *backtest.Result, cartridgeName, symbol string) {
	s := result.Summary

	profitFactor := fmt.Sprintf("%.2f", s.ProfitFactor)
	if math.IsInf(s.ProfitFactor, 1) {
		profitFactor = "∞"
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("BACKTEST RESULTS")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"📦 Cartridge", cartridgeName},
		{"📊 Symbol", symbol},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"🔄 Total Trades", s.TotalTrades},
		{"✅ Wins", fmt.Sprintf("%d (%.1f%%)", s.Wins, s.WinRate*100)},
		{"❌ Losses", s.Losses},
		{"📈 Total Pips", fmt.Sprintf("%.1f", s.TotalPips)},
		{"📈 Avg Win", fmt.Sprintf("%.1f pips", s.AverageWin)},
		{"📉 Avg Loss", fmt.Sprintf("%.1f pips", s.AverageLoss)},
		{"💹 Profit Factor", profitFactor},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, WidthMax: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 25, WidthMax: 40, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Println()
}

func (r *DefaultConsoleReporter) printTrades(result *backtest.Result) {
	if len(result.Trades) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("TRADES")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Side", "Entry Time", "Entry", "Exit Time", "Exit", "Reason", "Pips"})

	shown := len(result.Trades)
	if shown > maxTradeRows {
		shown = maxTradeRows
	}
	for i := 0; i < shown; i++ {
		trade := result.Trades[i]
		t.AppendRow(table.Row{
			i + 1,
			trade.Direction,
			trade.EntryTime.UTC().Format("2006-01-02 15:04"),
			fmt.Sprintf("%.5f", trade.EntryPrice),
			trade.ExitTime.UTC().Format("2006-01-02 15:04"),
			fmt.Sprintf("%.5f", trade.ExitPrice),
			trade.ExitReason,
			fmt.Sprintf("%+.1f", trade.Pips),
		})
	}

	t.Render()
	if len(result.Trades) > maxTradeRows {
		fmt.Printf("… %d more trades omitted (see JSON/Excel output)\n", len(result.Trades)-maxTradeRows)
	}
	fmt.Println()
}

// OutputConsole is a package-level convenience wrapper
func OutputConsole(result *backtest.Result, cartridgeName, symbol string) {
	NewDefaultConsoleReporter().OutputResults(result, cartridgeName, symbol)
}
