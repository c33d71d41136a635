package reporting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/cartridge-backtest/internal/backtest"
)

// DefaultExcelReporter writes a trades workbook
type DefaultExcelReporter struct{}

// NewDefaultExcelReporter creates a new Excel reporter
func NewDefaultExcelReporter() *DefaultExcelReporter {
	return &DefaultExcelReporter{}
}

// Write produces a workbook with a Summary sheet and a Trades sheet
func (r *DefaultExcelReporter) Write(result *backtest.Result, path string) error {
	fx := excelize.NewFile()
	defer fx.Close()

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	if err := r.writeSummarySheet(fx, result, headerStyle); err != nil {
		return err
	}
	if err := r.writeTradesSheet(fx, result, headerStyle); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return fx.SaveAs(path)
}

func (r *DefaultExcelReporter) writeSummarySheet(fx *excelize.File, result *backtest.Result, headerStyle int) error {
	const sheet = "Summary"
	fx.SetSheetName("Sheet1", sheet)

	s := result.Summary
	profitFactor := interface{}(s.ProfitFactor)
	if math.IsInf(s.ProfitFactor, 1) {
		profitFactor = "inf"
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Trades", s.TotalTrades},
		{"Wins", s.Wins},
		{"Losses", s.Losses},
		{"Win Rate", s.WinRate},
		{"Total Pips", s.TotalPips},
		{"Average Win (pips)", s.AverageWin},
		{"Average Loss (pips)", s.AverageLoss},
		{"Profit Factor", profitFactor},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return fx.SetCellStyle(sheet, "A1", "B1", headerStyle)
}

func (r *DefaultExcelReporter) writeTradesSheet(fx *excelize.File, result *backtest.Result, headerStyle int) error {
	const sheet = "Trades"
	if _, err := fx.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"#", "Direction", "Entry Time", "Entry Price", "Stop Loss", "Take Profit", "Exit Time", "Exit Price", "Exit Reason", "Pips"}
	if err := fx.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := fx.SetCellStyle(sheet, "A1", "J1", headerStyle); err != nil {
		return err
	}

	for i, trade := range result.Trades {
		row := []interface{}{
			i + 1,
			string(trade.Direction),
			trade.EntryTime.UTC().Format("2006-01-02 15:04:05"),
			trade.EntryPrice,
			trade.StopLoss,
			trade.TakeProfit,
			trade.ExitTime.UTC().Format("2006-01-02 15:04:05"),
			trade.ExitPrice,
			string(trade.ExitReason),
			trade.Pips,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return fx.SetColWidth(sheet, "C", "I", 20)
}

// WriteTradesXLSX is a package-level convenience wrapper
func WriteTradesXLSX(result *backtest.Result, path string) error {
	if err := NewDefaultExcelReporter().Write(result, path); err != nil {
		return fmt.Errorf("failed to write trades workbook: %w", err)
	}
	return nil
}
