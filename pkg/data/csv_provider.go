package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/ducminhle1904/cartridge-backtest/internal/backtest"
	"github.com/ducminhle1904/cartridge-backtest/pkg/types"
)

// CSVProvider implements Provider for CSV files
type CSVProvider struct {
	format ColumnMapping
}

// NewCSVProvider creates a new CSV data provider with the default format
func NewCSVProvider() *CSVProvider {
	return &CSVProvider{format: DefaultCSVFormat}
}

// NewCSVProviderWithFormat creates a provider with a custom column mapping
func NewCSVProviderWithFormat(format ColumnMapping) *CSVProvider {
	return &CSVProvider{format: format}
}

// GetName returns the name of the data provider
func (p *CSVProvider) GetName() string {
	return "CSV Provider"
}

// LoadData loads historical candles from a CSV file
func (p *CSVProvider) LoadData(source string) ([]types.Candle, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var candles []types.Candle
	lineNum := 1
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("error reading CSV at line %d: %w", lineNum, err)
		}
		lineNum++

		if len(record) < p.format.MinColumns {
			return nil, fmt.Errorf("insufficient columns at line %d (expected %d, got %d)", lineNum, p.format.MinColumns, len(record))
		}

		candle, err := p.parseRecord(record, lineNum)
		if err != nil {
			return nil, err
		}
		candles = append(candles, candle)
	}

	return candles, nil
}

func (p *CSVProvider) parseRecord(record []string, lineNum int) (types.Candle, error) {
	ts, err := p.parseTimestamp(record[p.format.TimestampCol])
	if err != nil {
		return types.Candle{}, fmt.Errorf("invalid timestamp at line %d: %w", lineNum, err)
	}

	parse := func(col int, name string) (float64, error) {
		v, err := strconv.ParseFloat(record[col], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s at line %d: %w", name, lineNum, err)
		}
		return v, nil
	}

	candle := types.Candle{Timestamp: ts}
	if candle.Open, err = parse(p.format.OpenCol, "open"); err != nil {
		return types.Candle{}, err
	}
	if candle.High, err = parse(p.format.HighCol, "high"); err != nil {
		return types.Candle{}, err
	}
	if candle.Low, err = parse(p.format.LowCol, "low"); err != nil {
		return types.Candle{}, err
	}
	if candle.Close, err = parse(p.format.CloseCol, "close"); err != nil {
		return types.Candle{}, err
	}
	if candle.Volume, err = parse(p.format.VolumeCol, "volume"); err != nil {
		return types.Candle{}, err
	}

	return candle, nil
}

func (p *CSVProvider) parseTimestamp(raw string) (time.Time, error) {
	if p.format.DateFormat != "" {
		return time.Parse(p.format.DateFormat, raw)
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}

// ValidateData checks the candle stream is usable: timestamps strictly
// increasing and prices self-consistent.
func (p *CSVProvider) ValidateData(candles []types.Candle) error {
	if err := backtest.ValidateTimeline(candles); err != nil {
		return err
	}
	for i, c := range candles {
		if c.Low > c.High || c.Open < c.Low || c.Open > c.High || c.Close < c.Low || c.Close > c.High {
			return fmt.Errorf("inconsistent OHLC at index %d (%s)", i, c.Timestamp.UTC())
		}
		if c.Volume < 0 {
			return fmt.Errorf("negative volume at index %d (%s)", i, c.Timestamp.UTC())
		}
	}
	return nil
}
