package data

import (
	"time"

	"github.com/ducminhle1904/cartridge-backtest/pkg/types"
)

// Provider loads historical candles from a source (CSV file, exchange
// download, ...). The engine itself never performs I/O; it consumes the
// slice a provider returns.
type Provider interface {
	// LoadData loads candles from the specified source
	LoadData(source string) ([]types.Candle, error)

	// ValidateData checks the integrity of loaded candles
	ValidateData(candles []types.Candle) error

	// GetName returns the provider's name
	GetName() string
}

// ColumnMapping defines column positions and the timestamp layout for a
// CSV source.
type ColumnMapping struct {
	TimestampCol int
	OpenCol      int
	HighCol      int
	LowCol       int
	CloseCol     int
	VolumeCol    int
	MinColumns   int
	DateFormat   string
}

// DefaultCSVFormat matches the layout cmd/fetch-data writes:
// timestamp,open,high,low,close,volume with millisecond epochs.
var DefaultCSVFormat = ColumnMapping{
	TimestampCol: 0,
	OpenCol:      1,
	HighCol:      2,
	LowCol:       3,
	CloseCol:     4,
	VolumeCol:    5,
	MinColumns:   6,
	DateFormat:   "", // epoch milliseconds
}

// RFC3339CSVFormat reads sources with ISO-8601 timestamps.
var RFC3339CSVFormat = ColumnMapping{
	TimestampCol: 0,
	OpenCol:      1,
	HighCol:      2,
	LowCol:       3,
	CloseCol:     4,
	VolumeCol:    5,
	MinColumns:   6,
	DateFormat:   time.RFC3339,
}
