package data

import (
	"strconv"
	"strings"
	"time"

	"github.com/ducminhle1904/cartridge-backtest/pkg/types"
)

// FilterByDateRange keeps candles with start <= ts < end. A zero start
// or end leaves that side unbounded.
func FilterByDateRange(candles []types.Candle, start, end time.Time) []types.Candle {
	var out []types.Candle
	for _, c := range candles {
		if !start.IsZero() && c.Timestamp.Before(start) {
			continue
		}
		if !end.IsZero() && !c.Timestamp.Before(end) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FilterByPeriod keeps the trailing period of candles relative to the
// last candle's timestamp.
func FilterByPeriod(candles []types.Candle, period time.Duration) []types.Candle {
	if len(candles) == 0 || period <= 0 {
		return candles
	}
	cutoff := candles[len(candles)-1].Timestamp.Add(-period)
	return FilterByDateRange(candles, cutoff, time.Time{})
}

// ParseTrailingPeriod parses period strings like "7d", "30d", "365d".
func ParseTrailingPeriod(s string) (time.Duration, bool) {
	trimmed := strings.TrimSpace(strings.ToLower(s))
	if !strings.HasSuffix(trimmed, "d") {
		return 0, false
	}
	days, err := strconv.Atoi(strings.TrimSuffix(trimmed, "d"))
	if err != nil || days <= 0 {
		return 0, false
	}
	return time.Duration(days) * 24 * time.Hour, true
}
