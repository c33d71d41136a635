package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ducminhle1904/cartridge-backtest/internal/backtest"
)

var (
	BacktestRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cartridge_backtest_runs_total",
			Help: "Total number of backtest runs executed",
		},
		[]string{"cartridge", "symbol"},
	)

	TradesPerRun = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cartridge_backtest_trades_per_run",
			Help:    "Number of trades produced per backtest run",
			Buckets: prometheus.LinearBuckets(0, 10, 20),
		},
		[]string{"cartridge"},
	)

	TradePips = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cartridge_backtest_trade_pips",
			Help:    "Pips realized per trade",
			Buckets: prometheus.LinearBuckets(-100, 10, 20),
		},
		[]string{"symbol"},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cartridge_backtest_run_duration_seconds",
			Help:    "Wall-clock duration of a backtest run",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)
)

// RecordRun publishes the metrics for one completed backtest run.
func RecordRun(cartridge, symbol string, result *backtest.Result, elapsed time.Duration) {
	BacktestRuns.WithLabelValues(cartridge, symbol).Inc()
	TradesPerRun.WithLabelValues(cartridge).Observe(float64(result.Summary.TotalTrades))
	for _, trade := range result.Trades {
		TradePips.WithLabelValues(symbol).Observe(trade.Pips)
	}
	RunDuration.Observe(elapsed.Seconds())
}
