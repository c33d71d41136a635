package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ducminhle1904/cartridge-backtest/internal/exchange/bybit"
	"github.com/ducminhle1904/cartridge-backtest/pkg/types"
)

// fetch-data downloads candle history from Bybit into the CSV layout
// the backtest data layer reads: timestamp,open,high,low,close,volume
// with millisecond epochs.
func main() {
	var (
		symbol   = flag.String("symbol", "BTCUSDT", "Trading symbol (e.g. BTCUSDT)")
		interval = flag.String("interval", "1", "Kline interval (1, 5, 15, 30, 60, 240, D)")
		category = flag.String("category", "spot", "Market category (spot, linear, inverse)")
		start    = flag.String("start", "", "Start date (YYYY-MM-DD)")
		end      = flag.String("end", "", "End date (YYYY-MM-DD)")
		outdir   = flag.String("outdir", "data", "Directory to write CSV files")
		output   = flag.String("output", "", "Explicit output file path")
		envFile  = flag.String("env", ".env", "Environment file to load")
		testnet  = flag.Bool("testnet", false, "Use the Bybit testnet")
	)
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil {
		log.Printf("⚠️  Could not load %s (%v)", *envFile, err)
	}

	startTime, endTime, err := parseDateRange(*start, *end)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	client := bybit.NewClient(bybit.Config{
		APIKey:    os.Getenv("BYBIT_API_KEY"),
		APISecret: os.Getenv("BYBIT_API_SECRET"),
		Testnet:   *testnet,
	})

	fmt.Printf("📥 Fetching %s %s (%s) from %s to %s\n",
		*symbol, *interval, *category,
		startTime.Format("2006-01-02"), endTime.Format("2006-01-02"))

	candles, err := fetchAll(client, *category, strings.ToUpper(*symbol), *interval, startTime, endTime)
	if err != nil {
		log.Fatalf("❌ Fetch failed: %v", err)
	}
	if len(candles) == 0 {
		log.Fatalf("❌ No candles returned for %s %s", *symbol, *interval)
	}

	path := *output
	if path == "" {
		path = filepath.Join(*outdir, fmt.Sprintf("%s_%s.csv", strings.ToUpper(*symbol), *interval))
	}
	if err := writeCSV(path, candles); err != nil {
		log.Fatalf("❌ Write failed: %v", err)
	}
	fmt.Printf("✅ Wrote %d candles to %s\n", len(candles), path)
}

func parseDateRange(start, end string) (time.Time, time.Time, error) {
	endTime := time.Now().UTC()
	startTime := endTime.AddDate(0, 0, -30)

	var err error
	if start != "" {
		startTime, err = time.Parse("2006-01-02", start)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q (want YYYY-MM-DD)", start)
		}
	}
	if end != "" {
		endTime, err = time.Parse("2006-01-02", end)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q (want YYYY-MM-DD)", end)
		}
	}
	if !startTime.Before(endTime) {
		return time.Time{}, time.Time{}, fmt.Errorf("start date must be before end date")
	}
	return startTime, endTime, nil
}

// fetchAll pages through the kline endpoint (max 1000 bars per call)
// until the requested range is covered.
func fetchAll(client *bybit.Client, category, symbol, interval string, start, end time.Time) ([]types.Candle, error) {
	ctx := context.Background()
	var all []types.Candle
	cursor := start

	for cursor.Before(end) {
		windowEnd := end
		batch, err := client.GetKlines(ctx, bybit.KlineParams{
			Category: category,
			Symbol:   symbol,
			Interval: bybit.KlineInterval(interval),
			Start:    &cursor,
			End:      &windowEnd,
			Limit:    1000,
		})
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}

		for _, c := range batch {
			if len(all) > 0 && !c.Timestamp.After(all[len(all)-1].Timestamp) {
				continue
			}
			all = append(all, c)
		}

		last := batch[len(batch)-1].Timestamp
		if !last.After(cursor) {
			break
		}
		cursor = last.Add(time.Millisecond)

		// stay polite with the public endpoint
		time.Sleep(200 * time.Millisecond)
	}

	return all, nil
}

func writeCSV(path string, candles []types.Candle) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"timestamp", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}
	for _, c := range candles {
		record := []string{
			strconv.FormatInt(c.Timestamp.UTC().UnixMilli(), 10),
			strconv.FormatFloat(c.Open, 'f', -1, 64),
			strconv.FormatFloat(c.High, 'f', -1, 64),
			strconv.FormatFloat(c.Low, 'f', -1, 64),
			strconv.FormatFloat(c.Close, 'f', -1, 64),
			strconv.FormatFloat(c.Volume, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return nil
}
