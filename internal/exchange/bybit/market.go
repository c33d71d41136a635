package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"

	"github.com/ducminhle1904/cartridge-backtest/pkg/types"
)

// KlineInterval represents the time interval for kline data
type KlineInterval string

const (
	Interval1m  KlineInterval = "1"
	Interval5m  KlineInterval = "5"
	Interval15m KlineInterval = "15"
	Interval30m KlineInterval = "30"
	Interval1h  KlineInterval = "60"
	Interval4h  KlineInterval = "240"
	Interval1d  KlineInterval = "D"
)

// KlineParams holds parameters for fetching kline data
type KlineParams struct {
	Category string        // "spot", "linear", "inverse"
	Symbol   string        // Trading pair symbol (e.g. "BTCUSDT")
	Interval KlineInterval // Time interval
	Start    *time.Time    // Start time (optional)
	End      *time.Time    // End time (optional)
	Limit    int           // Number of records to return (max 1000, default 200)
}

// GetKlines fetches kline data from Bybit and returns it as candles in
// chronological order.
func (c *Client) GetKlines(ctx context.Context, params KlineParams) ([]types.Candle, error) {
	if params.Category == "" {
		params.Category = "spot"
	}
	if params.Limit == 0 {
		params.Limit = 200
	}
	if params.Limit > 1000 {
		params.Limit = 1000
	}

	reqParams := map[string]interface{}{
		"category": params.Category,
		"symbol":   params.Symbol,
		"interval": string(params.Interval),
		"limit":    params.Limit,
	}
	if params.Start != nil {
		reqParams["start"] = params.Start.UnixMilli()
	}
	if params.End != nil {
		reqParams["end"] = params.End.UnixMilli()
	}

	result, err := c.httpClient.NewUtaBybitServiceWithParams(reqParams).GetMarketKline(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get klines: %w", err)
	}

	candles, err := c.parseKlineResponse(result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse kline response: %w", err)
	}
	return candles, nil
}

// parseKlineResponse parses the API response into candles. Bybit
// returns klines newest-first; the output is reversed to chronological
// order.
func (c *Client) parseKlineResponse(response interface{}) ([]types.Candle, error) {
	serverResp, ok := response.(*bybit_api.ServerResponse)
	if !ok {
		return nil, fmt.Errorf("invalid response type")
	}
	if serverResp.RetCode != 0 {
		return nil, fmt.Errorf("API error: %s (code: %d)", serverResp.RetMsg, serverResp.RetCode)
	}

	resultBytes, err := json.Marshal(serverResp.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	var klineResult struct {
		Symbol   string     `json:"symbol"`
		Category string     `json:"category"`
		List     [][]string `json:"list"`
	}
	if err := json.Unmarshal(resultBytes, &klineResult); err != nil {
		return nil, fmt.Errorf("failed to unmarshal kline result: %w", err)
	}

	candles := make([]types.Candle, 0, len(klineResult.List))
	for i := len(klineResult.List) - 1; i >= 0; i-- {
		item := klineResult.List[i]
		if len(item) < 6 {
			continue // Skip incomplete data
		}

		// Bybit kline format: [startTime, open, high, low, close, volume, turnover]
		candles = append(candles, types.Candle{
			Timestamp: time.UnixMilli(parseInt64(item[0])).UTC(),
			Open:      parseFloat64(item[1]),
			High:      parseFloat64(item[2]),
			Low:       parseFloat64(item[3]),
			Close:     parseFloat64(item[4]),
			Volume:    parseFloat64(item[5]),
		})
	}

	return candles, nil
}

func parseInt64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func parseFloat64(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
