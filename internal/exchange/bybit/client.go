package bybit

import (
	bybit_api "github.com/bybit-exchange/bybit.go.api"
)

// Client wraps the Bybit API client for market-data access. The engine
// never talks to an exchange; this client exists so cmd/fetch-data can
// materialize candle history into the CSV layout the data layer reads.
type Client struct {
	httpClient *bybit_api.Client
	testnet    bool
}

// Config holds the configuration for the Bybit client. Public market
// data works with empty credentials.
type Config struct {
	APIKey    string
	APISecret string
	Testnet   bool
}

// NewClient creates a new Bybit client
func NewClient(config Config) *Client {
	baseURL := bybit_api.MAINNET
	if config.Testnet {
		baseURL = bybit_api.TESTNET
	}

	httpClient := bybit_api.NewBybitHttpClient(
		config.APIKey,
		config.APISecret,
		bybit_api.WithBaseURL(baseURL),
	)

	return &Client{
		httpClient: httpClient,
		testnet:    config.Testnet,
	}
}

// IsTestnet returns whether the client targets the testnet
func (c *Client) IsTestnet() bool {
	return c.testnet
}
