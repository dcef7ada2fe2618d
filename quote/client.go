// quote/client.go
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantagri/agritrack/market"
)

// DefaultBaseURL is the public Yahoo Finance quote host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// DefaultTimeout bounds one quote request.
const DefaultTimeout = 30 * time.Second

// Client fetches the latest close prices from the Yahoo Finance chart
// API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a quote client. An empty baseURL selects the public
// endpoint; a zero timeout selects DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// chartResponse is the subset of the chart API payload we read.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Latest returns the most recent market price for one ticker symbol,
// rounded to two decimals the way the upstream close is quoted.
func (c *Client) Latest(ctx context.Context, symbol string) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("range", "1d")

	apiURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "agritrack/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return decimal.Zero, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResp chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return decimal.Zero, fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Chart.Error != nil {
		return decimal.Zero, fmt.Errorf("chart error %s: %s", apiResp.Chart.Error.Code, apiResp.Chart.Error.Description)
	}
	if len(apiResp.Chart.Result) == 0 {
		return decimal.Zero, fmt.Errorf("no data for %s", symbol)
	}

	price := apiResp.Chart.Result[0].Meta.RegularMarketPrice
	if price <= 0 {
		return decimal.Zero, fmt.Errorf("no price for %s", symbol)
	}
	return decimal.NewFromFloat(price).Round(2), nil
}

// Fetch resolves the latest price for each instrument. A failed
// instrument is logged and left out of the snapshot; it never aborts
// the rest of the batch.
func (c *Client) Fetch(ctx context.Context, instruments []market.Instrument) market.Snapshot {
	snap := make(market.Snapshot, len(instruments))
	for _, in := range instruments {
		meta := market.Instruments[in]
		price, err := c.Latest(ctx, meta.Symbol)
		if err != nil {
			log.Printf("warn: fetch %s (%s): %v", in, meta.Symbol, err)
			continue
		}
		snap[in] = price
	}
	return snap
}
