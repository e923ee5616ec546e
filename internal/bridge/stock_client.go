package bridge

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// QuoteData mirrors the stock service's get_stock_info response.
// Numeric fields are pointers: the upstream source omits values it could
// not determine and those must persist as NULL, not zero.
type QuoteData struct {
	Ticker           string      `json:"ticker"`
	NormalizedTicker string      `json:"normalized_ticker"`
	Name             string      `json:"name"`
	CurrentPrice     *float64    `json:"current_price"`
	PreviousClose    *float64    `json:"previous_close"`
	Change           *float64    `json:"change"`
	ChangePercent    *float64    `json:"change_percent"`
	DayHigh          *float64    `json:"day_high"`
	DayLow           *float64    `json:"day_low"`
	Volume           *int64      `json:"volume"`
	Currency         string      `json:"currency"`
	Market           string      `json:"market"`
	Sector           string      `json:"sector"`
	Industry         string      `json:"industry"`
	MarketCap        json.Number `json:"market_cap"`
	Timestamp        string      `json:"timestamp"`
}

// VariationData mirrors get_stock_variation.
type VariationData struct {
	Ticker           string   `json:"ticker"`
	NormalizedTicker string   `json:"normalized_ticker"`
	Name             string   `json:"name"`
	Period           string   `json:"period"`
	StartPrice       *float64 `json:"start_price"`
	EndPrice         *float64 `json:"end_price"`
	Change           *float64 `json:"change"`
	ChangePercent    *float64 `json:"change_percent"`
	Currency         string   `json:"currency"`
}

// SearchResult mirrors one search_stocks hit.
type SearchResult struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
	Market string `json:"market"`
}

type searchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}

// StockClient wraps the stock service. All outbound fetches are paced by
// an injected limiter so bursts of tickers do not trip the upstream
// source's request limits.
type StockClient struct {
	runner  *Runner
	limiter *rate.Limiter
}

// NewStockClient builds a paced client. Use NewPacer for the limiter so
// spacing stays consistent across every caller sharing the client.
func NewStockClient(runner *Runner, limiter *rate.Limiter) *StockClient {
	return &StockClient{runner: runner, limiter: limiter}
}

// NewPacer builds the limiter that spaces outbound stock fetches: one
// token per minInterval, burst of one.
func NewPacer(minInterval time.Duration) *rate.Limiter {
	return rate.NewLimiter(rate.Every(minInterval), 1)
}

func (c *StockClient) invoke(ctx context.Context, method string, args []any) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "stock fetch pacing interrupted")
	}
	raw, err := c.runner.Invoke(ctx, "stock", method, args)
	if err != nil {
		return nil, err
	}
	if err := checkEnvelope("stock", raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *StockClient) Info(ctx context.Context, ticker string) (*QuoteData, error) {
	raw, err := c.invoke(ctx, "get_stock_info", []any{ticker})
	if err != nil {
		return nil, err
	}
	var quote QuoteData
	if err := json.Unmarshal(raw, &quote); err != nil {
		return nil, errors.Wrap(err, "failed to decode stock info")
	}
	return &quote, nil
}

// History returns the raw history payload. The cache stores it as an
// opaque blob, so no intermediate struct is forced on it here.
func (c *StockClient) History(ctx context.Context, ticker, period, interval string) (json.RawMessage, error) {
	return c.invoke(ctx, "get_stock_history", []any{ticker, period, interval})
}

func (c *StockClient) Variation(ctx context.Context, ticker, period string) (*VariationData, error) {
	raw, err := c.invoke(ctx, "get_stock_variation", []any{ticker, period})
	if err != nil {
		return nil, err
	}
	var variation VariationData
	if err := json.Unmarshal(raw, &variation); err != nil {
		return nil, errors.Wrap(err, "failed to decode stock variation")
	}
	return &variation, nil
}

func (c *StockClient) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	raw, err := c.invoke(ctx, "search_stocks", []any{query, limit})
	if err != nil {
		return nil, err
	}
	var resp searchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to decode stock search")
	}
	return resp.Results, nil
}
