// Package stocks serves quotes through a read-through cache: fresh cache
// short-circuits the fetch, a successful fetch writes through, and a failed
// fetch falls back to whatever cached row exists regardless of age.
package stocks

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bolsinho/bolsinho/internal/bridge"
	"github.com/bolsinho/bolsinho/internal/model"
	"github.com/bolsinho/bolsinho/internal/repository"
)

// Fetcher is the live-data side of the read path. *bridge.StockClient
// satisfies it; tests substitute fakes.
type Fetcher interface {
	Info(ctx context.Context, ticker string) (*bridge.QuoteData, error)
	History(ctx context.Context, ticker, period, interval string) (json.RawMessage, error)
	Variation(ctx context.Context, ticker, period string) (*bridge.VariationData, error)
	Search(ctx context.Context, query string, limit int) ([]bridge.SearchResult, error)
}

// Quote is the major-unit view handed to callers. Cached/Stale tell the
// caller where the data came from.
type Quote struct {
	Ticker           string    `json:"ticker"`
	NormalizedTicker string    `json:"normalized_ticker"`
	Name             string    `json:"name"`
	CurrentPrice     *float64  `json:"current_price"`
	PreviousClose    *float64  `json:"previous_close"`
	Change           *float64  `json:"change"`
	ChangePercent    *float64  `json:"change_percent"`
	DayHigh          *float64  `json:"day_high"`
	DayLow           *float64  `json:"day_low"`
	Volume           *int64    `json:"volume"`
	Currency         string    `json:"currency"`
	Market           string    `json:"market"`
	Sector           string    `json:"sector"`
	Industry         string    `json:"industry"`
	MarketCap        string    `json:"market_cap"`
	Cached           bool      `json:"cached"`
	Stale            bool      `json:"stale"`
	LastUpdated      time.Time `json:"last_updated"`
}

type Service struct {
	repo   repository.StockQuoteRepository
	client Fetcher
	maxAge time.Duration
	logger *logrus.Entry
	now    func() time.Time
}

func NewService(repo repository.StockQuoteRepository, client Fetcher, maxAge time.Duration, logger *logrus.Logger) *Service {
	return &Service{
		repo:   repo,
		client: client,
		maxAge: maxAge,
		logger: logger.WithField("component", "stocks"),
		now:    time.Now,
	}
}

// Quote returns current data for a ticker. Fresh cache is served without
// touching the upstream source; a failed live fetch degrades to the stale
// row when one exists, and only propagates the error when it does not.
func (s *Service) Quote(ctx context.Context, ticker string) (*Quote, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	cached, err := s.repo.Get(ctx, ticker)
	if err != nil {
		s.logger.WithError(err).Warn("cache read failed, falling through to live fetch")
		cached = nil
	}
	if cached != nil && !cached.IsStale(s.maxAge, s.now()) {
		return quoteFromRow(cached, false), nil
	}

	live, fetchErr := s.client.Info(ctx, ticker)
	if fetchErr == nil {
		row := rowFromQuoteData(ticker, live)
		if err := s.repo.Upsert(ctx, row); err != nil {
			s.logger.WithError(err).WithField("ticker", ticker).Warn("write-through failed")
		}
		return quoteFromData(live, s.now()), nil
	}

	if cached != nil {
		s.logger.WithError(fetchErr).WithField("ticker", ticker).
			Warn("live fetch failed, serving stale cache")
		return quoteFromRow(cached, true), nil
	}
	return nil, fetchErr
}

// History returns the opaque history blob for a ticker, applying the same
// cache policy as Quote. A history-only refresh upserts only the blob.
func (s *Service) History(ctx context.Context, ticker, period, interval string) (json.RawMessage, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	cached, err := s.repo.Get(ctx, ticker)
	if err != nil {
		cached = nil
	}
	if cached != nil && cached.HistoryData != nil && !cached.IsStale(s.maxAge, s.now()) {
		return json.RawMessage(*cached.HistoryData), nil
	}

	live, fetchErr := s.client.History(ctx, ticker, period, interval)
	if fetchErr == nil {
		normalized := ""
		if cached != nil {
			normalized = cached.NormalizedTicker
		}
		if err := s.repo.UpsertHistory(ctx, ticker, normalized, string(live)); err != nil {
			s.logger.WithError(err).WithField("ticker", ticker).Warn("history write-through failed")
		}
		return live, nil
	}

	if cached != nil && cached.HistoryData != nil {
		s.logger.WithError(fetchErr).WithField("ticker", ticker).
			Warn("history fetch failed, serving stale cache")
		return json.RawMessage(*cached.HistoryData), nil
	}
	return nil, fetchErr
}

// Variation is a live passthrough; period variations are not cached.
func (s *Service) Variation(ctx context.Context, ticker, period string) (*bridge.VariationData, error) {
	return s.client.Variation(ctx, ticker, period)
}

// Search proxies the static ticker lookup.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]bridge.SearchResult, error) {
	return s.client.Search(ctx, query, limit)
}

func rowFromQuoteData(ticker string, d *bridge.QuoteData) *model.StockQuote {
	return &model.StockQuote{
		Ticker:           ticker,
		NormalizedTicker: d.NormalizedTicker,
		Name:             d.Name,
		CurrentPrice:     model.ToMinorUnits(d.CurrentPrice),
		PreviousClose:    model.ToMinorUnits(d.PreviousClose),
		Change:           model.ToMinorUnits(d.Change),
		ChangePercent:    model.ToMinorUnits(d.ChangePercent),
		DayHigh:          model.ToMinorUnits(d.DayHigh),
		DayLow:           model.ToMinorUnits(d.DayLow),
		Volume:           d.Volume,
		Currency:         d.Currency,
		Market:           d.Market,
		Sector:           d.Sector,
		Industry:         d.Industry,
		MarketCap:        d.MarketCap.String(),
	}
}

func quoteFromRow(row *model.StockQuote, stale bool) *Quote {
	return &Quote{
		Ticker:           row.Ticker,
		NormalizedTicker: row.NormalizedTicker,
		Name:             row.Name,
		CurrentPrice:     model.FromMinorUnits(row.CurrentPrice),
		PreviousClose:    model.FromMinorUnits(row.PreviousClose),
		Change:           model.FromMinorUnits(row.Change),
		ChangePercent:    model.FromMinorUnits(row.ChangePercent),
		DayHigh:          model.FromMinorUnits(row.DayHigh),
		DayLow:           model.FromMinorUnits(row.DayLow),
		Volume:           row.Volume,
		Currency:         row.Currency,
		Market:           row.Market,
		Sector:           row.Sector,
		Industry:         row.Industry,
		MarketCap:        row.MarketCap,
		Cached:           true,
		Stale:            stale,
		LastUpdated:      row.LastUpdated,
	}
}

func quoteFromData(d *bridge.QuoteData, now time.Time) *Quote {
	return &Quote{
		Ticker:           strings.ToUpper(d.Ticker),
		NormalizedTicker: d.NormalizedTicker,
		Name:             d.Name,
		CurrentPrice:     d.CurrentPrice,
		PreviousClose:    d.PreviousClose,
		Change:           d.Change,
		ChangePercent:    d.ChangePercent,
		DayHigh:          d.DayHigh,
		DayLow:           d.DayLow,
		Volume:           d.Volume,
		Currency:         d.Currency,
		Market:           d.Market,
		Sector:           d.Sector,
		Industry:         d.Industry,
		MarketCap:        d.MarketCap.String(),
		LastUpdated:      now,
	}
}
