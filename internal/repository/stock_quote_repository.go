package repository

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bolsinho/bolsinho/internal/model"
)

// StockQuoteRepository is the persistence contract for the quote cache.
// Upsert is insert-or-update keyed by ticker; rows are never deleted, a
// stale row is kept around as last-resort fallback data.
type StockQuoteRepository interface {
	// Get returns the snapshot for a ticker, or nil when none exists.
	Get(ctx context.Context, ticker string) (*model.StockQuote, error)

	// Upsert writes a full snapshot refresh. All quote columns are
	// replaced (nil pointers persist as NULL); HistoryData is only
	// touched when the refresh carries one. LastUpdated is always set.
	Upsert(ctx context.Context, quote *model.StockQuote) error

	// UpsertHistory writes a history-only refresh, leaving the price
	// columns of an existing row untouched.
	UpsertHistory(ctx context.Context, ticker, normalizedTicker, historyData string) error

	// IsStale reports whether the cached row is older than maxAge.
	// A missing row is always stale.
	IsStale(ctx context.Context, ticker string, maxAge time.Duration) (bool, error)
}

type gormStockQuoteRepository struct {
	db *gorm.DB
}

func NewGormStockQuoteRepository(db *gorm.DB) StockQuoteRepository {
	return &gormStockQuoteRepository{db: db}
}

func normalizeKey(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

func (r *gormStockQuoteRepository) Get(ctx context.Context, ticker string) (*model.StockQuote, error) {
	var quote model.StockQuote
	err := r.db.WithContext(ctx).Where("ticker = ?", normalizeKey(ticker)).First(&quote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load quote for %s", ticker)
	}
	return &quote, nil
}

func (r *gormStockQuoteRepository) Upsert(ctx context.Context, quote *model.StockQuote) error {
	quote.Ticker = normalizeKey(quote.Ticker)
	quote.LastUpdated = time.Now()

	assignments := []string{
		"normalized_ticker", "name", "current_price", "previous_close",
		"change", "change_percent", "day_high", "day_low", "volume",
		"currency", "market", "sector", "industry", "market_cap",
		"last_updated",
	}
	if quote.HistoryData != nil {
		assignments = append(assignments, "history_data")
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticker"}},
		DoUpdates: clause.AssignmentColumns(assignments),
	}).Create(quote).Error
	if err != nil {
		return errors.Wrapf(err, "failed to upsert quote for %s", quote.Ticker)
	}
	return nil
}

func (r *gormStockQuoteRepository) UpsertHistory(ctx context.Context, ticker, normalizedTicker, historyData string) error {
	quote := &model.StockQuote{
		Ticker:           normalizeKey(ticker),
		NormalizedTicker: normalizedTicker,
		HistoryData:      &historyData,
		LastUpdated:      time.Now(),
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticker"}},
		DoUpdates: clause.AssignmentColumns([]string{"history_data", "last_updated"}),
	}).Create(quote).Error
	if err != nil {
		return errors.Wrapf(err, "failed to upsert history for %s", ticker)
	}
	return nil
}

func (r *gormStockQuoteRepository) IsStale(ctx context.Context, ticker string, maxAge time.Duration) (bool, error) {
	quote, err := r.Get(ctx, ticker)
	if err != nil {
		return true, err
	}
	if quote == nil {
		return true, nil
	}
	return quote.IsStale(maxAge, time.Now()), nil
}
