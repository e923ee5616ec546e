package stocks

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bolsinho/bolsinho/internal/bridge"
	"github.com/bolsinho/bolsinho/internal/model"
)

type fakeRepo struct {
	rows           map[string]*model.StockQuote
	upserts        int
	historyUpserts int
	clock          func() time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[string]*model.StockQuote)}
}

func (r *fakeRepo) stamp() time.Time {
	if r.clock != nil {
		return r.clock()
	}
	return time.Now()
}

func (r *fakeRepo) Get(ctx context.Context, ticker string) (*model.StockQuote, error) {
	row, ok := r.rows[ticker]
	if !ok {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

func (r *fakeRepo) Upsert(ctx context.Context, row *model.StockQuote) error {
	r.upserts++
	row.LastUpdated = r.stamp()
	if existing, ok := r.rows[row.Ticker]; ok && row.HistoryData == nil {
		row.HistoryData = existing.HistoryData
	}
	r.rows[row.Ticker] = row
	return nil
}

func (r *fakeRepo) UpsertHistory(ctx context.Context, ticker, normalized, history string) error {
	r.historyUpserts++
	row, ok := r.rows[ticker]
	if !ok {
		row = &model.StockQuote{Ticker: ticker}
		r.rows[ticker] = row
	}
	row.HistoryData = &history
	row.LastUpdated = r.stamp()
	return nil
}

func (r *fakeRepo) IsStale(ctx context.Context, ticker string, maxAge time.Duration) (bool, error) {
	row, ok := r.rows[ticker]
	if !ok {
		return true, nil
	}
	return row.IsStale(maxAge, time.Now()), nil
}

type fakeFetcher struct {
	quote   *bridge.QuoteData
	err     error
	history json.RawMessage
	calls   int
}

func (f *fakeFetcher) Info(ctx context.Context, ticker string) (*bridge.QuoteData, error) {
	f.calls++
	return f.quote, f.err
}

func (f *fakeFetcher) History(ctx context.Context, ticker, period, interval string) (json.RawMessage, error) {
	f.calls++
	return f.history, f.err
}

func (f *fakeFetcher) Variation(ctx context.Context, ticker, period string) (*bridge.VariationData, error) {
	return nil, f.err
}

func (f *fakeFetcher) Search(ctx context.Context, query string, limit int) ([]bridge.SearchResult, error) {
	return nil, f.err
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func floatPtr(v float64) *float64 { return &v }

func liveQuote(price float64) *bridge.QuoteData {
	return &bridge.QuoteData{
		Ticker:           "PETR4",
		NormalizedTicker: "PETR4.SA",
		Name:             "Petrobras",
		CurrentPrice:     floatPtr(price),
		Currency:         "BRL",
	}
}

func TestQuoteFreshCacheShortCircuits(t *testing.T) {
	repo := newFakeRepo()
	repo.rows["PETR4"] = &model.StockQuote{
		Ticker:       "PETR4",
		CurrentPrice: model.ToMinorUnits(floatPtr(38.50)),
		LastUpdated:  time.Now(),
	}
	fetcher := &fakeFetcher{err: errors.New("must not be called")}
	s := NewService(repo, fetcher, 15*time.Minute, testLogger())

	quote, err := s.Quote(context.Background(), "petr4")
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	if fetcher.calls != 0 {
		t.Error("Fresh cache must not trigger a live fetch")
	}
	if !quote.Cached || quote.Stale {
		t.Errorf("Expected fresh cached quote, got cached=%v stale=%v", quote.Cached, quote.Stale)
	}
	if quote.CurrentPrice == nil || *quote.CurrentPrice != 38.50 {
		t.Errorf("Expected price 38.50 back in major units, got %v", quote.CurrentPrice)
	}
}

func TestQuoteStaleCacheTriggersFetchAndWriteThrough(t *testing.T) {
	repo := newFakeRepo()
	repo.rows["PETR4"] = &model.StockQuote{
		Ticker:      "PETR4",
		LastUpdated: time.Now().Add(-time.Hour),
	}
	fetcher := &fakeFetcher{quote: liveQuote(40.10)}
	s := NewService(repo, fetcher, 15*time.Minute, testLogger())

	quote, err := s.Quote(context.Background(), "PETR4")
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("Expected one live fetch, got %d", fetcher.calls)
	}
	if repo.upserts != 1 {
		t.Errorf("Expected write-through upsert, got %d", repo.upserts)
	}
	if quote.Cached {
		t.Error("Live result must not be flagged as cached")
	}
	if quote.CurrentPrice == nil || *quote.CurrentPrice != 40.10 {
		t.Errorf("Expected live price 40.10, got %v", quote.CurrentPrice)
	}
}

func TestQuoteMissTriggersFetch(t *testing.T) {
	repo := newFakeRepo()
	fetcher := &fakeFetcher{quote: liveQuote(12.34)}
	s := NewService(repo, fetcher, 15*time.Minute, testLogger())

	if _, err := s.Quote(context.Background(), "PETR4"); err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	if repo.upserts != 1 {
		t.Error("First successful fetch must create the cache row")
	}

	row := repo.rows["PETR4"]
	if row == nil {
		t.Fatal("Expected a cached row after the fetch")
	}
	if row.CurrentPrice == nil || *row.CurrentPrice != 1234 {
		t.Errorf("Expected price persisted as minor units 1234, got %v", row.CurrentPrice)
	}
}

func TestQuoteServesStaleOnFetchFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.rows["PETR4"] = &model.StockQuote{
		Ticker:       "PETR4",
		CurrentPrice: model.ToMinorUnits(floatPtr(35.00)),
		LastUpdated:  time.Now().Add(-24 * time.Hour),
	}
	fetcher := &fakeFetcher{err: errors.New("upstream down")}
	s := NewService(repo, fetcher, 15*time.Minute, testLogger())

	quote, err := s.Quote(context.Background(), "PETR4")
	if err != nil {
		t.Fatalf("Stale row must be served when the fetch fails, got error: %v", err)
	}
	if !quote.Stale {
		t.Error("Expected the quote flagged as stale")
	}
	if quote.CurrentPrice == nil || *quote.CurrentPrice != 35.00 {
		t.Errorf("Expected stale price 35.00, got %v", quote.CurrentPrice)
	}
}

func TestQuotePropagatesErrorWithoutCache(t *testing.T) {
	repo := newFakeRepo()
	rateErr := &bridge.ServiceError{Service: "stock", Message: "too many requests", RateLimited: true}
	fetcher := &fakeFetcher{err: rateErr}
	s := NewService(repo, fetcher, 15*time.Minute, testLogger())

	_, err := s.Quote(context.Background(), "XPTO3")
	if err == nil {
		t.Fatal("Expected the fetch error to propagate with no cached fallback")
	}
	if !bridge.IsRateLimited(err) {
		t.Error("Rate limit flag must survive propagation")
	}
}

func TestHistoryFreshCacheShortCircuits(t *testing.T) {
	blob := `{"prices":[1,2,3]}`
	repo := newFakeRepo()
	repo.rows["VALE3"] = &model.StockQuote{
		Ticker:      "VALE3",
		HistoryData: &blob,
		LastUpdated: time.Now(),
	}
	fetcher := &fakeFetcher{err: errors.New("must not be called")}
	s := NewService(repo, fetcher, 15*time.Minute, testLogger())

	history, err := s.History(context.Background(), "VALE3", "1mo", "1d")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if string(history) != blob {
		t.Errorf("Expected cached blob, got %s", history)
	}
	if fetcher.calls != 0 {
		t.Error("Fresh history must not trigger a live fetch")
	}
}

func TestHistoryWriteThroughIsPartial(t *testing.T) {
	repo := newFakeRepo()
	fetcher := &fakeFetcher{history: json.RawMessage(`{"prices":[4,5]}`)}
	s := NewService(repo, fetcher, 15*time.Minute, testLogger())

	if _, err := s.History(context.Background(), "VALE3", "1mo", "1d"); err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if repo.historyUpserts != 1 {
		t.Errorf("Expected one history upsert, got %d", repo.historyUpserts)
	}
	if repo.upserts != 0 {
		t.Error("History refresh must not run a full upsert")
	}
}

func TestRepeatedRefreshSameDataOnlyAdvancesTimestamp(t *testing.T) {
	repo := newFakeRepo()
	fetcher := &fakeFetcher{quote: liveQuote(40.10)}
	s := NewService(repo, fetcher, 15*time.Minute, testLogger())

	base := time.Now()
	s.now = func() time.Time { return base }
	repo.clock = s.now
	if _, err := s.Quote(context.Background(), "PETR4"); err != nil {
		t.Fatalf("First refresh failed: %v", err)
	}
	first := *repo.rows["PETR4"]

	later := base.Add(time.Hour)
	s.now = func() time.Time { return later }
	repo.clock = s.now
	if _, err := s.Quote(context.Background(), "PETR4"); err != nil {
		t.Fatalf("Second refresh failed: %v", err)
	}
	second := *repo.rows["PETR4"]

	if !second.LastUpdated.After(first.LastUpdated) {
		t.Errorf("Expected last_updated to advance, got %v then %v",
			first.LastUpdated, second.LastUpdated)
	}
	first.LastUpdated, second.LastUpdated = time.Time{}, time.Time{}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Identical data must leave every other column unchanged:\nfirst  %+v\nsecond %+v",
			first, second)
	}
}

func TestLiveQuoteStampedWithServiceClock(t *testing.T) {
	repo := newFakeRepo()
	fetcher := &fakeFetcher{quote: liveQuote(12.34)}
	s := NewService(repo, fetcher, 15*time.Minute, testLogger())

	base := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	quote, err := s.Quote(context.Background(), "PETR4")
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	if !quote.LastUpdated.Equal(base) {
		t.Errorf("Expected live quote stamped %v, got %v", base, quote.LastUpdated)
	}
}

func TestQuoteThenHistoryBuildsFullRow(t *testing.T) {
	repo := newFakeRepo()
	fetcher := &fakeFetcher{
		quote:   liveQuote(40.10),
		history: json.RawMessage(`{"prices":[1,2,3]}`),
	}
	s := NewService(repo, fetcher, 15*time.Minute, testLogger())

	if _, err := s.Quote(context.Background(), "PETR4"); err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	if _, err := s.History(context.Background(), "PETR4", "1mo", "1d"); err != nil {
		t.Fatalf("History failed: %v", err)
	}

	row := repo.rows["PETR4"]
	if row == nil {
		t.Fatal("Expected a cached row after warming")
	}
	if row.CurrentPrice == nil || *row.CurrentPrice != 4010 {
		t.Errorf("Expected price kept on the row, got %v", row.CurrentPrice)
	}
	if row.HistoryData == nil || *row.HistoryData != `{"prices":[1,2,3]}` {
		t.Errorf("Expected history blob stored alongside the quote, got %v", row.HistoryData)
	}
}

func TestHistoryServesStaleOnFetchFailure(t *testing.T) {
	blob := `{"prices":[9]}`
	repo := newFakeRepo()
	repo.rows["VALE3"] = &model.StockQuote{
		Ticker:      "VALE3",
		HistoryData: &blob,
		LastUpdated: time.Now().Add(-48 * time.Hour),
	}
	fetcher := &fakeFetcher{err: errors.New("upstream down")}
	s := NewService(repo, fetcher, 15*time.Minute, testLogger())

	history, err := s.History(context.Background(), "VALE3", "1mo", "1d")
	if err != nil {
		t.Fatalf("Stale history must be served when the fetch fails: %v", err)
	}
	if string(history) != blob {
		t.Errorf("Expected stale blob, got %s", history)
	}
}
