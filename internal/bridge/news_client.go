package bridge

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// Article is one news item as returned by the news service.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
	URL         string `json:"url"`
	Error       string `json:"error"`
}

// NewsClient wraps the news service methods.
type NewsClient struct {
	runner *Runner
}

func NewNewsClient(runner *Runner) *NewsClient {
	return &NewsClient{runner: runner}
}

func (c *NewsClient) invoke(ctx context.Context, method string, args []any) ([]Article, error) {
	raw, err := c.runner.Invoke(ctx, "news", method, args)
	if err != nil {
		return nil, err
	}
	if err := checkEnvelope("news", raw); err != nil {
		return nil, err
	}
	var articles []Article
	if err := json.Unmarshal(raw, &articles); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s response", method)
	}
	// The service reports its own failures as a single error article.
	if len(articles) > 0 && articles[0].Error != "" {
		return nil, &ServiceError{Service: "news", Message: articles[0].Error}
	}
	return articles, nil
}

func (c *NewsClient) TopHeadlines(ctx context.Context, category, country string, pageSize int) ([]Article, error) {
	return c.invoke(ctx, "get_top_headlines", []any{category, country, pageSize})
}

func (c *NewsClient) Search(ctx context.Context, query string, pageSize int) ([]Article, error) {
	return c.invoke(ctx, "search_news", []any{query, map[string]any{
		"language":  "pt",
		"page_size": pageSize,
	}})
}

func (c *NewsClient) InvestmentNews(ctx context.Context, pageSize int) ([]Article, error) {
	return c.invoke(ctx, "get_investment_news", []any{nil, pageSize})
}

func (c *NewsClient) SectorNews(ctx context.Context, sector string, pageSize int) ([]Article, error) {
	return c.invoke(ctx, "get_sector_news", []any{sector, pageSize})
}

func (c *NewsClient) MarketIndicatorsNews(ctx context.Context, pageSize int) ([]Article, error) {
	return c.invoke(ctx, "get_market_indicators_news", []any{pageSize})
}
