// Package news fetches financial news and formats it as chat context.
package news

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/bolsinho/bolsinho/internal/bridge"
)

const (
	fetchSize    = 10
	contextSize  = 5
	descMaxChars = 200
)

type Service struct {
	client *bridge.NewsClient
	logger *logrus.Entry
}

func NewService(client *bridge.NewsClient, logger *logrus.Logger) *Service {
	return &Service{
		client: client,
		logger: logger.WithField("component", "news"),
	}
}

// ContextBlock fetches news for a detected sub-intent and renders the
// bounded text block injected ahead of the chat message. An empty result
// set is an error so the caller degrades to "no context added".
func (s *Service) ContextBlock(ctx context.Context, queryType, query, sector string) (string, error) {
	var (
		articles []bridge.Article
		err      error
	)

	switch queryType {
	case "investment":
		articles, err = s.client.InvestmentNews(ctx, fetchSize)
	case "indicators":
		articles, err = s.client.MarketIndicatorsNews(ctx, fetchSize)
	case "sector":
		if sector == "" {
			sector = "tecnologia"
		}
		articles, err = s.client.SectorNews(ctx, sector, fetchSize)
	case "search":
		if query == "" {
			query = "economia financeiro"
		}
		articles, err = s.client.Search(ctx, query, fetchSize)
	default:
		articles, err = s.client.TopHeadlines(ctx, "business", "br", fetchSize)
	}
	if err != nil {
		return "", err
	}
	if len(articles) == 0 {
		return "", errors.New("news: no articles found")
	}

	return formatBlock(articles), nil
}

func formatBlock(articles []bridge.Article) string {
	if len(articles) > contextSize {
		articles = articles[:contextSize]
	}

	entries := make([]string, 0, len(articles))
	for i, a := range articles {
		title := a.Title
		if title == "" {
			title = "Sem título"
		}
		source := a.Source
		if source == "" {
			source = "Desconhecida"
		}
		published := a.PublishedAt
		if published == "" {
			published = "Data desconhecida"
		}
		url := a.URL
		if url == "" {
			url = "N/A"
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%d. %s\n", i+1, title)
		if a.Description != "" {
			fmt.Fprintf(&b, "   %s...\n", truncate(a.Description, descMaxChars))
		}
		fmt.Fprintf(&b, "   Fonte: %s | Publicado: %s\n", source, published)
		fmt.Fprintf(&b, "   URL: %s", url)
		entries = append(entries, b.String())
	}

	return "\n\n--- NOTÍCIAS FINANCEIRAS ATUAIS ---\n" +
		strings.Join(entries, "\n\n") +
		"\n--- FIM DAS NOTÍCIAS ---\n"
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
