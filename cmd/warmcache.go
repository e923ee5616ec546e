package cmd

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/spf13/cobra"

	"github.com/bolsinho/bolsinho/configs"
	"github.com/bolsinho/bolsinho/internal/bridge"
	"github.com/bolsinho/bolsinho/internal/database"
	"github.com/bolsinho/bolsinho/internal/repository"
	"github.com/bolsinho/bolsinho/internal/stocks"
)

// popularTickers is the warm set: the most traded B3 papers, cached ahead
// of time so first chat requests are served without a live fetch.
var popularTickers = []string{
	"PETR4",
	"VALE3",
	"ITUB4",
	"BBDC4",
	"ABEV3",
	"WEGE3",
}

const (
	warmDelayBetween   = 5 * time.Second
	warmRateLimitDelay = 10 * time.Second
	warmMaxRetries     = 3
)

var warmcacheCMD = &cobra.Command{
	Use:   "warmcache",
	Short: "Pre-populate the stock quote cache with popular tickers",
	Long: `Fetch live quotes for the most traded B3 tickers and store them
in the cache. Fetches are spaced out and retried with progressive delays
when the upstream source rate-limits.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := configs.AppLoad()
		logger := configs.NewLogger()

		db, err := database.Connect(cfg.DatabaseDSN)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to database")
		}

		runner := bridge.NewRunner(cfg.Bridge, logger)
		stockClient := bridge.NewStockClient(runner, bridge.NewPacer(cfg.Bridge.MinInterval))
		stockService := stocks.NewService(
			repository.NewGormStockQuoteRepository(db), stockClient, cfg.StockCacheMaxAge, logger)

		ctx := context.Background()
		warmed := 0
		for i, ticker := range popularTickers {
			log := logger.WithField("ticker", ticker)
			log.Info("warming cache")

			backoff := retry.WithMaxRetries(warmMaxRetries,
				retry.NewConstant(warmRateLimitDelay))
			err := retry.Do(ctx, backoff, func(ctx context.Context) error {
				_, err := stockService.Quote(ctx, ticker)
				if bridge.IsRateLimited(err) {
					log.Warn("rate limited, backing off")
					return retry.RetryableError(err)
				}
				return err
			})
			if err != nil {
				log.WithError(err).Error("failed to warm ticker")
			} else {
				warmed++
			}

			// History blob stored alongside the quote; a miss here still
			// leaves a usable row, so it only warns.
			if _, err := stockService.History(ctx, ticker, "1mo", "1d"); err != nil {
				log.WithError(err).Warn("failed to warm history")
			}

			if i < len(popularTickers)-1 {
				time.Sleep(warmDelayBetween)
			}
		}

		logger.WithField("warmed", warmed).
			WithField("total", len(popularTickers)).
			Info("cache warm complete")
	},
}

func init() {
	rootCMD.AddCommand(warmcacheCMD)
}
