package cmd

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/bolsinho/bolsinho/configs"
	"github.com/bolsinho/bolsinho/internal/bridge"
	"github.com/bolsinho/bolsinho/internal/calc"
	"github.com/bolsinho/bolsinho/internal/chat"
	"github.com/bolsinho/bolsinho/internal/database"
	"github.com/bolsinho/bolsinho/internal/handler"
	"github.com/bolsinho/bolsinho/internal/news"
	"github.com/bolsinho/bolsinho/internal/repository"
	"github.com/bolsinho/bolsinho/internal/router"
	"github.com/bolsinho/bolsinho/internal/stocks"
	"github.com/bolsinho/bolsinho/internal/tempfiles"
)

var serverCMD = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API server",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := configs.AppLoad()
		logger := configs.NewLogger()

		db, err := database.Connect(cfg.DatabaseDSN)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to database")
		}

		files := tempfiles.NewStore(filepath.Join(os.TempDir(), "bolsinho"))
		if err := files.CleanupOld(time.Hour); err != nil {
			logger.WithError(err).Warn("temp file cleanup failed")
		}

		runner := bridge.NewRunner(cfg.Bridge, logger)
		stockClient := bridge.NewStockClient(runner, bridge.NewPacer(cfg.Bridge.MinInterval))
		stockService := stocks.NewService(
			repository.NewGormStockQuoteRepository(db), stockClient, cfg.StockCacheMaxAge, logger)

		newsService := news.NewService(bridge.NewNewsClient(runner), logger)
		calcService := calc.NewService(bridge.NewCalculatorClient(runner), logger)

		materializer := fileStore{store: files}

		var primary, fallback chat.Backend
		if cfg.Groq.Configured() {
			primary = chat.NewGroqBackend(bridge.NewGroqClient(runner), materializer, logger)
		}
		if cfg.Forge.Configured() {
			fallback = chat.NewForgeBackend(cfg.Forge.APIURL, cfg.Forge.APIKey, cfg.Forge.Model, logger)
		}

		assembler := chat.NewAssembler(
			newsService, stockService, calcService,
			bridge.NewOCRClient(runner), materializer,
			primary, fallback, logger)

		financeRepo := repository.NewGormFinanceRepository(db)

		engine := router.NewRouter(&router.Config{
			ChatHandler:    handler.NewChatHandler(assembler, financeRepo, logger),
			StockHandler:   handler.NewStockHandler(stockService),
			FinanceHandler: handler.NewFinanceHandler(financeRepo),
			UploadHandler:  handler.NewUploadHandler(),
		})

		logger.WithField("port", cfg.ServerPort).Info("starting server")
		if err := engine.Run(":" + cfg.ServerPort); err != nil {
			logger.WithError(err).Fatal("server stopped")
		}
	},
}

// fileStore adapts the temp file store to the chat materializer contract.
type fileStore struct {
	store *tempfiles.Store
}

func (f fileStore) Materialize(ctx context.Context, urlOrData, extension string) (string, func() error, error) {
	file, err := f.store.Materialize(ctx, urlOrData, extension)
	if err != nil {
		return "", nil, err
	}
	return file.Path, file.Close, nil
}

func init() {
	rootCMD.AddCommand(serverCMD)
}
