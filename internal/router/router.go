package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bolsinho/bolsinho/internal/handler"
)

type Config struct {
	ChatHandler    *handler.ChatHandler
	StockHandler   *handler.StockHandler
	FinanceHandler *handler.FinanceHandler
	UploadHandler  *handler.UploadHandler
}

func NewRouter(cfg *Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	registerChatRoutes(api, cfg.ChatHandler, cfg.UploadHandler)
	registerStockRoutes(api, cfg.StockHandler)
	registerFinanceRoutes(api, cfg.FinanceHandler)

	return router
}
