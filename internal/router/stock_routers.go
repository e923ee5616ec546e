package router

import (
	"github.com/gin-gonic/gin"

	"github.com/bolsinho/bolsinho/internal/handler"
)

func registerStockRoutes(router *gin.RouterGroup, stockHandler *handler.StockHandler) {
	stocks := router.Group("/stocks")
	{
		stocks.GET("/search", stockHandler.Search)
		stocks.GET("/:ticker", stockHandler.GetQuote)
		stocks.GET("/:ticker/history", stockHandler.GetHistory)
		stocks.GET("/:ticker/variation", stockHandler.GetVariation)
	}
}
