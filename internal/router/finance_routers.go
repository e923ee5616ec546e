package router

import (
	"github.com/gin-gonic/gin"

	"github.com/bolsinho/bolsinho/internal/handler"
)

func registerFinanceRoutes(router *gin.RouterGroup, financeHandler *handler.FinanceHandler) {
	transactions := router.Group("/transactions")
	{
		transactions.GET("", financeHandler.ListTransactions)
		transactions.POST("", financeHandler.CreateTransaction)
		transactions.PUT("/:id", financeHandler.UpdateTransaction)
		transactions.DELETE("/:id", financeHandler.DeleteTransaction)
	}

	budgets := router.Group("/budgets")
	{
		budgets.GET("", financeHandler.ListBudgets)
		budgets.POST("", financeHandler.CreateBudget)
	}

	goals := router.Group("/goals")
	{
		goals.GET("", financeHandler.ListGoals)
		goals.POST("", financeHandler.CreateGoal)
	}

	router.GET("/alerts", financeHandler.ListAlerts)
}
