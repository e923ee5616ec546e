package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bolsinho/bolsinho/internal/bridge"
	"github.com/bolsinho/bolsinho/internal/stocks"
)

type StockHandler struct {
	stocks *stocks.Service
}

func NewStockHandler(service *stocks.Service) *StockHandler {
	return &StockHandler{stocks: service}
}

// stockError is the explicit failure shape callers must check. Failures
// still come back as HTTP 200; rate_limited propagates untouched from
// the upstream source.
func stockError(c *gin.Context, err error) {
	c.JSON(http.StatusOK, gin.H{
		"success":      false,
		"error":        err.Error(),
		"rate_limited": bridge.IsRateLimited(err),
	})
}

func (h *StockHandler) GetQuote(c *gin.Context) {
	quote, err := h.stocks.Quote(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		stockError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": quote})
}

func (h *StockHandler) GetHistory(c *gin.Context) {
	period := c.DefaultQuery("period", "1mo")
	interval := c.DefaultQuery("interval", "1d")

	history, err := h.stocks.History(c.Request.Context(), c.Param("ticker"), period, interval)
	if err != nil {
		stockError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": history})
}

func (h *StockHandler) GetVariation(c *gin.Context) {
	period := c.DefaultQuery("period", "1mo")

	variation, err := h.stocks.Variation(c.Request.Context(), c.Param("ticker"), period)
	if err != nil {
		stockError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": variation})
}

func (h *StockHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "query parameter q is required"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}

	results, err := h.stocks.Search(c.Request.Context(), query, limit)
	if err != nil {
		stockError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": results})
}
