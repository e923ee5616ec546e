package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bolsinho/bolsinho/internal/model"
	"github.com/bolsinho/bolsinho/internal/repository"
)

type FinanceHandler struct {
	finance repository.FinanceRepository
}

func NewFinanceHandler(finance repository.FinanceRepository) *FinanceHandler {
	return &FinanceHandler{finance: finance}
}

func userIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "user_id is required"})
		return 0, false
	}
	return uint(id), true
}

func dateParam(c *gin.Context, name string) *time.Time {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}

func (h *FinanceHandler) ListTransactions(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	transactions, err := h.finance.ListTransactions(c.Request.Context(), userID,
		dateParam(c, "start_date"), dateParam(c, "end_date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": transactions})
}

func (h *FinanceHandler) CreateTransaction(c *gin.Context) {
	var tx model.Transaction
	if err := c.ShouldBindJSON(&tx); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if tx.UserID == 0 || tx.Description == "" || tx.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "user_id, description and type are required"})
		return
	}
	if tx.Date.IsZero() {
		tx.Date = time.Now()
	}

	if err := h.finance.CreateTransaction(c.Request.Context(), &tx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": tx})
}

func (h *FinanceHandler) UpdateTransaction(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid transaction id"})
		return
	}
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := h.finance.UpdateTransaction(c.Request.Context(), uint(id), userID, updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *FinanceHandler) DeleteTransaction(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid transaction id"})
		return
	}
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	if err := h.finance.DeleteTransaction(c.Request.Context(), uint(id), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *FinanceHandler) ListBudgets(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	budgets, err := h.finance.ListBudgets(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": budgets})
}

func (h *FinanceHandler) CreateBudget(c *gin.Context) {
	var budget model.Budget
	if err := c.ShouldBindJSON(&budget); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if budget.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "user_id is required"})
		return
	}
	if budget.StartDate.IsZero() {
		budget.StartDate = time.Now()
	}

	if err := h.finance.CreateBudget(c.Request.Context(), &budget); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": budget})
}

func (h *FinanceHandler) ListGoals(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	goals, err := h.finance.ListGoals(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": goals})
}

func (h *FinanceHandler) CreateGoal(c *gin.Context) {
	var goal model.Goal
	if err := c.ShouldBindJSON(&goal); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if goal.UserID == 0 || goal.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "user_id and name are required"})
		return
	}

	if err := h.finance.CreateGoal(c.Request.Context(), &goal); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": goal})
}

func (h *FinanceHandler) ListAlerts(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	onlyUnread := c.Query("unread") == "true"

	alerts, err := h.finance.ListAlerts(c.Request.Context(), userID, onlyUnread)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": alerts})
}
