package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bolsinho/bolsinho/internal/chat"
	"github.com/bolsinho/bolsinho/internal/model"
	"github.com/bolsinho/bolsinho/internal/repository"
)

type ChatHandler struct {
	assembler *chat.Assembler
	finance   repository.FinanceRepository
	logger    *logrus.Entry
}

func NewChatHandler(assembler *chat.Assembler, finance repository.FinanceRepository, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{
		assembler: assembler,
		finance:   finance,
		logger:    logger.WithField("handler", "chat"),
	}
}

type chatRequest struct {
	chat.Request
	UserID uint `json:"user_id"`
}

// SendMessage runs one chat turn. The turn is persisted when a user is
// identified; persistence failures are logged but never fail the reply.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result := h.assembler.Respond(c.Request.Context(), req.Request)

	if req.UserID != 0 && result.Success {
		h.persistTurn(c, req, result)
	}

	c.JSON(http.StatusOK, result)
}

func (h *ChatHandler) persistTurn(c *gin.Context, req chatRequest, result chat.Result) {
	ctx := c.Request.Context()

	userMsg := &model.ChatMessage{UserID: req.UserID, Role: "user", Content: req.Message}
	if len(req.Images) > 0 {
		userMsg.ImageURL = req.Images[0]
	}
	if err := h.finance.CreateChatMessage(ctx, userMsg); err != nil {
		h.logger.WithError(err).Warn("failed to persist user message")
	}

	assistantMsg := &model.ChatMessage{UserID: req.UserID, Role: "assistant", Content: result.Content}
	if err := h.finance.CreateChatMessage(ctx, assistantMsg); err != nil {
		h.logger.WithError(err).Warn("failed to persist assistant message")
	}
}

func (h *ChatHandler) GetHistory(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "user_id is required"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		limit = 50
	}

	messages, err := h.finance.ListChatMessages(c.Request.Context(), uint(userID), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": messages})
}
