package router

import (
	"github.com/gin-gonic/gin"

	"github.com/bolsinho/bolsinho/internal/handler"
)

func registerChatRoutes(router *gin.RouterGroup, chatHandler *handler.ChatHandler, uploadHandler *handler.UploadHandler) {
	chat := router.Group("/chat")
	{
		chat.POST("", chatHandler.SendMessage)
		chat.GET("/history", chatHandler.GetHistory)
	}

	router.POST("/upload", uploadHandler.UploadFile)
}
