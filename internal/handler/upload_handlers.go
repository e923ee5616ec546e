package handler

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct{}

func NewUploadHandler() *UploadHandler {
	return &UploadHandler{}
}

type uploadRequest struct {
	File     string `json:"file" binding:"required"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type" binding:"required"`
}

// UploadFile accepts a base64-encoded attachment and returns a data URL
// the chat endpoint can carry. Only the attachment types the assistant
// understands are accepted.
func (h *UploadHandler) UploadFile(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	isImage := strings.HasPrefix(req.MimeType, "image/")
	isAudio := strings.HasPrefix(req.MimeType, "audio/")
	isPDF := req.MimeType == "application/pdf"
	if !isImage && !isAudio && !isPDF {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Tipo de arquivo não suportado. Apenas imagens, áudio e PDFs são permitidos.",
		})
		return
	}

	if _, err := base64.StdEncoding.DecodeString(req.File); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid base64 payload"})
		return
	}

	url := fmt.Sprintf("data:%s;base64,%s", req.MimeType, req.File)
	c.JSON(http.StatusOK, gin.H{"success": true, "url": url, "filename": req.Filename})
}
