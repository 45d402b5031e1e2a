package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/calendargpt/calendargpt/internal/config"
	"github.com/calendargpt/calendargpt/internal/domain"
	"github.com/calendargpt/calendargpt/internal/service"
	"github.com/gin-gonic/gin"
)

// ExtractFile extracts text from an uploaded document and processes it with
// the model like a typed message.
func (h *Handler) ExtractFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	if fileHeader.Size > config.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	userID := c.PostForm("user_id")
	userMessage := c.PostForm("user_message")

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, config.MaxUploadSize))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	extracted, err := h.extract.ExtractText(fileHeader.Filename, data)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedFileType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.Error("extract file", "error", err, "filename", fileHeader.Filename)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("Failed to extract text from file: %v", err),
		})
		return
	}

	fullText := extracted
	if userMessage != "" {
		fullText = fmt.Sprintf("User message: %s\n\nFile content:\n%s", userMessage, extracted)
	}

	ctx := c.Request.Context()

	var recent []domain.ConversationMessage
	if userID != "" {
		recent, err = h.history.Recent(ctx, userID, config.HistoryContext)
		if err != nil {
			slog.Error("load history", "error", err, "user_id", userID)
		}
	}

	reply := h.callAI(ctx, fullText, recent)

	var apiResult *domain.APIResult
	if userID != "" {
		fileMessage := "Uploaded file: " + fileHeader.Filename
		if userMessage != "" {
			fileMessage += " with message: " + userMessage
		}
		h.recordExchange(ctx, userID, fileMessage, reply)

		apiResult = h.executor.Run(ctx, reply, userID)
	}

	c.JSON(http.StatusOK, domain.ResponsePayload{
		Response:  reply,
		UserReply: service.ExtractUserReply(reply),
		APIResult: apiResult,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
