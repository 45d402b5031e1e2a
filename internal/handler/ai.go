package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/calendargpt/calendargpt/internal/config"
	"github.com/calendargpt/calendargpt/internal/domain"
	"github.com/calendargpt/calendargpt/internal/service"
	"github.com/gin-gonic/gin"
)

type initRequest struct {
	UserID string `json:"user_id"`
}

// InitAI primes the model with the system prompt when a user first loads the
// app and returns its greeting.
func (h *Handler) InitAI(c *gin.Context) {
	var req initRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	reply := h.callAI(c.Request.Context(), "SESSION_START", nil)

	c.JSON(http.StatusOK, gin.H{
		"response":   reply,
		"user_reply": service.ExtractUserReply(reply),
		"user_id":    req.UserID,
		"timestamp":  time.Now().Format(time.RFC3339),
	})
}

type processRequest struct {
	Text   string `json:"text"`
	UserID string `json:"user_id"`
}

// ProcessText runs the full pipeline: history context, model call,
// instruction execution, history write-back.
func (h *Handler) ProcessText(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	ctx := c.Request.Context()

	recent, err := h.history.Recent(ctx, req.UserID, config.HistoryContext)
	if err != nil {
		slog.Error("load history", "error", err, "user_id", req.UserID)
	}

	reply := h.callAI(ctx, req.Text, recent)

	h.recordExchange(ctx, req.UserID, req.Text, reply)

	apiResult := h.executor.Run(ctx, reply, req.UserID)
	if apiResult.Success {
		slog.Info("instruction executed", "user_id", req.UserID, "message", apiResult.Message)
	} else {
		slog.Warn("instruction failed", "user_id", req.UserID, "error", apiResult.Error)
	}

	c.JSON(http.StatusOK, domain.ResponsePayload{
		Response:  reply,
		UserReply: service.ExtractUserReply(reply),
		APIResult: apiResult,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// callAI never fails upward: model errors become a readable reply so the
// conversation always has something to show.
func (h *Handler) callAI(ctx context.Context, text string, history []domain.ConversationMessage) string {
	reply, err := h.ai.Process(ctx, text, history)
	if err != nil {
		slog.Error("ai process", "error", err)
		return "Error: Failed to get response from AI model: " + err.Error()
	}
	return reply
}

func (h *Handler) recordExchange(ctx context.Context, userID, userText, reply string) {
	if err := h.history.Append(ctx, userID, userText, true); err != nil {
		slog.Error("append user message", "error", err, "user_id", userID)
	}
	if err := h.history.Append(ctx, userID, reply, false); err != nil {
		slog.Error("append ai reply", "error", err, "user_id", userID)
	}
	if err := h.history.Trim(ctx, userID, config.HistoryKeep); err != nil {
		slog.Error("trim history", "error", err, "user_id", userID)
	}
}
