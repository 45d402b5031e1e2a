package handler

import (
	"net/http"

	"github.com/calendargpt/calendargpt/internal/domain"
	"github.com/gin-gonic/gin"
)

type createEventRequest struct {
	UserID string `json:"user_id"`
	domain.Instruction
}

// CreateEvent creates a calendar event directly, bypassing the model.
func (h *Handler) CreateEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	result := h.calendar.CreateFromInstruction(c.Request.Context(), &req.Instruction, req.UserID)
	writeAPIResult(c, result)
}

// ListEvents lists calendar events for a date range.
func (h *Handler) ListEvents(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	timeMin := c.Query("timeMin")
	timeMax := c.Query("timeMax")
	if date := c.Query("date"); date != "" {
		timeMin = date + "T00:00:00Z"
		timeMax = date + "T23:59:59Z"
	}

	events, err := h.calendar.List(c.Request.Context(), userID, timeMin, timeMax)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"events":  events,
		"count":   len(events),
	})
}

// DeleteEvent deletes a calendar event by ID.
func (h *Handler) DeleteEvent(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	if err := h.calendar.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Event deleted successfully",
	})
}

func writeAPIResult(c *gin.Context, result *domain.APIResult) {
	if !result.Success {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error})
		return
	}
	c.JSON(http.StatusOK, result)
}
