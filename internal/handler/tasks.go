package handler

import (
	"net/http"

	"github.com/calendargpt/calendargpt/internal/domain"
	"github.com/gin-gonic/gin"
)

type createTaskRequest struct {
	UserID string `json:"user_id"`
	domain.Instruction
}

// CreateTask creates a task directly, bypassing the model.
func (h *Handler) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	result := h.tasks.CreateFromInstruction(c.Request.Context(), &req.Instruction, req.UserID)
	writeAPIResult(c, result)
}

// ListTasks lists open tasks for a due-date range.
func (h *Handler) ListTasks(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	dueMin := c.Query("dueMin")
	dueMax := c.Query("dueMax")
	if date := c.Query("date"); date != "" {
		dueMin = date + "T00:00:00Z"
		dueMax = date + "T23:59:59Z"
	}

	tasks, err := h.tasks.List(c.Request.Context(), userID, dueMin, dueMax)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tasks":   tasks,
		"count":   len(tasks),
	})
}

// DeleteTask deletes a task by ID.
func (h *Handler) DeleteTask(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task deleted successfully",
	})
}
