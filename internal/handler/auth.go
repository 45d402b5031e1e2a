package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/calendargpt/calendargpt/internal/domain"
	"github.com/gin-gonic/gin"
)

// CheckCredentials reports whether a user has a stored Google credential.
func (h *Handler) CheckCredentials(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	has, err := h.creds.Has(c.Request.Context(), userID)
	if err != nil {
		slog.Error("check credentials", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"has_credentials": has,
		"user_id":         userID,
	})
}

type credentialsRequest struct {
	UserID       string     `json:"user_id"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ClientID     string     `json:"client_id"`
	Scopes       []string   `json:"scopes"`
	Expiry       *time.Time `json:"expiry"`
}

// StoreCredentials replaces the user's credential record. The response is
// sent only after the row is committed, so a caller that stores tokens
// through this endpoint can issue its first AI call immediately.
func (h *Handler) StoreCredentials(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" || req.AccessToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and access_token are required"})
		return
	}

	cred := &domain.Credential{
		UserID:       req.UserID,
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		ClientID:     req.ClientID,
		Scopes:       req.Scopes,
		Expiry:       req.Expiry,
	}
	if err := h.creds.Replace(c.Request.Context(), cred); err != nil {
		slog.Error("store credentials", "error", err, "user_id", req.UserID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "stored", "user_id": req.UserID})
}

// SignOut acknowledges a client sign-out. Tokens stay in place so a later
// sign-in for the same user replaces them wholesale.
func (h *Handler) SignOut(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "signed_out"})
}
