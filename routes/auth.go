package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"volunteer-match-server/models"
)

// login authenticates by email and password and returns the user with a token pair.
func (h *Handler) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	markAction(c, "login")

	user, tokens, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		respondError(c, err, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"user":    user.ToResponse(),
		"tokens":  tokens,
	})
}

func (h *Handler) refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if !bindOptionalJSON(c, &req) {
		return
	}

	tokens, err := h.Auth.RefreshAccessToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err, "Failed to refresh token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tokens": tokens})
}

// logout revokes the refresh token if one is given. It always succeeds.
func (h *Handler) logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if c.Request.ContentLength > 0 {
		_ = c.ShouldBindJSON(&req)
	}
	markAction(c, "logout")

	if err := h.Auth.RevokeRefreshToken(c.Request.Context(), req.RefreshToken); err != nil {
		log.Printf("⚠️ Logout could not revoke token: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

func (h *Handler) me(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	user, err := h.Users.Get(c.Request.Context(), p.UserID)
	if err != nil {
		respondError(c, err, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user.ToResponse()})
}
