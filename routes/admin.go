package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"volunteer-match-server/models"
	"volunteer-match-server/services"
)

func registerAdminRoutes(rg *gin.RouterGroup, h *Handler) {
	users := rg.Group("/users")
	{
		users.GET("", h.adminListUsers)
		users.GET("/:id", h.adminGetUser)
		users.POST("", h.adminCreateUser)
		users.PATCH("/:id", h.adminUpdateUser)
		users.DELETE("/:id", h.adminDeleteUser)
		users.POST("/:id/reset-password", h.adminResetPassword)
	}

	rg.GET("/stats", h.publicStats)
	rg.GET("/activity-logs", h.adminActivityLogs)
	rg.GET("/feedback", h.adminListFeedback)
	rg.GET("/feedback/stats", h.adminFeedbackStats)
}

func (h *Handler) adminListUsers(c *gin.Context) {
	q := services.UserQuery{
		Search: c.Query("search"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 50),
	}
	if raw := c.Query("role"); raw != "" {
		role, err := models.ParseRole(raw)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		q.Role = role
	}
	q.Normalize()

	users, total, err := h.Users.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err, "Failed to fetch users")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
		"page":  q.Page,
		"limit": q.Limit,
	})
}

func (h *Handler) adminGetUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := h.Users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch user")
		return
	}
	c.JSON(http.StatusOK, user.ToResponse())
}

func (h *Handler) adminCreateUser(c *gin.Context) {
	var in models.UserCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	markAction(c, "create_user")

	user, err := h.Users.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, user.ToResponse())
}

func (h *Handler) adminUpdateUser(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in models.UserUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	markAction(c, "update_user")

	user, err := h.Users.Update(c.Request.Context(), p, id, in)
	if err != nil {
		respondError(c, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, user.ToResponse())
}

func (h *Handler) adminDeleteUser(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	markAction(c, "delete_user")

	if err := h.Users.Delete(c.Request.Context(), p, id); err != nil {
		respondError(c, err, "Failed to delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted"})
}

func (h *Handler) adminResetPassword(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in models.PasswordReset
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	markAction(c, "reset_password")

	if err := h.Users.ResetPassword(c.Request.Context(), id, in.Password); err != nil {
		respondError(c, err, "Failed to reset password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated"})
}

func (h *Handler) adminActivityLogs(c *gin.Context) {
	q := services.ActivityQuery{
		UserID: queryUint(c, "user_id"),
		Action: c.Query("action"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 50),
	}
	logs, total, err := h.Activity.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err, "Failed to fetch activity logs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs, "total": total})
}

func (h *Handler) adminListFeedback(c *gin.Context) {
	q := services.FeedbackQuery{
		Rating: queryInt(c, "rating", 0),
		Search: c.Query("search"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 20),
	}
	rows, total, err := h.Feedback.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err, "Failed to fetch feedback")
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": rows, "total": total})
}

func (h *Handler) adminFeedbackStats(c *gin.Context) {
	stats, err := h.Feedback.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch feedback stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
