package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"volunteer-match-server/models"
	"volunteer-match-server/services"
)

const serviceVersion = "2.0"

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "CSR Volunteer System is running",
		"version": serviceVersion,
	})
}

func (h *Handler) publicStats(c *gin.Context) {
	stats, err := h.Reporting.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// listRequests serves GET /requests and GET /api/help-requests.
func (h *Handler) listRequests(c *gin.Context) {
	filter := services.RequestFilter{
		CategoryID: queryUint(c, "category_id"),
		UserID:     queryUint(c, "user_id"),
		Limit:      queryInt(c, "limit", 0),
	}
	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseRequestStatus(raw)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		filter.Status = status
	}
	h.writeRequestList(c, filter)
}

func (h *Handler) writeRequestList(c *gin.Context, filter services.RequestFilter) {
	rows, err := h.Requests.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to fetch requests")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) listUsers(c *gin.Context) {
	q := services.UserQuery{
		Search: c.Query("search"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 100),
	}
	if raw := c.Query("role"); raw != "" {
		role, err := models.ParseRole(raw)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		q.Role = role
	}
	users, _, err := h.Users.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err, "Failed to fetch users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.Categories.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}
