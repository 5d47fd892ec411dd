package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"volunteer-match-server/models"
)

func registerManagerRoutes(rg *gin.RouterGroup, h *Handler) {
	categories := rg.Group("/categories")
	{
		categories.GET("", h.pmListCategories)
		categories.POST("", h.pmCreateCategory)
		categories.PATCH("/:id", h.pmUpdateCategory)
		categories.DELETE("/:id", h.pmDeleteCategory)
	}

	rg.GET("/requests", h.listRequests)
	rg.POST("/requests/:id/status", h.pmOverrideStatus)

	rg.GET("/analytics", h.pmAnalytics)
	rg.GET("/analytics/:period/:type", h.pmAnalyticsDetail)

	rg.POST("/reports", h.pmGenerateReport)
	rg.GET("/reports", h.pmListReports)
	rg.GET("/reports/:id", h.pmGetReport)
}

func (h *Handler) pmListCategories(c *gin.Context) {
	rows, err := h.Categories.ListWithUsage(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch categories")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) pmCreateCategory(c *gin.Context) {
	var in models.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	markAction(c, "create_category")

	category, err := h.Categories.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "Failed to create category")
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *Handler) pmUpdateCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in models.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	markAction(c, "update_category")

	category, err := h.Categories.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err, "Failed to update category")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *Handler) pmDeleteCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	markAction(c, "delete_category")

	if err := h.Categories.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category deleted"})
}

func (h *Handler) pmOverrideStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	markAction(c, "override_request_status")

	req, err := h.Lifecycle.OverrideStatus(c.Request.Context(), id, body.Status)
	if err != nil {
		respondError(c, err, "Failed to update request status")
		return
	}
	if req.Status == models.RequestStatusCompleted {
		h.Events.RequestCompleted(req)
	} else {
		h.Events.RequestUpdated(req)
	}
	c.JSON(http.StatusOK, req)
}

func (h *Handler) pmAnalytics(c *gin.Context) {
	summary, err := h.Reporting.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load analytics")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) pmAnalyticsDetail(c *gin.Context) {
	detail, err := h.Reporting.Detail(c.Request.Context(), c.Param("period"), c.Param("type"))
	if err != nil {
		respondError(c, err, "Failed to load analytics")
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) pmGenerateReport(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var body struct {
		Type string `json:"type"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	markAction(c, "generate_report")

	report, err := h.Reports.Generate(c.Request.Context(), p, body.Type)
	if err != nil {
		respondError(c, err, "Failed to generate report")
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (h *Handler) pmListReports(c *gin.Context) {
	reports, err := h.Reports.List(c.Request.Context(), c.Query("type"))
	if err != nil {
		respondError(c, err, "Failed to fetch reports")
		return
	}
	c.JSON(http.StatusOK, reports)
}

func (h *Handler) pmGetReport(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	report, err := h.Reports.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch report")
		return
	}
	c.JSON(http.StatusOK, report)
}
