package routes

import (
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"volunteer-match-server/middleware"
	"volunteer-match-server/models"
	"volunteer-match-server/services"
)

func registerHelpRequestRoutes(rg *gin.RouterGroup, h *Handler) {
	rg.GET("", h.listRequests)
	rg.GET("/open", h.listOpenRequests)
	rg.GET("/user/:userId", h.listUserRequests)
	rg.GET("/:id", h.getRequest)
	rg.POST("", middleware.RequireRoles(models.RolePIN, models.RolePlatformManager, models.RoleAdmin), h.createRequest)
	rg.PATCH("/:id", h.updateRequest)
	rg.DELETE("/:id", h.deleteRequest)
	rg.POST("/:id/feedback", h.submitFeedback)
	rg.GET("/:id/feedback", h.getFeedback)
	rg.POST("/:id/photo", h.uploadPhoto)
}

func (h *Handler) listOpenRequests(c *gin.Context) {
	h.writeRequestList(c, services.RequestFilter{
		Status:     models.RequestStatusOpen,
		CategoryID: queryUint(c, "category_id"),
	})
}

func (h *Handler) listUserRequests(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	h.writeRequestList(c, services.RequestFilter{UserID: userID})
}

func (h *Handler) getRequest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	req, err := h.Requests.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch request")
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h *Handler) createRequest(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in models.HelpRequestCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	markAction(c, "create_request")

	req, err := h.Requests.Create(c.Request.Context(), p, in)
	if err != nil {
		respondError(c, err, "Failed to create request")
		return
	}
	log.Printf("✅ Help request %d created for user %d", req.ID, req.UserID)
	h.Events.RequestCreated(req)
	c.JSON(http.StatusCreated, req)
}

func (h *Handler) updateRequest(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in models.HelpRequestUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	markAction(c, "update_request")

	req, err := h.Requests.Update(c.Request.Context(), p, id, in)
	if err != nil {
		respondError(c, err, "Failed to update request")
		return
	}
	h.Events.RequestUpdated(req)
	c.JSON(http.StatusOK, req)
}

func (h *Handler) deleteRequest(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	markAction(c, "delete_request")

	if err := h.Requests.Delete(c.Request.Context(), p, id); err != nil {
		respondError(c, err, "Failed to delete request")
		return
	}
	h.Events.RequestDeleted(id)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Request deleted"})
}

func (h *Handler) submitFeedback(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in models.FeedbackInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	markAction(c, "submit_feedback")

	fb, err := h.Requests.SubmitFeedback(c.Request.Context(), p, id, in)
	if err != nil {
		respondError(c, err, "Failed to save feedback")
		return
	}
	c.JSON(http.StatusCreated, fb)
}

func (h *Handler) getFeedback(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	fb, err := h.Requests.GetFeedback(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch feedback")
		return
	}
	c.JSON(http.StatusOK, fb)
}

// validateImageFile accepts jpg, png and webp files up to 5MB
func validateImageFile(header *multipart.FileHeader) bool {
	if header == nil || header.Size <= 0 || header.Size > 5*1024*1024 {
		return false
	}
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	}
	return false
}

func (h *Handler) uploadPhoto(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	header, err := c.FormFile("photo")
	if err != nil {
		badRequest(c, "photo file is required")
		return
	}
	if !validateImageFile(header) {
		badRequest(c, "photo must be a jpg, png or webp image up to 5MB")
		return
	}
	file, err := header.Open()
	if err != nil {
		badRequest(c, "could not read photo")
		return
	}
	defer file.Close()
	markAction(c, "upload_request_photo")

	req, err := h.Requests.AttachPhoto(c.Request.Context(), p, id, file)
	if err != nil {
		respondError(c, err, "Failed to upload photo")
		return
	}
	h.Events.RequestUpdated(req)
	c.JSON(http.StatusOK, req)
}
