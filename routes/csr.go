package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"volunteer-match-server/middleware"
	"volunteer-match-server/models"
)

func registerCSRRoutes(api *gin.RouterGroup, auth gin.HandlerFunc, h *Handler) {
	actors := middleware.RequireRoles(models.RoleCSR, models.RoleAdmin)
	viewers := middleware.RequireRoles(models.RoleCSR, models.RolePlatformManager, models.RoleAdmin)

	requests := api.Group("/requests", auth, actors)
	requests.POST("/:id/accept", h.acceptRequest)
	requests.POST("/:id/shortlist", h.shortlistRequest)
	requests.DELETE("/:id/shortlist", h.unshortlistRequest)

	csr := api.Group("/csr", auth)
	csr.PATCH("/accepted/:id", actors, h.updateMatchStatus)
	csr.POST("/accepted/:id/complete", actors, h.completeRequest)
	csr.POST("/accepted/:id/remove", actors, h.removeSelf)

	csr.GET("/accepted", viewers, h.listAccepted)
	csr.GET("/accepted/:csr_id", viewers, h.listAccepted)
	csr.GET("/completed", viewers, h.listCompleted)
	csr.GET("/completed/:csr_id", viewers, h.listCompleted)
	csr.GET("/shortlist", viewers, h.listShortlist)
	csr.GET("/shortlist/:csr_id", viewers, h.listShortlist)
}

// csrAction reads the request id, the body and the acting CSR. It writes
// the error response itself when any of them is missing or invalid.
func csrAction(c *gin.Context) (requestID, csrID uint, body models.CSRAction, ok bool) {
	p, ok := principal(c)
	if !ok {
		return 0, 0, body, false
	}
	if requestID, ok = paramID(c, "id"); !ok {
		return 0, 0, body, false
	}
	if !bindOptionalJSON(c, &body) {
		return 0, 0, body, false
	}
	if csrID, ok = resolveCSRID(c, p, body.CSRID); !ok {
		return 0, 0, body, false
	}
	return requestID, csrID, body, true
}

func (h *Handler) acceptRequest(c *gin.Context) {
	requestID, csrID, _, ok := csrAction(c)
	if !ok {
		return
	}
	markAction(c, "accept_request")

	match, err := h.Lifecycle.Accept(c.Request.Context(), requestID, csrID)
	if err != nil {
		respondError(c, err, "Failed to accept request")
		return
	}
	h.Events.RequestMatched(match)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Request accepted",
		"match_id": match.ID,
		"match":    match,
	})
}

func (h *Handler) shortlistRequest(c *gin.Context) {
	requestID, csrID, _, ok := csrAction(c)
	if !ok {
		return
	}
	markAction(c, "shortlist_request")

	if err := h.Shortlists.Shortlist(c.Request.Context(), requestID, csrID); err != nil {
		respondError(c, err, "Failed to shortlist request")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Request shortlisted"})
}

func (h *Handler) unshortlistRequest(c *gin.Context) {
	requestID, csrID, _, ok := csrAction(c)
	if !ok {
		return
	}
	markAction(c, "unshortlist_request")

	if err := h.Shortlists.Unshortlist(c.Request.Context(), requestID, csrID); err != nil {
		respondError(c, err, "Failed to remove from shortlist")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Request removed from shortlist"})
}

func (h *Handler) updateMatchStatus(c *gin.Context) {
	requestID, csrID, body, ok := csrAction(c)
	if !ok {
		return
	}
	markAction(c, "update_match_status")

	match, err := h.Lifecycle.UpdateStatus(c.Request.Context(), requestID, csrID, body.Status)
	if err != nil {
		respondError(c, err, "Failed to update status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "match": match})
}

func (h *Handler) completeRequest(c *gin.Context) {
	requestID, csrID, body, ok := csrAction(c)
	if !ok {
		return
	}
	markAction(c, "complete_request")

	req, err := h.Lifecycle.Complete(c.Request.Context(), requestID, csrID, body.Note)
	if err != nil {
		respondError(c, err, "Failed to complete request")
		return
	}
	h.Events.RequestCompleted(req)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Request completed", "request": req})
}

func (h *Handler) removeSelf(c *gin.Context) {
	requestID, csrID, _, ok := csrAction(c)
	if !ok {
		return
	}
	markAction(c, "remove_self")

	if err := h.Lifecycle.RemoveSelf(c.Request.Context(), requestID, csrID); err != nil {
		respondError(c, err, "Failed to remove assignment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Removed from request"})
}

// listingScope resolves which CSR a listing is for. A nil scope means every
// CSR; CSR callers always get their own rows.
func listingScope(c *gin.Context) (*uint, bool) {
	p, ok := principal(c)
	if !ok {
		return nil, false
	}
	if c.Param("csr_id") == "" {
		if p.IsCSR() {
			id := p.UserID
			return &id, true
		}
		return nil, true
	}
	id, ok := paramID(c, "csr_id")
	if !ok {
		return nil, false
	}
	if p.IsCSR() && id != p.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "CSRs can only view their own listings"})
		return nil, false
	}
	return &id, true
}

func (h *Handler) listAccepted(c *gin.Context) {
	scope, ok := listingScope(c)
	if !ok {
		return
	}
	rows, err := h.Shortlists.Accepted(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err, "Failed to fetch accepted requests")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) listCompleted(c *gin.Context) {
	scope, ok := listingScope(c)
	if !ok {
		return
	}
	rows, err := h.Shortlists.Completed(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err, "Failed to fetch completed requests")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) listShortlist(c *gin.Context) {
	scope, ok := listingScope(c)
	if !ok {
		return
	}
	rows, err := h.Shortlists.Shortlisted(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err, "Failed to fetch shortlist")
		return
	}
	c.JSON(http.StatusOK, rows)
}
