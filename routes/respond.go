package routes

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"volunteer-match-server/middleware"
	"volunteer-match-server/services"
	"volunteer-match-server/types"
)

// respondError maps a service error to its HTTP status. Anything that is
// not a known kind is treated as a store failure.
func respondError(c *gin.Context, err error, failure string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrConstraint):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrUnauthorized):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		log.Printf("❌ %s: %v", failure, err)
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": failure, "details": err.Error()})
		return
	}
	c.JSON(status, gin.H{"error": errorMessage(err)})
}

// errorMessage strips the kind prefix ("not found: ") from a wrapped error.
func errorMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// paramID parses a positive numeric path parameter, writing a 400 if it is not one.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, name string, def int) int {
	if v, err := strconv.Atoi(c.Query(name)); err == nil {
		return v
	}
	return def
}

func queryUint(c *gin.Context, name string) uint {
	v, _ := strconv.ParseUint(c.Query(name), 10, 64)
	return uint(v)
}

// principal returns the authenticated caller. Routes using it sit behind
// AuthMiddleware, so a missing principal is a wiring bug answered with 401.
func principal(c *gin.Context) (types.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	}
	return p, ok
}

// resolveCSRID picks the CSR an action applies to: the explicit csr_id if
// given, else the caller when the caller is a CSR. CSRs may only act for
// themselves.
func resolveCSRID(c *gin.Context, p types.Principal, explicit uint) (uint, bool) {
	if explicit == 0 {
		explicit = queryUint(c, "csr_id")
	}
	if explicit == 0 && p.IsCSR() {
		explicit = p.UserID
	}
	if explicit == 0 {
		badRequest(c, "csr_id is required")
		return 0, false
	}
	if p.IsCSR() && explicit != p.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "CSRs can only act on their own behalf"})
		return 0, false
	}
	return explicit, true
}

// bindOptionalJSON binds a JSON body when one is present. Empty bodies are allowed.
func bindOptionalJSON(c *gin.Context, out interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(out); err != nil {
		badRequest(c, "Invalid request format")
		return false
	}
	return true
}

func markAction(c *gin.Context, action string) {
	c.Set(middleware.ActivityActionKey, action)
}
