package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"volunteer-match-server/logging"
	"volunteer-match-server/models"
)

// ActivityActionKey lets a handler name the action recorded for its request.
const ActivityActionKey = "activity_action"

// ActivityRecorder persists audit entries.
type ActivityRecorder interface {
	Record(ctx context.Context, entry *models.ActivityLog) error
}

// ActivityLogMiddleware records every mutating API call once the handler has
// run. Reads are not recorded.
func ActivityLogMiddleware(rec ActivityRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}
		route := c.FullPath()
		if route == "" {
			return
		}

		action := c.GetString(ActivityActionKey)
		if action == "" {
			action = strings.ToLower(c.Request.Method) + " " + route
		}
		entry := &models.ActivityLog{
			Action:    action,
			IPAddress: c.ClientIP(),
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Status:    c.Writer.Status(),
		}
		if p, ok := CurrentPrincipal(c); ok {
			id := p.UserID
			entry.UserID = &id
			entry.UserName = p.Name
			entry.UserRole = string(p.Role)
		}
		if err := rec.Record(context.WithoutCancel(c.Request.Context()), entry); err != nil {
			logging.Warn("activity log write failed", map[string]interface{}{"path": entry.Path, "error": err.Error()})
		}
	}
}
