package logging

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

func init() {
	log.SetOutput(os.Stdout)
}

// LogKV writes one JSON line with a level, message and arbitrary fields.
func LogKV(level, msg string, fields map[string]interface{}) {
	log.Println(format(level, msg, fields))
}

func format(level, msg string, fields map[string]interface{}) string {
	entry := map[string]interface{}{
		"level": level,
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"msg":   msg,
	}
	for k, v := range fields {
		entry[k] = v
	}
	b, err := json.Marshal(entry)
	if err != nil {
		return `{"level":"error","msg":"unencodable log entry"}`
	}
	return string(b)
}

func Info(msg string, fields map[string]interface{})  { LogKV("info", msg, fields) }
func Warn(msg string, fields map[string]interface{})  { LogKV("warn", msg, fields) }
func Error(msg string, fields map[string]interface{}) { LogKV("error", msg, fields) }

// RequestID tags every request with an id, reusing the caller's header when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// JSONLogger logs each request as a single JSON line.
func JSONLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		level := "info"
		if status >= http.StatusInternalServerError || len(c.Errors) > 0 {
			level = "error"
		}

		fields := map[string]interface{}{
			"method":     c.Request.Method,
			"path":       path,
			"status":     status,
			"latency_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			"client_ip":  c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
			"bytes_out":  c.Writer.Size(),
		}
		// tokens travel in the query string on websocket upgrades
		if query != "" && c.Query("token") == "" {
			fields["query"] = query
		}
		if id, ok := c.Get("request_id"); ok {
			fields["request_id"] = id
		}
		if uid, ok := c.Get("user_id"); ok {
			fields["user_id"] = uid
		}
		if len(c.Errors) > 0 {
			fields["error"] = c.Errors.String()
		}

		LogKV(level, "request", fields)
	}
}
