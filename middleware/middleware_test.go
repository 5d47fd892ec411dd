package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volunteer-match-server/models"
)

type fakeAuth struct {
	users map[string]*models.User
}

func (f fakeAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	if u, ok := f.users[token]; ok {
		return u, nil
	}
	return nil, errors.New("bad token")
}

type fakeRecorder struct {
	entries []*models.ActivityLog
}

func (f *fakeRecorder) Record(_ context.Context, e *models.ActivityLog) error {
	f.entries = append(f.entries, e)
	return nil
}

func newAuth() fakeAuth {
	return fakeAuth{users: map[string]*models.User{
		"admin-token": {ID: 1, Name: "Ada", Role: models.RoleAdmin, IsActive: true},
		"csr-token":   {ID: 2, Name: "Cy", Role: models.RoleCSR, IsActive: true},
	}}
}

func do(r http.Handler, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(newAuth()), func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": p.UserID, "role": p.Role})
	})

	assert.Equal(t, http.StatusUnauthorized, do(r, "GET", "/me", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "GET", "/me", map[string]string{"Authorization": "Token abc"}).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "GET", "/me", map[string]string{"Authorization": "Bearer nope"}).Code)

	w := do(r, "GET", "/me", map[string]string{"Authorization": "Bearer csr-token"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":2,"role":"csr_rep"}`, w.Body.String())
}

func TestOptionalAndWebSocketAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/open", OptionalAuthMiddleware(newAuth()), func(c *gin.Context) {
		_, ok := CurrentPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok})
	})
	r.GET("/ws", WebSocketAuthMiddleware(newAuth()), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.JSONEq(t, `{"authenticated":false}`, do(r, "GET", "/open", nil).Body.String())
	assert.JSONEq(t, `{"authenticated":false}`, do(r, "GET", "/open", map[string]string{"Authorization": "Bearer nope"}).Body.String())
	assert.JSONEq(t, `{"authenticated":true}`, do(r, "GET", "/open", map[string]string{"Authorization": "Bearer csr-token"}).Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(r, "GET", "/ws", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "GET", "/ws?token=nope", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, "GET", "/ws?token=csr-token", nil).Code)
}

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", AuthMiddleware(newAuth()), RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bare", RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, "GET", "/admin", map[string]string{"Authorization": "Bearer admin-token"}).Code)
	assert.Equal(t, http.StatusForbidden, do(r, "GET", "/admin", map[string]string{"Authorization": "Bearer csr-token"}).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "GET", "/bare", nil).Code)
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(1, 2)
	r := gin.New()
	r.GET("/ping", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, "GET", "/ping", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, "GET", "/ping", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, "GET", "/ping", nil).Code)

	assert.Equal(t, 0, rl.Cleanup(time.Hour))
	assert.Equal(t, 1, rl.Cleanup(-time.Second))
}

func TestAuthRateLimiter_SharedAcrossRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(100, 100)
	r := gin.New()
	r.POST("/login", rl.AuthMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusOK, do(r, "POST", "/login", nil).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, do(r, "POST", "/login", nil).Code)
}

func TestActivityLogMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := &fakeRecorder{}
	r := gin.New()
	r.Use(OptionalAuthMiddleware(newAuth()), ActivityLogMiddleware(rec))
	r.GET("/things", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/things", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.DELETE("/things/:id", func(c *gin.Context) {
		c.Set(ActivityActionKey, "delete_thing")
		c.Status(http.StatusOK)
	})

	do(r, "GET", "/things", nil)
	do(r, "POST", "/things", map[string]string{"Authorization": "Bearer admin-token"})
	do(r, "DELETE", "/things/7", nil)
	do(r, "POST", "/unknown", nil)

	require.Len(t, rec.entries, 2)
	assert.Equal(t, "post /things", rec.entries[0].Action)
	assert.Equal(t, http.StatusCreated, rec.entries[0].Status)
	require.NotNil(t, rec.entries[0].UserID)
	assert.Equal(t, uint(1), *rec.entries[0].UserID)
	assert.Equal(t, "admin", rec.entries[0].UserRole)

	assert.Equal(t, "delete_thing", rec.entries[1].Action)
	assert.Nil(t, rec.entries[1].UserID)
	assert.Equal(t, "/things/7", rec.entries[1].Path)
}

func TestSecurityAndCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://localhost:3000"}), SecurityHeadersMiddleware(), InputValidationMiddleware())
	r.POST("/echo", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, "OPTIONS", "/echo", map[string]string{
		"Origin":                        "http://localhost:3000",
		"Access-Control-Request-Method": "POST",
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = do(r, "POST", "/echo", map[string]string{"Origin": "http://evil.example"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	req := httptest.NewRequest("POST", "/echo", strings.NewReader("<xml/>"))
	req.Header.Set("Content-Type", "text/xml")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
