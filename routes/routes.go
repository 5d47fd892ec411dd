package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"volunteer-match-server/config"
	"volunteer-match-server/middleware"
	"volunteer-match-server/models"
	"volunteer-match-server/services"
	"volunteer-match-server/websocket"
)

// Handler holds the services every route group needs.
type Handler struct {
	Auth       *services.JWTService
	Requests   *services.HelpRequestService
	Lifecycle  *services.LifecycleService
	Shortlists *services.ShortlistService
	Users      *services.UserAdminService
	Categories *services.CategoryService
	Reporting  *services.ReportingService
	Reports    *services.ReportService
	Feedback   *services.FeedbackService
	Activity   *services.ActivityService
	Hub        *websocket.Hub
	Events     *websocket.RequestBroadcaster
}

// Options carries the optional backends. Nil fields disable the feature.
type Options struct {
	Uploader services.MediaUploader
	Archiver services.ReportArchiver
	Hub      *websocket.Hub
}

func NewHandler(db *gorm.DB, cfg *config.Config, opts Options) *Handler {
	reporting := services.NewReportingService(db)
	return &Handler{
		Auth:       services.NewJWTService(db, cfg.JWT),
		Requests:   services.NewHelpRequestService(db, opts.Uploader),
		Lifecycle:  services.NewLifecycleService(db),
		Shortlists: services.NewShortlistService(db),
		Users:      services.NewUserAdminService(db),
		Categories: services.NewCategoryService(db),
		Reporting:  reporting,
		Reports:    services.NewReportService(db, reporting, opts.Archiver),
		Feedback:   services.NewFeedbackService(db),
		Activity:   services.NewActivityService(db),
		Hub:        opts.Hub,
		Events:     websocket.NewRequestBroadcaster(opts.Hub),
	}
}

// RegisterRoutes mounts every endpoint on router. limiter may be nil in tests.
func RegisterRoutes(router *gin.Engine, h *Handler, limiter *middleware.RateLimiter) {
	auth := middleware.AuthMiddleware(h.Auth)
	activity := middleware.ActivityLogMiddleware(h.Activity)

	router.GET("/", h.root)
	router.GET("/health", h.health)
	router.GET("/stats", h.publicStats)
	router.GET("/requests", h.listRequests)
	router.GET("/users", auth, h.listUsers)

	api := router.Group("/api")
	api.Use(activity)
	if limiter != nil {
		api.Use(limiter.Middleware())
	}

	login := []gin.HandlerFunc{}
	if limiter != nil {
		login = append(login, limiter.AuthMiddleware())
	}
	api.POST("/login", append(login, h.login)...)
	api.POST("/refresh", append(login, h.refresh)...)
	api.POST("/logout", middleware.OptionalAuthMiddleware(h.Auth), h.logout)
	api.GET("/me", auth, h.me)
	api.GET("/categories", h.listCategories)

	registerHelpRequestRoutes(api.Group("/help-requests", auth), h)
	registerCSRRoutes(api, auth, h)
	registerAdminRoutes(api.Group("/admin", auth, middleware.RequireRoles(models.RoleAdmin)), h)
	registerManagerRoutes(api.Group("/pm", auth, middleware.RequireRoles(models.RolePlatformManager, models.RoleAdmin)), h)

	if h.Hub != nil {
		api.GET("/ws/csr",
			middleware.WebSocketAuthMiddleware(h.Auth),
			middleware.RequireRoles(models.RoleCSR, models.RoleAdmin),
			h.csrFeed)
	}
}
