package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cicero-foco/cicero/internal/infrastructure/http/middleware"
	"github.com/cicero-foco/cicero/pkg/config"
	appjwt "github.com/cicero-foco/cicero/pkg/jwt"
)

// Router holds all handlers
type Router struct {
	cfg               *config.Config
	jwtManager        *appjwt.Manager
	meetingHandler    *Meeting
	subscriberHandler *Subscriber
	pipelineHandler   *Pipeline
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	jwtManager *appjwt.Manager,
	meetingHandler *Meeting,
	subscriberHandler *Subscriber,
	pipelineHandler *Pipeline,
) *Router {
	return &Router{
		cfg:               cfg,
		jwtManager:        jwtManager,
		meetingHandler:    meetingHandler,
		subscriberHandler: subscriberHandler,
		pipelineHandler:   pipelineHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// One-click unsubscribe link used in notification emails
	if rt.subscriberHandler != nil {
		e.GET("/unsubscribe", rt.subscriberHandler.UnsubscribeLink)
	}

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupMeetingRoutes(v1)
	rt.setupSubscriberRoutes(v1)
	rt.setupAdminRoutes(v1)
}

// setupMeetingRoutes configures public meeting read routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetingGroup := g.Group("/meetings")

	if rt.meetingHandler != nil {
		meetingGroup.GET("", rt.meetingHandler.List)
		meetingGroup.GET("/:id", rt.meetingHandler.Get)
		meetingGroup.GET("/:id/summary", rt.meetingHandler.GetSummary)
		g.GET("/council-members", rt.meetingHandler.ListCouncilMembers)
	} else {
		meetingGroup.GET("", rt.notImplemented)
		meetingGroup.GET("/:id", rt.notImplemented)
		meetingGroup.GET("/:id/summary", rt.notImplemented)
	}
}

// setupSubscriberRoutes configures notification list routes
func (rt *Router) setupSubscriberRoutes(g *echo.Group) {
	subscriberGroup := g.Group("/subscribers")

	if rt.subscriberHandler != nil {
		subscriberGroup.POST("", rt.subscriberHandler.Subscribe)
		subscriberGroup.POST("/unsubscribe", rt.subscriberHandler.Unsubscribe)
		subscriberGroup.GET("/count", rt.subscriberHandler.Count)
	} else {
		subscriberGroup.POST("", rt.notImplemented)
		subscriberGroup.POST("/unsubscribe", rt.notImplemented)
		subscriberGroup.GET("/count", rt.notImplemented)
	}
}

// setupAdminRoutes configures the JWT-protected pipeline triggers
func (rt *Router) setupAdminRoutes(g *echo.Group) {
	adminGroup := g.Group("/admin")
	if rt.jwtManager != nil {
		adminGroup.Use(middleware.AdminAuth(rt.jwtManager))
	}

	if rt.pipelineHandler != nil {
		adminGroup.POST("/scrape", rt.pipelineHandler.Scrape)
		adminGroup.POST("/videos/extract", rt.pipelineHandler.ExtractVideos)
		adminGroup.POST("/transcribe", rt.pipelineHandler.Transcribe)
		adminGroup.POST("/summarize", rt.pipelineHandler.Summarize)
		adminGroup.POST("/pipeline/run", rt.pipelineHandler.ProcessPending)
		adminGroup.POST("/meetings/:id/extract", rt.pipelineHandler.ExtractMeetingVideo)
		adminGroup.POST("/meetings/:id/transcribe", rt.pipelineHandler.TranscribeMeeting)
		adminGroup.POST("/meetings/:id/summarize", rt.pipelineHandler.SummarizeMeeting)
		adminGroup.POST("/meetings/:id/process", rt.pipelineHandler.ProcessMeeting)
		adminGroup.POST("/meetings/:id/reset", rt.pipelineHandler.ResetMeeting)
	} else {
		adminGroup.POST("/scrape", rt.notImplemented)
		adminGroup.POST("/pipeline/run", rt.notImplemented)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint is not yet implemented",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "Please initialize the required handler in main.go",
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
