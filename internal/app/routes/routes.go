package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/stallhub/internal/app/controllers"
	"github.com/yigit/stallhub/internal/app/models"
	"github.com/yigit/stallhub/internal/middleware"
	"github.com/yigit/stallhub/internal/pkg/metrics"
	"github.com/yigit/stallhub/internal/pkg/websocket"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Exhibitor    *controllers.ExhibitorController
	Organizer    *controllers.OrganizerController
	Event        *controllers.EventController
	Application  *controllers.ApplicationController
	Notification *controllers.NotificationController
	Websocket    *websocket.Handler

	Auth         *middleware.AuthMiddleware
	ApplyLimiter *middleware.RateLimiter
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, h Handlers) {
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})

	// --- Store portal (exhibitors) ---
	store := v1.Group("/store")
	store.Use(h.Auth.JWTAuth(), h.Auth.RoleRequired(models.RoleExhibitor))
	{
		store.GET("/me", h.Exhibitor.Me)
		store.POST("/exhibitors", h.Exhibitor.Register)
		store.PUT("/exhibitors/me", h.Exhibitor.UpdateProfile)
		store.POST("/exhibitors/me/documents/:kind", h.Exhibitor.UploadDocument)

		store.GET("/events", h.Event.ListOpenEvents)
		store.GET("/events/:id", h.Event.GetOpenEvent)
		store.POST("/events/:id/applications", h.ApplyLimiter.Handler(), h.Application.Apply)

		store.GET("/applications", h.Application.ListMyApplications)

		notificationRoutes(store, h)
	}

	// --- Organizer portal ---
	organizer := v1.Group("/organizer")
	organizer.Use(h.Auth.JWTAuth(), h.Auth.RoleRequired(models.RoleOrganizer))
	{
		organizer.GET("/me", h.Organizer.Me)
		organizer.POST("/organizers", h.Organizer.Register)
		organizer.PUT("/organizers/me", h.Organizer.UpdateProfile)

		organizer.POST("/events", h.Event.CreateEvent)
		organizer.GET("/events", h.Event.ListMyEvents)
		organizer.GET("/events/:id", h.Event.GetMyEvent)
		organizer.PUT("/events/:id", h.Event.UpdateEvent)
		organizer.DELETE("/events/:id", h.Event.DeleteEvent)
		organizer.GET("/events/:id/applications", h.Application.ListEventApplications)
		organizer.POST("/events/:id/close", h.Application.CloseApplications)

		organizer.GET("/applications/:id", h.Application.GetApplication)
		organizer.PATCH("/applications/:id/status", h.Application.UpdateStatus)

		notificationRoutes(organizer, h)
	}
}

// notificationRoutes mounts the notification endpoints shared by both portals
func notificationRoutes(portal *gin.RouterGroup, h Handlers) {
	notifications := portal.Group("/notifications")
	{
		notifications.GET("", h.Notification.List)
		notifications.GET("/unread-count", h.Notification.UnreadCount)
		notifications.POST("/read-all", h.Notification.MarkAllRead)
		notifications.POST("/:id/read", h.Notification.MarkRead)
		notifications.GET("/ws", h.Websocket.HandleConnection)
	}
}
