package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/stallhub/internal/app/auth"
	"github.com/yigit/stallhub/internal/app/models"
	"github.com/yigit/stallhub/internal/app/models/dto"
	"github.com/yigit/stallhub/internal/app/services"
	"github.com/yigit/stallhub/internal/middleware"
	"github.com/yigit/stallhub/internal/pkg/helpers"
)

// NotificationController serves the caller's in-app notifications on either portal
type NotificationController struct {
	session
	notificationService services.NotificationService
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService services.NotificationService, resolver *auth.IdentityResolver) *NotificationController {
	return &NotificationController{
		session:             session{resolver: resolver},
		notificationService: notificationService,
	}
}

func (c *NotificationController) List(ctx *gin.Context) {
	rcpt, ok := c.recipient(ctx)
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)
	items, pagination, err := c.notificationService.ListForRecipient(ctx, rcpt, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PaginatedResponse{Items: items, Pagination: pagination}, ""))
}

func (c *NotificationController) UnreadCount(ctx *gin.Context) {
	rcpt, ok := c.recipient(ctx)
	if !ok {
		return
	}
	count, err := c.notificationService.UnreadCount(ctx, rcpt)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.UnreadCountResponse{Count: count}, ""))
}

func (c *NotificationController) MarkRead(ctx *gin.Context) {
	rcpt, ok := c.recipient(ctx)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(ctx, "id", "Notification")
	if !ok {
		return
	}
	if err := c.notificationService.MarkRead(ctx, id, rcpt); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Notification marked as read"))
}

func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	rcpt, ok := c.recipient(ctx)
	if !ok {
		return
	}
	updated, err := c.notificationService.MarkAllRead(ctx, rcpt)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MarkAllReadResponse{Updated: updated}, ""))
}

// Recipient adapts the session lookup for the websocket handler
func (c *NotificationController) Recipient(ctx *gin.Context) (models.Recipient, bool) {
	return c.recipient(ctx)
}
