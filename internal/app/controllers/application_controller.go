package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/stallhub/internal/app/auth"
	"github.com/yigit/stallhub/internal/app/models/dto"
	"github.com/yigit/stallhub/internal/app/services"
	"github.com/yigit/stallhub/internal/middleware"
)

// ApplicationController handles the application lifecycle endpoints.
// Service calls get the request context rather than the gin context
// because fan-out work may outlive the handler.
type ApplicationController struct {
	session
	applicationService services.ApplicationService
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(applicationService services.ApplicationService, resolver *auth.IdentityResolver) *ApplicationController {
	return &ApplicationController{
		session:            session{resolver: resolver},
		applicationService: applicationService,
	}
}

// Apply submits an application to an event
// @Summary Apply to event
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 201 {object} dto.APIResponse{data=models.Application}
// @Failure 403 {object} dto.ErrorResponse "Registration required"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Already applied or applications closed"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /store/events/{id}/applications [post]
func (c *ApplicationController) Apply(ctx *gin.Context) {
	identity, ok := c.identity(ctx)
	if !ok {
		return
	}
	eventID, ok := parseUUIDParam(ctx, "id", "Event")
	if !ok {
		return
	}

	app, err := c.applicationService.Apply(ctx.Request.Context(), identity, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(app, "Application submitted successfully"))
}

// ListMyApplications returns the caller's applications, newest first
func (c *ApplicationController) ListMyApplications(ctx *gin.Context) {
	identity, ok := c.identity(ctx)
	if !ok {
		return
	}
	apps, err := c.applicationService.ListForExhibitor(ctx.Request.Context(), identity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(apps, ""))
}

// ListEventApplications returns the applications to one of the caller's events
func (c *ApplicationController) ListEventApplications(ctx *gin.Context) {
	organizerID, ok := c.organizerID(ctx)
	if !ok {
		return
	}
	eventID, ok := parseUUIDParam(ctx, "id", "Event")
	if !ok {
		return
	}
	apps, err := c.applicationService.ListForEvent(ctx.Request.Context(), eventID, organizerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(apps, ""))
}

// GetApplication returns one application to one of the caller's events
func (c *ApplicationController) GetApplication(ctx *gin.Context) {
	organizerID, ok := c.organizerID(ctx)
	if !ok {
		return
	}
	appID, ok := parseUUIDParam(ctx, "id", "Application")
	if !ok {
		return
	}
	app, err := c.applicationService.GetForOrganizer(ctx.Request.Context(), appID, organizerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(app, ""))
}

// UpdateStatus approves or rejects a pending application
// @Summary Decide application
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param request body dto.UpdateApplicationStatusRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=models.Application}
// @Failure 400 {object} dto.ErrorResponse "Invalid decision"
// @Failure 403 {object} dto.ErrorResponse "Not the event owner"
// @Failure 409 {object} dto.ErrorResponse "Already decided"
// @Router /organizer/applications/{id}/status [patch]
func (c *ApplicationController) UpdateStatus(ctx *gin.Context) {
	organizerID, ok := c.organizerID(ctx)
	if !ok {
		return
	}
	appID, ok := parseUUIDParam(ctx, "id", "Application")
	if !ok {
		return
	}
	var req dto.UpdateApplicationStatusRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	app, err := c.applicationService.SetStatus(ctx.Request.Context(), appID, req.Status, organizerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(app, "Application status updated"))
}

// CloseApplications exports the exhibitor list and stops accepting applications
// @Summary Close applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.CloseApplicationsResponse}
// @Failure 409 {object} dto.ErrorResponse "Already closed"
// @Failure 503 {object} dto.ErrorResponse "Export unavailable"
// @Router /organizer/events/{id}/close [post]
func (c *ApplicationController) CloseApplications(ctx *gin.Context) {
	organizerID, ok := c.organizerID(ctx)
	if !ok {
		return
	}
	eventID, ok := parseUUIDParam(ctx, "id", "Event")
	if !ok {
		return
	}

	result, err := c.applicationService.CloseApplications(ctx.Request.Context(), eventID, organizerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewCloseApplicationsResponse(result), "Applications closed"))
}
