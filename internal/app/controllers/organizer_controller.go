package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/stallhub/internal/app/auth"
	"github.com/yigit/stallhub/internal/app/models"
	"github.com/yigit/stallhub/internal/app/models/dto"
	"github.com/yigit/stallhub/internal/app/services"
	"github.com/yigit/stallhub/internal/middleware"
)

// OrganizerController handles organizer onboarding endpoints
type OrganizerController struct {
	session
	organizerService services.OrganizerService
}

// NewOrganizerController creates a new OrganizerController
func NewOrganizerController(organizerService services.OrganizerService, resolver *auth.IdentityResolver) *OrganizerController {
	return &OrganizerController{
		session:          session{resolver: resolver},
		organizerService: organizerService,
	}
}

// Me tells the organizer portal whether the session still needs to register
func (c *OrganizerController) Me(ctx *gin.Context) {
	c.me(ctx, models.RoleOrganizer)
}

// Register creates the organizer row for the session
func (c *OrganizerController) Register(ctx *gin.Context) {
	identity, ok := c.identity(ctx)
	if !ok {
		return
	}
	var profile models.OrganizerProfile
	if !middleware.BindAndValidate(ctx, &profile) {
		return
	}
	if profile.Email == "" {
		if email, ok := ctx.Get(middleware.ContextEmail); ok {
			profile.Email, _ = email.(string)
		}
	}

	organizer, err := c.organizerService.Register(ctx, identity, profile)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(organizer, "Organizer registered successfully"))
}

// UpdateProfile overwrites the caller's contact details
func (c *OrganizerController) UpdateProfile(ctx *gin.Context) {
	identity, ok := c.identity(ctx)
	if !ok {
		return
	}
	var req dto.UpdateOrganizerRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	organizer, err := c.organizerService.UpdateProfile(ctx, identity, req.Profile())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(organizer, "Profile updated successfully"))
}
