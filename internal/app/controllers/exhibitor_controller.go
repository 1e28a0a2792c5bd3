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

// ExhibitorController handles exhibitor onboarding and profile endpoints
type ExhibitorController struct {
	session
	exhibitorService services.ExhibitorService
}

// NewExhibitorController creates a new ExhibitorController
func NewExhibitorController(exhibitorService services.ExhibitorService, resolver *auth.IdentityResolver) *ExhibitorController {
	return &ExhibitorController{
		session:          session{resolver: resolver},
		exhibitorService: exhibitorService,
	}
}

// Me tells the store portal whether the session still needs to register
// @Summary Current exhibitor session
// @Tags exhibitors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.MeResponse}
// @Router /store/me [get]
func (c *ExhibitorController) Me(ctx *gin.Context) {
	c.me(ctx, models.RoleExhibitor)
}

// Register creates the exhibitor row for the session
// @Summary Register as exhibitor
// @Tags exhibitors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ExhibitorProfile true "Exhibitor profile"
// @Success 201 {object} dto.APIResponse{data=models.Exhibitor}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Already registered"
// @Router /store/exhibitors [post]
func (c *ExhibitorController) Register(ctx *gin.Context) {
	identity, ok := c.identity(ctx)
	if !ok {
		return
	}
	var profile models.ExhibitorProfile
	if !middleware.BindAndValidate(ctx, &profile) {
		return
	}

	exhibitor, err := c.exhibitorService.Register(ctx, identity, profile)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(exhibitor, "Exhibitor registered successfully"))
}

// UpdateProfile overwrites the caller's profile
// @Summary Update exhibitor profile
// @Tags exhibitors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ExhibitorProfile true "Exhibitor profile"
// @Success 200 {object} dto.APIResponse{data=models.Exhibitor}
// @Failure 403 {object} dto.ErrorResponse "Registration required"
// @Router /store/exhibitors/me [put]
func (c *ExhibitorController) UpdateProfile(ctx *gin.Context) {
	identity, ok := c.identity(ctx)
	if !ok {
		return
	}
	var profile models.ExhibitorProfile
	if !middleware.BindAndValidate(ctx, &profile) {
		return
	}

	exhibitor, err := c.exhibitorService.UpdateProfile(ctx, identity, profile)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(exhibitor, "Profile updated successfully"))
}

// UploadDocument stores one permit or insurance document
// @Summary Upload exhibitor document
// @Tags exhibitors
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Document slot" Enums(business_license, vehicle_inspection, automobile_inspection, pl_insurance, fire_equipment_layout)
// @Param file formData file true "Document image or PDF"
// @Success 200 {object} dto.APIResponse{data=models.Exhibitor}
// @Router /store/exhibitors/me/documents/{kind} [post]
func (c *ExhibitorController) UploadDocument(ctx *gin.Context) {
	identity, ok := c.identity(ctx)
	if !ok {
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "File is required").WithField("file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	exhibitor, err := c.exhibitorService.UploadDocument(ctx, identity, models.DocumentKind(ctx.Param("kind")), file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(exhibitor, "Document uploaded successfully"))
}
