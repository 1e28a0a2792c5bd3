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

// EventController handles event endpoints of both portals
type EventController struct {
	session
	eventService services.EventService
}

// NewEventController creates a new EventController
func NewEventController(eventService services.EventService, resolver *auth.IdentityResolver) *EventController {
	return &EventController{
		session:      session{resolver: resolver},
		eventService: eventService,
	}
}

// ListOpenEvents searches events exhibitors can still apply to
// @Summary Search open events
// @Description Approved events whose application deadline has not passed, ordered by start date
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param keyword query string false "Matches name, description or lead text"
// @Param genre query string false "Genre"
// @Param prefecture query string false "Prefecture"
// @Param city query string false "City, only applied with prefecture"
// @Param periodStart query string false "YYYY-MM-DD"
// @Param periodEnd query string false "YYYY-MM-DD"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /store/events [get]
func (c *EventController) ListOpenEvents(ctx *gin.Context) {
	filter := models.EventFilter{
		Keyword:    ctx.Query("keyword"),
		Genre:      ctx.Query("genre"),
		Prefecture: ctx.Query("prefecture"),
		City:       ctx.Query("city"),
	}

	var err error
	if filter.PeriodStart, err = helpers.ParseDate(ctx.Query("periodStart")); err != nil {
		c.badDate(ctx, "periodStart")
		return
	}
	if filter.PeriodEnd, err = helpers.ParseDate(ctx.Query("periodEnd")); err != nil {
		c.badDate(ctx, "periodEnd")
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	events, pagination, err := c.eventService.ListOpenEvents(ctx, filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PaginatedResponse{Items: events, Pagination: pagination}, ""))
}

func (c *EventController) badDate(ctx *gin.Context, field string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid date").
		WithField(field).
		WithDetails("Dates must use the YYYY-MM-DD format")
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}

// GetOpenEvent returns one approved event
func (c *EventController) GetOpenEvent(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id", "Event")
	if !ok {
		return
	}
	event, err := c.eventService.GetOpenEvent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event, ""))
}

// CreateEvent publishes a new event for moderation
// @Summary Create event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEventRequest true "Event"
// @Success 201 {object} dto.APIResponse{data=models.Event}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /organizer/events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	organizerID, ok := c.organizerID(ctx)
	if !ok {
		return
	}
	var req dto.CreateEventRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	event, err := c.eventService.CreateEvent(ctx, organizerID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(event, "Event created successfully"))
}

// ListMyEvents returns every event of the caller
func (c *EventController) ListMyEvents(ctx *gin.Context) {
	organizerID, ok := c.organizerID(ctx)
	if !ok {
		return
	}
	events, err := c.eventService.ListOrganizerEvents(ctx, organizerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(events, ""))
}

// GetMyEvent returns one event of the caller
func (c *EventController) GetMyEvent(ctx *gin.Context) {
	organizerID, ok := c.organizerID(ctx)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(ctx, "id", "Event")
	if !ok {
		return
	}
	event, err := c.eventService.GetOrganizerEvent(ctx, id, organizerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event, ""))
}

// UpdateEvent edits one event of the caller
// @Summary Update event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body dto.UpdateEventRequest true "Event"
// @Success 200 {object} dto.APIResponse{data=models.Event}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Not the event owner"
// @Router /organizer/events/{id} [put]
func (c *EventController) UpdateEvent(ctx *gin.Context) {
	organizerID, ok := c.organizerID(ctx)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(ctx, "id", "Event")
	if !ok {
		return
	}
	var req dto.UpdateEventRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	event, err := c.eventService.UpdateEvent(ctx, id, organizerID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event, "Event updated successfully"))
}

// DeleteEvent removes one event of the caller
func (c *EventController) DeleteEvent(ctx *gin.Context) {
	organizerID, ok := c.organizerID(ctx)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(ctx, "id", "Event")
	if !ok {
		return
	}
	if err := c.eventService.DeleteEvent(ctx, id, organizerID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Event deleted successfully"))
}
