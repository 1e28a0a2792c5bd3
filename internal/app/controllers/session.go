package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/stallhub/internal/app/auth"
	"github.com/yigit/stallhub/internal/app/models"
	"github.com/yigit/stallhub/internal/app/models/dto"
	"github.com/yigit/stallhub/internal/middleware"
)

// session reads the caller from the gin context and resolves it to domain rows
type session struct {
	resolver *auth.IdentityResolver
}

func (s session) identity(ctx *gin.Context) (models.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	return identity, true
}

// organizerID returns the id of the caller's organizer row
func (s session) organizerID(ctx *gin.Context) (uuid.UUID, bool) {
	identity, ok := s.identity(ctx)
	if !ok {
		return uuid.Nil, false
	}
	organizer, err := s.resolver.RequireOrganizer(ctx, identity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return uuid.Nil, false
	}
	return organizer.ID, true
}

// recipient returns who the caller's notifications are addressed to
func (s session) recipient(ctx *gin.Context) (models.Recipient, bool) {
	identity, ok := s.identity(ctx)
	if !ok {
		return models.Recipient{}, false
	}
	role, _ := middleware.RoleFromContext(ctx)
	rcpt, err := s.resolver.Recipient(ctx, role, identity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return models.Recipient{}, false
	}
	return rcpt, true
}

// me reports whether the caller has a row for role
func (s session) me(ctx *gin.Context, role models.Role) {
	identity, ok := s.identity(ctx)
	if !ok {
		return
	}
	res, err := s.resolver.Resolve(ctx, role, identity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.MeResponse{Registered: res.Registered(), Role: role}
	switch {
	case res.Exhibitor != nil:
		resp.Profile = res.Exhibitor
	case res.Organizer != nil:
		resp.Profile = res.Organizer
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// parseUUIDParam reads a path id. On failure the 400 response is written.
func parseUUIDParam(ctx *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+label+" ID").
			WithField(name).
			WithDetails(label + " ID must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return uuid.Nil, false
	}
	return id, true
}
