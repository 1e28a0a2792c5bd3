package dto

import "github.com/yigit/stallhub/internal/app/models"

// UpdateApplicationStatusRequest carries an organizer's decision
type UpdateApplicationStatusRequest struct {
	Status models.ApplicationStatus `json:"status" validate:"required,oneof=approved rejected" example:"approved"`
}

// CloseApplicationsResponse is returned after applications are closed and exported
type CloseApplicationsResponse struct {
	EventID          string `json:"eventId"`
	ApplicationCount int    `json:"applicationCount" example:"3"`
	SpreadsheetURL   string `json:"spreadsheetUrl" example:"https://docs.example.com/sheet/1"`
}

// NewCloseApplicationsResponse maps the service result
func NewCloseApplicationsResponse(result *models.CloseResult) CloseApplicationsResponse {
	return CloseApplicationsResponse{
		EventID:          result.EventID.String(),
		ApplicationCount: result.ApplicationCount,
		SpreadsheetURL:   result.ExportURL,
	}
}
