package models

import (
	"time"

	"github.com/google/uuid"
)

// Exhibitor is a registered applicant, owned exclusively by the identity that created it
type Exhibitor struct {
	ID uuid.UUID `json:"id"`
	AccountKeys
	ExhibitorProfile
	Documents ExhibitorDocuments `json:"documents"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// ExhibitorProfile holds the contact and genre fields an exhibitor edits
type ExhibitorProfile struct {
	Name          string `json:"name" validate:"required,notblank,max=100"`
	Gender        string `json:"gender" validate:"required,oneof=男 女 その他"`
	Age           int    `json:"age" validate:"gte=0,lte=99"`
	PhoneNumber   string `json:"phoneNumber" validate:"required,tel"`
	Email         string `json:"email" validate:"required,email"`
	GenreCategory string `json:"genreCategory,omitempty"`
	GenreFreeText string `json:"genreFreeText,omitempty"`
}

// ExhibitorDocuments are the uploaded permit and insurance images
type ExhibitorDocuments struct {
	BusinessLicenseImageURL      string `json:"businessLicenseImageUrl,omitempty"`
	VehicleInspectionImageURL    string `json:"vehicleInspectionImageUrl,omitempty"`
	AutomobileInspectionImageURL string `json:"automobileInspectionImageUrl,omitempty"`
	PLInsuranceImageURL          string `json:"plInsuranceImageUrl,omitempty"`
	FireEquipmentLayoutImageURL  string `json:"fireEquipmentLayoutImageUrl,omitempty"`
}

// DocumentKind names one of the exhibitor document slots
type DocumentKind string

const (
	DocumentBusinessLicense      DocumentKind = "business_license"
	DocumentVehicleInspection    DocumentKind = "vehicle_inspection"
	DocumentAutomobileInspection DocumentKind = "automobile_inspection"
	DocumentPLInsurance          DocumentKind = "pl_insurance"
	DocumentFireEquipmentLayout  DocumentKind = "fire_equipment_layout"
)

var documentColumns = map[DocumentKind]string{
	DocumentBusinessLicense:      "business_license_image_url",
	DocumentVehicleInspection:    "vehicle_inspection_image_url",
	DocumentAutomobileInspection: "automobile_inspection_image_url",
	DocumentPLInsurance:          "pl_insurance_image_url",
	DocumentFireEquipmentLayout:  "fire_equipment_layout_image_url",
}

// Column returns the exhibitors column backing the document slot
func (k DocumentKind) Column() (string, bool) {
	col, ok := documentColumns[k]
	return col, ok
}

// Get returns the stored URL for kind
func (d ExhibitorDocuments) Get(kind DocumentKind) string {
	switch kind {
	case DocumentBusinessLicense:
		return d.BusinessLicenseImageURL
	case DocumentVehicleInspection:
		return d.VehicleInspectionImageURL
	case DocumentAutomobileInspection:
		return d.AutomobileInspectionImageURL
	case DocumentPLInsurance:
		return d.PLInsuranceImageURL
	case DocumentFireEquipmentLayout:
		return d.FireEquipmentLayoutImageURL
	}
	return ""
}

// ExhibitorContact is the exhibitor data organizers see and export
type ExhibitorContact struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PhoneNumber   string    `json:"phoneNumber"`
	GenreCategory string    `json:"genreCategory,omitempty"`
	GenreFreeText string    `json:"genreFreeText,omitempty"`
}
