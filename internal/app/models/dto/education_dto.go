package dto

import (
	"time"

	"github.com/pathpiper/backend/internal/app/models"
	"github.com/pathpiper/backend/internal/domain"
)

// CreateEducationRequest represents a new education record
type CreateEducationRequest struct {
	InstitutionID     *string    `json:"institutionId,omitempty"`
	InstitutionName   string     `json:"institutionName" binding:"required"`
	InstitutionTypeID *int64     `json:"institutionTypeId,omitempty"`
	DegreeProgram     string     `json:"degreeProgram"`
	FieldOfStudy      string     `json:"fieldOfStudy"`
	Subjects          []string   `json:"subjects,omitempty"`
	StartDate         *time.Time `json:"startDate,omitempty"`
	EndDate           *time.Time `json:"endDate,omitempty"`
	IsCurrent         bool       `json:"isCurrent"`
}

// UpdateEducationRequest represents an education record edit
type UpdateEducationRequest struct {
	InstitutionName *string    `json:"institutionName,omitempty"`
	DegreeProgram   *string    `json:"degreeProgram,omitempty"`
	FieldOfStudy    *string    `json:"fieldOfStudy,omitempty"`
	Subjects        []string   `json:"subjects,omitempty"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	IsCurrent       *bool      `json:"isCurrent,omitempty"`
}

// VerificationRequest is the institution-side verify/reject action
type VerificationRequest struct {
	EducationID int64  `json:"educationId" binding:"required"`
	Action      string `json:"action" binding:"required,oneof=verify reject"`
}

// EducationResponse decorates an education record with its explicit
// verification status.
type EducationResponse struct {
	*models.EducationHistory
	VerificationStatus domain.VerificationStatus `json:"verificationStatus"`
}

// NewEducationResponse builds the response for one education record
func NewEducationResponse(e *models.EducationHistory) *EducationResponse {
	return &EducationResponse{
		EducationHistory:   e,
		VerificationStatus: e.Status(),
	}
}

// NewEducationResponses builds responses for a list of records
func NewEducationResponses(list []*models.EducationHistory) []*EducationResponse {
	out := make([]*EducationResponse, 0, len(list))
	for _, e := range list {
		out = append(out, NewEducationResponse(e))
	}
	return out
}
