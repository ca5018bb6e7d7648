package dto

import (
	"github.com/pathpiper/backend/internal/app/models"
	"github.com/pathpiper/backend/internal/domain"
)

// UpdateProfileRequest represents a profile edit. Pointers distinguish
// "not sent" from "set to empty".
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	Location  *string `json:"location,omitempty"`
	Tagline   *string `json:"tagline,omitempty"`
	// Student-only fields
	BirthMonth     *int    `json:"birthMonth,omitempty" binding:"omitempty,min=1,max=12"`
	BirthYear      *int    `json:"birthYear,omitempty" binding:"omitempty,min=1900"`
	EducationLevel *string `json:"educationLevel,omitempty"`
}

// ReplaceInterestsRequest replaces the full interest selection
type ReplaceInterestsRequest struct {
	InterestIDs []int64 `json:"interestIds" binding:"required"`
}

// ReplaceSkillsRequest replaces the full skill selection
type ReplaceSkillsRequest struct {
	SkillIDs []int64 `json:"skillIds" binding:"required"`
}

// ProfileResponse represents a profile with its student extension, derived
// completeness and age banding.
type ProfileResponse struct {
	Profile      *models.Profile        `json:"profile"`
	Student      *models.StudentProfile `json:"student,omitempty"`
	AgeGroup     domain.AgeGroup        `json:"ageGroup,omitempty"`
	Completeness *domain.Completeness   `json:"completeness,omitempty"`
	Interests    []*models.Interest     `json:"interests,omitempty"`
	Skills       []*models.Skill        `json:"skills,omitempty"`
}

// CompletenessResponse is the structured section breakdown for onboarding
type CompletenessResponse struct {
	domain.Completeness
	AgeGroup domain.AgeGroup   `json:"ageGroup"`
	Gate     domain.GateResult `json:"gate"`
}
