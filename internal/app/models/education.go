package models

import (
	"time"

	"github.com/pathpiper/backend/internal/domain"
)

// EducationHistory defines a student education record based on the
// 'student_education_history' table. InstitutionVerified mirrors the
// nullable boolean column; Status() surfaces it as the explicit enum.
type EducationHistory struct {
	ID                   int64      `json:"id" db:"id"`
	ProfileID            string     `json:"profileId" db:"profile_id"`
	InstitutionID        *string    `json:"institutionId,omitempty" db:"institution_id"` // Profile id of the institution, when linked
	InstitutionName      string     `json:"institutionName" db:"institution_name"`
	InstitutionTypeID    *int64     `json:"institutionTypeId,omitempty" db:"institution_type_id"`
	DegreeProgram        string     `json:"degreeProgram" db:"degree_program"`
	FieldOfStudy         string     `json:"fieldOfStudy" db:"field_of_study"`
	Subjects             []string   `json:"subjects" db:"subjects"`
	StartDate            *time.Time `json:"startDate,omitempty" db:"start_date"`
	EndDate              *time.Time `json:"endDate,omitempty" db:"end_date"`
	IsCurrent            bool       `json:"isCurrent" db:"is_current"`
	InstitutionVerified  *bool      `json:"-" db:"institution_verified"`
	CreatedAt            time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time  `json:"updatedAt" db:"updated_at"`
}

// Status returns the verification state as an explicit enum.
func (e *EducationHistory) Status() domain.VerificationStatus {
	return domain.VerificationFromColumn(e.InstitutionVerified)
}
