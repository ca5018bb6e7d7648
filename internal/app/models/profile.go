package models

import (
	"time"

	"github.com/pathpiper/backend/internal/domain"
)

// Profile defines the identity record based on the 'profiles' table. The ID
// is the opaque identity-provider user id (a UUID string), not a serial.
type Profile struct {
	ID              string      `json:"id" db:"id" example:"5f0c9e5e-8b0a-4f6e-9d35-4a1f9c2f7b10"`
	Email           string      `json:"email" db:"email" example:"student@pathpiper.com"`
	Password        string      `json:"-" db:"password"` // Hashed, excluded from JSON
	Role            domain.Role `json:"role" db:"role" example:"student"`
	FirstName       string      `json:"firstName" db:"first_name" example:"Maya"`
	LastName        string      `json:"lastName" db:"last_name" example:"Okafor"`
	Bio             string      `json:"bio" db:"bio"`
	Location        string      `json:"location" db:"location" example:"Nairobi"`
	Tagline         string      `json:"tagline" db:"tagline"`
	ProfileImageURL *string     `json:"profileImageUrl,omitempty" db:"profile_image_url"`
	ParentID        *string     `json:"parentId,omitempty" db:"parent_id"` // Back-reference to parent_profiles
	ParentVerified  bool        `json:"parentVerified" db:"parent_verified"`
	EmailVerified   bool        `json:"emailVerified" db:"email_verified"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time   `json:"updatedAt" db:"updated_at"`
}

// StudentProfile defines the 1:1 student extension based on the
// 'student_profiles' table. The persisted onboarding_completed flag is a
// cache of the completeness derivation, rewritten on every relevant
// mutation.
type StudentProfile struct {
	ProfileID           string `json:"profileId" db:"profile_id"`
	BirthMonth          int    `json:"birthMonth" db:"birth_month"` // 1-12, 0 when unknown
	BirthYear           int    `json:"birthYear" db:"birth_year"`   // 0 when unknown
	EducationLevel      string `json:"educationLevel" db:"education_level"`
	OnboardingCompleted bool   `json:"onboardingCompleted" db:"onboarding_completed"`
}

// ParentProfile defines the separate parent identity space based on the
// 'parent_profiles' table.
type ParentProfile struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FirstName string    `json:"firstName" db:"first_name"`
	LastName  string    `json:"lastName" db:"last_name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Interest defines a taxonomy entry based on the 'interests' table
type Interest struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Category string `json:"category" db:"category"`
}

// Skill defines a taxonomy entry based on the 'skills' table
type Skill struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Category string `json:"category" db:"category"`
}
