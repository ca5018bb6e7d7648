package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/pathpiper/backend/internal/app/models"
	"github.com/pathpiper/backend/internal/app/models/dto"
	"github.com/pathpiper/backend/internal/app/repositories"
	"github.com/pathpiper/backend/internal/domain"
	"github.com/pathpiper/backend/internal/pkg/apperrors"
)

// ProfileStore is the profile persistence surface used by ProfileService
type ProfileStore interface {
	GetProfileByID(ctx context.Context, id string) (*models.Profile, error)
	UpdateProfileFields(ctx context.Context, id string, fields map[string]interface{}) error
	GetStudentProfile(ctx context.Context, profileID string) (*models.StudentProfile, error)
	UpdateStudentFields(ctx context.Context, profileID string, fields map[string]interface{}) error
	SetOnboardingCompleted(ctx context.Context, profileID string, completed bool) error
}

// InterestStore is the interest/skill persistence surface
type InterestStore interface {
	ListInterests(ctx context.Context) ([]*models.Interest, error)
	GetUserInterests(ctx context.Context, profileID string) ([]*models.Interest, error)
	GetUserSkills(ctx context.Context, profileID string) ([]*models.Skill, error)
	CountUserInterests(ctx context.Context, profileID string) (int, error)
	ReplaceUserInterests(ctx context.Context, profileID string, interestIDs []int64) error
	ReplaceUserSkills(ctx context.Context, profileID string, skillIDs []int64) error
}

// EducationCounter is the slice of the education store needed for the
// completeness derivation.
type EducationCounter interface {
	CountByProfile(ctx context.Context, profileID string) (int, error)
}

// ProfileService defines the interface for profile operations
type ProfileService interface {
	GetProfile(ctx context.Context, profileID string) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, profileID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	ListInterests(ctx context.Context) ([]*models.Interest, error)
	ReplaceInterests(ctx context.Context, profileID string, interestIDs []int64) error
	ReplaceSkills(ctx context.Context, profileID string, skillIDs []int64) error
	GetCompleteness(ctx context.Context, profileID string) (*dto.CompletenessResponse, error)
	RecomputeCompleteness(ctx context.Context, profileID string) (domain.Completeness, error)
}

// profileServiceImpl implements ProfileService
type profileServiceImpl struct {
	profileRepo   ProfileStore
	interestRepo  InterestStore
	educationRepo EducationCounter
	logger        zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(
	profileRepo ProfileStore,
	interestRepo InterestStore,
	educationRepo EducationCounter,
	logger zerolog.Logger,
) ProfileService {
	return &profileServiceImpl{
		profileRepo:   profileRepo,
		interestRepo:  interestRepo,
		educationRepo: educationRepo,
		logger:        logger,
	}
}

// GetProfile retrieves a profile with its student extension, derived age
// band, completeness and selections.
func (s *profileServiceImpl) GetProfile(ctx context.Context, profileID string) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.GetProfileByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("error loading profile: %w", err)
	}

	resp := &dto.ProfileResponse{Profile: profile}

	resp.Interests, err = s.interestRepo.GetUserInterests(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("error loading interests: %w", err)
	}
	resp.Skills, err = s.interestRepo.GetUserSkills(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("error loading skills: %w", err)
	}

	if profile.Role == domain.RoleStudent {
		student, err := s.profileRepo.GetStudentProfile(ctx, profileID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("error loading student profile: %w", err)
		}
		if student != nil {
			resp.Student = student
			resp.AgeGroup = domain.AgeGroupAt(student.BirthMonth, student.BirthYear, time.Now())
		}

		completeness, err := s.deriveCompleteness(ctx, profile)
		if err != nil {
			return nil, err
		}
		resp.Completeness = &completeness
	}

	return resp, nil
}

// UpdateProfile applies a partial edit and rewrites the derived onboarding
// flag from current state.
func (s *profileServiceImpl) UpdateProfile(ctx context.Context, profileID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.GetProfileByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("error loading profile for update: %w", err)
	}

	fields := map[string]interface{}{}
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}
	if req.Tagline != nil {
		fields["tagline"] = *req.Tagline
	}
	if len(fields) > 0 {
		if err := s.profileRepo.UpdateProfileFields(ctx, profileID, fields); err != nil {
			return nil, fmt.Errorf("error updating profile fields: %w", err)
		}
	}

	if profile.Role == domain.RoleStudent {
		studentFields := map[string]interface{}{}
		if req.BirthMonth != nil {
			studentFields["birth_month"] = *req.BirthMonth
		}
		if req.BirthYear != nil {
			studentFields["birth_year"] = *req.BirthYear
		}
		if req.EducationLevel != nil {
			studentFields["education_level"] = *req.EducationLevel
		}
		if len(studentFields) > 0 {
			if err := s.profileRepo.UpdateStudentFields(ctx, profileID, studentFields); err != nil {
				return nil, fmt.Errorf("error updating student fields: %w", err)
			}
		}

		if _, err := s.RecomputeCompleteness(ctx, profileID); err != nil {
			return nil, err
		}
	}

	return s.GetProfile(ctx, profileID)
}

// ListInterests returns the interest taxonomy for selection UIs
func (s *profileServiceImpl) ListInterests(ctx context.Context) ([]*models.Interest, error) {
	return s.interestRepo.ListInterests(ctx)
}

// ReplaceInterests replaces the full interest selection and recomputes
// completeness from the new state.
func (s *profileServiceImpl) ReplaceInterests(ctx context.Context, profileID string, interestIDs []int64) error {
	if err := s.interestRepo.ReplaceUserInterests(ctx, profileID, interestIDs); err != nil {
		return fmt.Errorf("error replacing interests: %w", err)
	}
	_, err := s.RecomputeCompleteness(ctx, profileID)
	return err
}

// ReplaceSkills replaces the full skill selection. Skills do not feed the
// completeness rule, so no recompute is needed.
func (s *profileServiceImpl) ReplaceSkills(ctx context.Context, profileID string, skillIDs []int64) error {
	if err := s.interestRepo.ReplaceUserSkills(ctx, profileID, skillIDs); err != nil {
		return fmt.Errorf("error replacing skills: %w", err)
	}
	return nil
}

// GetCompleteness returns the structured section breakdown plus the minor
// verification gate state.
func (s *profileServiceImpl) GetCompleteness(ctx context.Context, profileID string) (*dto.CompletenessResponse, error) {
	profile, err := s.profileRepo.GetProfileByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("error loading profile for completeness: %w", err)
	}

	completeness, err := s.deriveCompleteness(ctx, profile)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	resp := &dto.CompletenessResponse{
		Completeness: completeness,
		AgeGroup:     domain.AgeGroupYoungAdult,
		Gate:         domain.GateResult{Allowed: true},
	}

	if profile.Role == domain.RoleStudent {
		student, err := s.profileRepo.GetStudentProfile(ctx, profileID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("error loading student profile for completeness: %w", err)
		}
		age := -1
		if student != nil {
			age = domain.AgeAt(student.BirthMonth, student.BirthYear, now)
			resp.AgeGroup = domain.AgeGroupAt(student.BirthMonth, student.BirthYear, now)
		}
		resp.Gate = domain.EvaluateVerificationGate(profile.Role, age, profile.ParentVerified, profile.EmailVerified)
	}

	return resp, nil
}

// RecomputeCompleteness derives completeness from the current profile state
// and rewrites the persisted onboarding flag. Every mutation that can move
// the derivation runs through here, so the stored flag never drifts.
func (s *profileServiceImpl) RecomputeCompleteness(ctx context.Context, profileID string) (domain.Completeness, error) {
	profile, err := s.profileRepo.GetProfileByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return domain.Completeness{}, apperrors.ErrProfileNotFound
		}
		return domain.Completeness{}, fmt.Errorf("error loading profile for recompute: %w", err)
	}

	completeness, err := s.deriveCompleteness(ctx, profile)
	if err != nil {
		return domain.Completeness{}, err
	}

	if profile.Role == domain.RoleStudent {
		if err := s.profileRepo.SetOnboardingCompleted(ctx, profileID, completeness.Completed); err != nil {
			return domain.Completeness{}, fmt.Errorf("error persisting onboarding flag: %w", err)
		}
	}

	return completeness, nil
}

func (s *profileServiceImpl) deriveCompleteness(ctx context.Context, profile *models.Profile) (domain.Completeness, error) {
	interestCount, err := s.interestRepo.CountUserInterests(ctx, profile.ID)
	if err != nil {
		return domain.Completeness{}, fmt.Errorf("error counting interests: %w", err)
	}
	educationCount, err := s.educationRepo.CountByProfile(ctx, profile.ID)
	if err != nil {
		return domain.Completeness{}, fmt.Errorf("error counting education records: %w", err)
	}

	return domain.EvaluateCompleteness(domain.BasicInfo{
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Bio:       profile.Bio,
	}, interestCount, educationCount), nil
}
