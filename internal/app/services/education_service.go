package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/pathpiper/backend/internal/app/models"
	"github.com/pathpiper/backend/internal/app/models/dto"
	"github.com/pathpiper/backend/internal/app/repositories"
	"github.com/pathpiper/backend/internal/pkg/apperrors"
)

// EducationStore is the education persistence surface used by
// EducationService.
type EducationStore interface {
	Create(ctx context.Context, e *models.EducationHistory) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.EducationHistory, error)
	ListByProfile(ctx context.Context, profileID string) ([]*models.EducationHistory, error)
	UpdateFields(ctx context.Context, id int64, profileID string, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64, profileID string) error
	SetVerification(ctx context.Context, id int64, verified bool) error
}

// EducationService defines the interface for education history operations
type EducationService interface {
	CreateEducation(ctx context.Context, profileID string, req *dto.CreateEducationRequest) (*dto.EducationResponse, error)
	ListEducation(ctx context.Context, profileID string) ([]*dto.EducationResponse, error)
	UpdateEducation(ctx context.Context, profileID string, id int64, req *dto.UpdateEducationRequest) (*dto.EducationResponse, error)
	DeleteEducation(ctx context.Context, profileID string, id int64) error
	Verify(ctx context.Context, institutionID string, req *dto.VerificationRequest) (*dto.EducationResponse, error)
}

// educationServiceImpl implements EducationService
type educationServiceImpl struct {
	educationRepo  EducationStore
	profileService ProfileService
	logger         zerolog.Logger
}

// NewEducationService creates a new EducationService
func NewEducationService(
	educationRepo EducationStore,
	profileService ProfileService,
	logger zerolog.Logger,
) EducationService {
	return &educationServiceImpl{
		educationRepo:  educationRepo,
		profileService: profileService,
		logger:         logger,
	}
}

// CreateEducation adds an education record for the caller and recomputes
// onboarding completeness from the new state.
func (s *educationServiceImpl) CreateEducation(ctx context.Context, profileID string, req *dto.CreateEducationRequest) (*dto.EducationResponse, error) {
	record := &models.EducationHistory{
		ProfileID:         profileID,
		InstitutionID:     req.InstitutionID,
		InstitutionName:   req.InstitutionName,
		InstitutionTypeID: req.InstitutionTypeID,
		DegreeProgram:     req.DegreeProgram,
		FieldOfStudy:      req.FieldOfStudy,
		Subjects:          req.Subjects,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		IsCurrent:         req.IsCurrent,
	}

	id, err := s.educationRepo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("error creating education record: %w", err)
	}
	record.ID = id

	if _, err := s.profileService.RecomputeCompleteness(ctx, profileID); err != nil {
		return nil, err
	}

	return dto.NewEducationResponse(record), nil
}

// ListEducation returns the caller's education records with explicit
// verification status.
func (s *educationServiceImpl) ListEducation(ctx context.Context, profileID string) ([]*dto.EducationResponse, error) {
	records, err := s.educationRepo.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("error listing education records: %w", err)
	}
	return dto.NewEducationResponses(records), nil
}

// UpdateEducation edits an education record owned by the caller
func (s *educationServiceImpl) UpdateEducation(ctx context.Context, profileID string, id int64, req *dto.UpdateEducationRequest) (*dto.EducationResponse, error) {
	fields := map[string]interface{}{}
	if req.InstitutionName != nil {
		fields["institution_name"] = *req.InstitutionName
	}
	if req.DegreeProgram != nil {
		fields["degree_program"] = *req.DegreeProgram
	}
	if req.FieldOfStudy != nil {
		fields["field_of_study"] = *req.FieldOfStudy
	}
	if req.Subjects != nil {
		fields["subjects"] = req.Subjects
	}
	if req.StartDate != nil {
		fields["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		fields["end_date"] = *req.EndDate
	}
	if req.IsCurrent != nil {
		fields["is_current"] = *req.IsCurrent
	}

	if len(fields) > 0 {
		if err := s.educationRepo.UpdateFields(ctx, id, profileID, fields); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, apperrors.ErrEducationNotFound
			}
			return nil, fmt.Errorf("error updating education record: %w", err)
		}
	}

	record, err := s.educationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrEducationNotFound
		}
		return nil, fmt.Errorf("error reloading education record: %w", err)
	}
	return dto.NewEducationResponse(record), nil
}

// DeleteEducation removes an education record owned by the caller and
// recomputes completeness, since losing the last record empties the
// education section.
func (s *educationServiceImpl) DeleteEducation(ctx context.Context, profileID string, id int64) error {
	if err := s.educationRepo.Delete(ctx, id, profileID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrEducationNotFound
		}
		return fmt.Errorf("error deleting education record: %w", err)
	}

	if _, err := s.profileService.RecomputeCompleteness(ctx, profileID); err != nil {
		return err
	}
	return nil
}

// Verify applies the institution's verify or reject decision to an
// education record. Only the institution the record references may decide,
// and both outcomes are terminal: a decided record cannot be decided again.
func (s *educationServiceImpl) Verify(ctx context.Context, institutionID string, req *dto.VerificationRequest) (*dto.EducationResponse, error) {
	record, err := s.educationRepo.GetByID(ctx, req.EducationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrEducationNotFound
		}
		return nil, fmt.Errorf("error loading education record for verification: %w", err)
	}

	if record.InstitutionID == nil || *record.InstitutionID != institutionID {
		return nil, apperrors.ErrPermissionDenied
	}

	if err := s.educationRepo.SetVerification(ctx, req.EducationID, req.Action == "verify"); err != nil {
		if errors.Is(err, repositories.ErrVerificationDecided) {
			return nil, apperrors.ErrAlreadyDecided
		}
		return nil, fmt.Errorf("error setting verification: %w", err)
	}

	s.logger.Info().
		Int64("educationID", req.EducationID).
		Str("institutionID", institutionID).
		Str("action", req.Action).
		Msg("Education verification decided")

	record, err = s.educationRepo.GetByID(ctx, req.EducationID)
	if err != nil {
		return nil, fmt.Errorf("error reloading education record: %w", err)
	}
	return dto.NewEducationResponse(record), nil
}
