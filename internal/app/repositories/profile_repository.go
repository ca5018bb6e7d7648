package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pathpiper/backend/internal/app/models"
	"github.com/pathpiper/backend/internal/db"
	"github.com/pathpiper/backend/internal/domain"
	"github.com/pathpiper/backend/internal/pkg/dberrors"
	"github.com/pathpiper/backend/internal/pkg/logger"
)

// Profile error types
var (
	ErrProfileNotFound    = ErrNotFound
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// ProfileRepository handles profile database operations
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = "id, email, password, role, first_name, last_name, bio, location, tagline, profile_image_url, parent_id, parent_verified, email_verified, created_at, updated_at"

func scanProfile(row pgx.Row) (*models.Profile, error) {
	p := &models.Profile{}
	err := row.Scan(&p.ID, &p.Email, &p.Password, &p.Role, &p.FirstName, &p.LastName,
		&p.Bio, &p.Location, &p.Tagline, &p.ProfileImageURL, &p.ParentID,
		&p.ParentVerified, &p.EmailVerified, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreateProfile inserts a profile and, for students, its student extension
// row, in one transaction.
func (r *ProfileRepository) CreateProfile(ctx context.Context, profile *models.Profile, student *models.StudentProfile) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := psql.Insert("profiles").
			Columns("id", "email", "password", "role", "first_name", "last_name", "bio", "location", "tagline").
			Values(profile.ID, profile.Email, profile.Password, profile.Role,
				profile.FirstName, profile.LastName, profile.Bio, profile.Location, profile.Tagline).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create profile query: %w", err)
		}

		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			if dberrors.IsDuplicateKeyError(err) {
				return ErrEmailAlreadyExists
			}
			logger.Error().Err(err).Msg("Error executing create profile query")
			return fmt.Errorf("error creating profile: %w", err)
		}

		if profile.Role != domain.RoleStudent {
			return nil
		}

		if student == nil {
			student = &models.StudentProfile{}
		}
		sql, args, err = psql.Insert("student_profiles").
			Columns("profile_id", "birth_month", "birth_year", "education_level", "onboarding_completed").
			Values(profile.ID, student.BirthMonth, student.BirthYear, student.EducationLevel, false).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create student profile query: %w", err)
		}

		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Msg("Error executing create student profile query")
			return fmt.Errorf("error creating student profile: %w", err)
		}

		return nil
	})
}

// GetProfileByID retrieves a profile by its opaque id
func (r *ProfileRepository) GetProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	sql, args, err := psql.Select(profileColumns).
		From("profiles").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get profile query: %w", err)
	}

	profile, err := scanProfile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		logger.Error().Err(err).Str("profileID", id).Msg("Error scanning profile row")
		return nil, fmt.Errorf("error getting profile by ID: %w", err)
	}

	return profile, nil
}

// GetProfileByEmail retrieves a profile by email
func (r *ProfileRepository) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	sql, args, err := psql.Select(profileColumns).
		From("profiles").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get profile by email query: %w", err)
	}

	profile, err := scanProfile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		logger.Error().Err(err).Msg("Error scanning profile row by email")
		return nil, fmt.Errorf("error getting profile by email: %w", err)
	}

	return profile, nil
}

// UpdateProfileFields applies a partial update to the profile row
func (r *ProfileRepository) UpdateProfileFields(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = squirrel.Expr("NOW()")

	sql, args, err := psql.Update("profiles").
		SetMap(fields).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update profile query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("profileID", id).Msg("Error executing update profile query")
		return fmt.Errorf("error updating profile: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// GetStudentProfile retrieves the student extension row
func (r *ProfileRepository) GetStudentProfile(ctx context.Context, profileID string) (*models.StudentProfile, error) {
	sql, args, err := psql.Select("profile_id", "birth_month", "birth_year", "education_level", "onboarding_completed").
		From("student_profiles").
		Where(squirrel.Eq{"profile_id": profileID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student profile query: %w", err)
	}

	s := &models.StudentProfile{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&s.ProfileID, &s.BirthMonth, &s.BirthYear, &s.EducationLevel, &s.OnboardingCompleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		logger.Error().Err(err).Str("profileID", profileID).Msg("Error scanning student profile row")
		return nil, fmt.Errorf("error getting student profile: %w", err)
	}

	return s, nil
}

// UpdateStudentFields applies a partial update to the student extension row
func (r *ProfileRepository) UpdateStudentFields(ctx context.Context, profileID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	sql, args, err := psql.Update("student_profiles").
		SetMap(fields).
		Where(squirrel.Eq{"profile_id": profileID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student profile query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("profileID", profileID).Msg("Error executing update student profile query")
		return fmt.Errorf("error updating student profile: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// SetOnboardingCompleted rewrites the persisted completeness cache
func (r *ProfileRepository) SetOnboardingCompleted(ctx context.Context, profileID string, completed bool) error {
	return r.UpdateStudentFields(ctx, profileID, map[string]interface{}{
		"onboarding_completed": completed,
	})
}
