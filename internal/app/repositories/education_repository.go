package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pathpiper/backend/internal/app/models"
	"github.com/pathpiper/backend/internal/pkg/logger"
)

// Education error types
var (
	ErrEducationNotFound = ErrNotFound
	// ErrVerificationDecided is returned when the conditional verification
	// update matches no undecided row.
	ErrVerificationDecided = errors.New("education verification already decided")
)

// EducationRepository handles education history database operations
type EducationRepository struct {
	db *pgxpool.Pool
}

// NewEducationRepository creates a new EducationRepository
func NewEducationRepository(db *pgxpool.Pool) *EducationRepository {
	return &EducationRepository{db: db}
}

const educationColumns = "id, profile_id, institution_id, institution_name, institution_type_id, degree_program, field_of_study, subjects, start_date, end_date, is_current, institution_verified, created_at, updated_at"

func scanEducation(row pgx.Row) (*models.EducationHistory, error) {
	e := &models.EducationHistory{}
	err := row.Scan(&e.ID, &e.ProfileID, &e.InstitutionID, &e.InstitutionName,
		&e.InstitutionTypeID, &e.DegreeProgram, &e.FieldOfStudy, &e.Subjects,
		&e.StartDate, &e.EndDate, &e.IsCurrent, &e.InstitutionVerified,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Create inserts a new education record and returns its id
func (r *EducationRepository) Create(ctx context.Context, e *models.EducationHistory) (int64, error) {
	sql, args, err := psql.Insert("student_education_history").
		Columns("profile_id", "institution_id", "institution_name", "institution_type_id",
			"degree_program", "field_of_study", "subjects", "start_date", "end_date", "is_current").
		Values(e.ProfileID, e.InstitutionID, e.InstitutionName, e.InstitutionTypeID,
			e.DegreeProgram, e.FieldOfStudy, e.Subjects, e.StartDate, e.EndDate, e.IsCurrent).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create education query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Msg("Error executing create education query")
		return 0, fmt.Errorf("error creating education record: %w", err)
	}
	return id, nil
}

// GetByID retrieves an education record by id
func (r *EducationRepository) GetByID(ctx context.Context, id int64) (*models.EducationHistory, error) {
	sql, args, err := psql.Select(educationColumns).
		From("student_education_history").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get education query: %w", err)
	}

	e, err := scanEducation(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEducationNotFound
		}
		logger.Error().Err(err).Int64("educationID", id).Msg("Error scanning education row")
		return nil, fmt.Errorf("error getting education record: %w", err)
	}
	return e, nil
}

// ListByProfile retrieves all education records of a profile, newest first
func (r *EducationRepository) ListByProfile(ctx context.Context, profileID string) ([]*models.EducationHistory, error) {
	sql, args, err := psql.Select(educationColumns).
		From("student_education_history").
		Where(squirrel.Eq{"profile_id": profileID}).
		OrderBy("is_current DESC", "start_date DESC NULLS LAST", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list education query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying education records: %w", err)
	}
	defer rows.Close()

	records := []*models.EducationHistory{}
	for rows.Next() {
		e, err := scanEducation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning education row: %w", err)
		}
		records = append(records, e)
	}
	return records, rows.Err()
}

// CountByProfile returns how many education records a profile has
func (r *EducationRepository) CountByProfile(ctx context.Context, profileID string) (int, error) {
	sql, args, err := psql.Select("COUNT(*)").
		From("student_education_history").
		Where(squirrel.Eq{"profile_id": profileID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count education query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting education records: %w", err)
	}
	return count, nil
}

// UpdateFields applies a partial update to an education record owned by
// profileID.
func (r *EducationRepository) UpdateFields(ctx context.Context, id int64, profileID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = squirrel.Expr("NOW()")

	sql, args, err := psql.Update("student_education_history").
		SetMap(fields).
		Where(squirrel.Eq{"id": id, "profile_id": profileID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update education query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("educationID", id).Msg("Error executing update education query")
		return fmt.Errorf("error updating education record: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrEducationNotFound
	}
	return nil
}

// Delete removes an education record owned by profileID
func (r *EducationRepository) Delete(ctx context.Context, id int64, profileID string) error {
	sql, args, err := psql.Delete("student_education_history").
		Where(squirrel.Eq{"id": id, "profile_id": profileID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete education query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("educationID", id).Msg("Error executing delete education query")
		return fmt.Errorf("error deleting education record: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrEducationNotFound
	}
	return nil
}

// SetVerification applies the terminal verify/reject transition. The WHERE
// clause only matches undecided rows, so a second decision affects zero
// rows and surfaces as ErrVerificationDecided.
func (r *EducationRepository) SetVerification(ctx context.Context, id int64, verified bool) error {
	sql, args, err := psql.Update("student_education_history").
		Set("institution_verified", verified).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where("institution_verified IS NULL").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build verification update query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("educationID", id).Msg("Error executing verification update")
		return fmt.Errorf("error updating verification status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrVerificationDecided
	}
	return nil
}
