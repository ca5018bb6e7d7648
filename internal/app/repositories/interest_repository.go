package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pathpiper/backend/internal/app/models"
	"github.com/pathpiper/backend/internal/db"
	"github.com/pathpiper/backend/internal/pkg/logger"
)

// InterestRepository handles the interest and skill taxonomies and their
// per-profile join rows.
type InterestRepository struct {
	db *pgxpool.Pool
}

// NewInterestRepository creates a new InterestRepository
func NewInterestRepository(db *pgxpool.Pool) *InterestRepository {
	return &InterestRepository{db: db}
}

// ListInterests retrieves the full interest taxonomy
func (r *InterestRepository) ListInterests(ctx context.Context) ([]*models.Interest, error) {
	sql, args, err := psql.Select("id", "name", "category").
		From("interests").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list interests query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying interests: %w", err)
	}
	defer rows.Close()

	interests := []*models.Interest{}
	for rows.Next() {
		i := &models.Interest{}
		if err := rows.Scan(&i.ID, &i.Name, &i.Category); err != nil {
			return nil, fmt.Errorf("error scanning interest row: %w", err)
		}
		interests = append(interests, i)
	}
	return interests, rows.Err()
}

// GetUserInterests retrieves the interests selected by a profile
func (r *InterestRepository) GetUserInterests(ctx context.Context, profileID string) ([]*models.Interest, error) {
	sql, args, err := psql.Select("i.id", "i.name", "i.category").
		From("user_interests ui").
		Join("interests i ON i.id = ui.interest_id").
		Where(squirrel.Eq{"ui.profile_id": profileID}).
		OrderBy("i.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user interests query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying user interests: %w", err)
	}
	defer rows.Close()

	interests := []*models.Interest{}
	for rows.Next() {
		i := &models.Interest{}
		if err := rows.Scan(&i.ID, &i.Name, &i.Category); err != nil {
			return nil, fmt.Errorf("error scanning user interest row: %w", err)
		}
		interests = append(interests, i)
	}
	return interests, rows.Err()
}

// GetUserSkills retrieves the skills selected by a profile
func (r *InterestRepository) GetUserSkills(ctx context.Context, profileID string) ([]*models.Skill, error) {
	sql, args, err := psql.Select("s.id", "s.name", "s.category").
		From("user_skills us").
		Join("skills s ON s.id = us.skill_id").
		Where(squirrel.Eq{"us.profile_id": profileID}).
		OrderBy("s.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user skills query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying user skills: %w", err)
	}
	defer rows.Close()

	skills := []*models.Skill{}
	for rows.Next() {
		s := &models.Skill{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Category); err != nil {
			return nil, fmt.Errorf("error scanning user skill row: %w", err)
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

// CountUserInterests returns how many interest rows a profile has
func (r *InterestRepository) CountUserInterests(ctx context.Context, profileID string) (int, error) {
	return r.countJoinRows(ctx, "user_interests", profileID)
}

// CountUserSkills returns how many skill rows a profile has
func (r *InterestRepository) CountUserSkills(ctx context.Context, profileID string) (int, error) {
	return r.countJoinRows(ctx, "user_skills", profileID)
}

func (r *InterestRepository) countJoinRows(ctx context.Context, table, profileID string) (int, error) {
	sql, args, err := psql.Select("COUNT(*)").
		From(table).
		Where(squirrel.Eq{"profile_id": profileID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting %s rows: %w", table, err)
	}
	return count, nil
}

// ReplaceUserInterests replaces a profile's interest selection in one
// transaction.
func (r *InterestRepository) ReplaceUserInterests(ctx context.Context, profileID string, interestIDs []int64) error {
	return r.replaceJoinRows(ctx, "user_interests", "interest_id", profileID, interestIDs)
}

// ReplaceUserSkills replaces a profile's skill selection in one transaction.
func (r *InterestRepository) ReplaceUserSkills(ctx context.Context, profileID string, skillIDs []int64) error {
	return r.replaceJoinRows(ctx, "user_skills", "skill_id", profileID, skillIDs)
}

func (r *InterestRepository) replaceJoinRows(ctx context.Context, table, idColumn, profileID string, ids []int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := psql.Delete(table).
			Where(squirrel.Eq{"profile_id": profileID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Str("table", table).Msg("Error clearing join rows")
			return fmt.Errorf("error clearing %s rows: %w", table, err)
		}

		if len(ids) == 0 {
			return nil
		}

		insert := psql.Insert(table).Columns("profile_id", idColumn)
		for _, id := range ids {
			insert = insert.Values(profileID, id)
		}
		sql, args, err = insert.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Str("table", table).Msg("Error inserting join rows")
			return fmt.Errorf("error inserting %s rows: %w", table, err)
		}

		return nil
	})
}
