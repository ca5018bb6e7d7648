package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pathpiper/backend/internal/app/models"
	"github.com/pathpiper/backend/internal/db"
	"github.com/pathpiper/backend/internal/domain"
	"github.com/pathpiper/backend/internal/pkg/logger"
)

// Goal error types
var ErrGoalNotFound = ErrNotFound

// GoalRepository handles goal and suggested-goal database operations. The
// two tables are reconciled with the same change-set algorithm.
type GoalRepository struct {
	db *pgxpool.Pool
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(db *pgxpool.Pool) *GoalRepository {
	return &GoalRepository{db: db}
}

// ListGoals retrieves all goals of a profile, oldest first
func (r *GoalRepository) ListGoals(ctx context.Context, profileID string) ([]*models.Goal, error) {
	sql, args, err := psql.Select("id", "profile_id", "title", "description", "category", "timeframe", "completed", "created_at", "updated_at").
		From("goals").
		Where(squirrel.Eq{"profile_id": profileID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list goals query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying goals: %w", err)
	}
	defer rows.Close()

	goals := []*models.Goal{}
	for rows.Next() {
		g := &models.Goal{}
		if err := rows.Scan(&g.ID, &g.ProfileID, &g.Title, &g.Description, &g.Category,
			&g.Timeframe, &g.Completed, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning goal row: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// ApplyGoalChanges applies a reconciliation change set to the goals table in
// one transaction: deletes first, then inserts, then updates.
func (r *GoalRepository) ApplyGoalChanges(ctx context.Context, profileID string, cs domain.GoalChangeSet) error {
	return r.applyChanges(ctx, "goals", profileID, cs)
}

// ApplySuggestedGoalChanges applies a reconciliation change set to the
// suggested_goals table.
func (r *GoalRepository) ApplySuggestedGoalChanges(ctx context.Context, profileID string, cs domain.GoalChangeSet) error {
	return r.applyChanges(ctx, "suggested_goals", profileID, cs)
}

func (r *GoalRepository) applyChanges(ctx context.Context, table, profileID string, cs domain.GoalChangeSet) error {
	if cs.Empty() {
		return nil
	}

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if len(cs.ToDeleteIDs) > 0 {
			sql, args, err := psql.Delete(table).
				Where(squirrel.Eq{"profile_id": profileID, "id": cs.ToDeleteIDs}).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build delete query: %w", err)
			}
			if _, err := tx.Exec(ctx, sql, args...); err != nil {
				logger.Error().Err(err).Str("table", table).Msg("Error deleting goal rows")
				return fmt.Errorf("error deleting %s rows: %w", table, err)
			}
		}

		for _, item := range cs.ToInsert {
			sql, args, err := psql.Insert(table).
				Columns("profile_id", "title", "description", "category", "timeframe").
				Values(profileID, item.Title, item.Description, item.Category, item.Timeframe).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build insert query: %w", err)
			}
			if _, err := tx.Exec(ctx, sql, args...); err != nil {
				logger.Error().Err(err).Str("table", table).Msg("Error inserting goal row")
				return fmt.Errorf("error inserting %s row: %w", table, err)
			}
		}

		for _, item := range cs.ToUpdate {
			sql, args, err := psql.Update(table).
				SetMap(map[string]interface{}{
					"title":       item.Title,
					"description": item.Description,
					"category":    item.Category,
					"timeframe":   item.Timeframe,
					"updated_at":  squirrel.Expr("NOW()"),
				}).
				Where(squirrel.Eq{"id": item.ID, "profile_id": profileID}).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build update query: %w", err)
			}
			if _, err := tx.Exec(ctx, sql, args...); err != nil {
				logger.Error().Err(err).Str("table", table).Msg("Error updating goal row")
				return fmt.Errorf("error updating %s row: %w", table, err)
			}
		}

		return nil
	})
}

// ListSuggestedGoals retrieves all suggested goals of a profile
func (r *GoalRepository) ListSuggestedGoals(ctx context.Context, profileID string) ([]*models.SuggestedGoal, error) {
	sql, args, err := psql.Select("id", "profile_id", "title", "description", "category", "timeframe", "is_added", "created_at", "updated_at").
		From("suggested_goals").
		Where(squirrel.Eq{"profile_id": profileID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list suggested goals query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying suggested goals: %w", err)
	}
	defer rows.Close()

	goals := []*models.SuggestedGoal{}
	for rows.Next() {
		g := &models.SuggestedGoal{}
		if err := rows.Scan(&g.ID, &g.ProfileID, &g.Title, &g.Description, &g.Category,
			&g.Timeframe, &g.IsAdded, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning suggested goal row: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// SetSuggestedGoalAdded toggles the is_added flag on a suggested goal owned
// by profileID.
func (r *GoalRepository) SetSuggestedGoalAdded(ctx context.Context, id int64, profileID string, isAdded bool) error {
	sql, args, err := psql.Update("suggested_goals").
		Set("is_added", isAdded).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "profile_id": profileID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update suggested goal query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("goalID", id).Msg("Error executing update suggested goal query")
		return fmt.Errorf("error updating suggested goal: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrGoalNotFound
	}
	return nil
}

// DeleteSuggestedGoal removes a suggested goal owned by profileID
func (r *GoalRepository) DeleteSuggestedGoal(ctx context.Context, id int64, profileID string) error {
	sql, args, err := psql.Delete("suggested_goals").
		Where(squirrel.Eq{"id": id, "profile_id": profileID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete suggested goal query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("goalID", id).Msg("Error executing delete suggested goal query")
		return fmt.Errorf("error deleting suggested goal: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrGoalNotFound
	}
	return nil
}
