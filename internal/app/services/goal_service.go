package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/pathpiper/backend/internal/app/models"
	"github.com/pathpiper/backend/internal/app/models/dto"
	"github.com/pathpiper/backend/internal/app/repositories"
	"github.com/pathpiper/backend/internal/domain"
	"github.com/pathpiper/backend/internal/pkg/apperrors"
)

// GoalStore is the goal persistence surface used by GoalService
type GoalStore interface {
	ListGoals(ctx context.Context, profileID string) ([]*models.Goal, error)
	ApplyGoalChanges(ctx context.Context, profileID string, cs domain.GoalChangeSet) error
	ListSuggestedGoals(ctx context.Context, profileID string) ([]*models.SuggestedGoal, error)
	ApplySuggestedGoalChanges(ctx context.Context, profileID string, cs domain.GoalChangeSet) error
	SetSuggestedGoalAdded(ctx context.Context, id int64, profileID string, isAdded bool) error
	DeleteSuggestedGoal(ctx context.Context, id int64, profileID string) error
}

// GoalService defines the interface for goal operations
type GoalService interface {
	ListGoals(ctx context.Context, profileID string) ([]*models.Goal, error)
	SaveGoals(ctx context.Context, profileID string, req *dto.SaveGoalsRequest) (*dto.SaveGoalsResponse, error)
	ListSuggestedGoals(ctx context.Context, profileID string) ([]*models.SuggestedGoal, error)
	SaveSuggestedGoals(ctx context.Context, profileID string, req *dto.SaveGoalsRequest) (*dto.SaveGoalsResponse, error)
	UpdateSuggestedGoal(ctx context.Context, profileID string, id int64, isAdded bool) error
	DeleteSuggestedGoal(ctx context.Context, profileID string, id int64) error
}

// goalServiceImpl implements GoalService
type goalServiceImpl struct {
	goalRepo GoalStore
	logger   zerolog.Logger
}

// NewGoalService creates a new GoalService
func NewGoalService(goalRepo GoalStore, logger zerolog.Logger) GoalService {
	return &goalServiceImpl{
		goalRepo: goalRepo,
		logger:   logger,
	}
}

// ListGoals returns the profile's goals
func (s *goalServiceImpl) ListGoals(ctx context.Context, profileID string) ([]*models.Goal, error) {
	return s.goalRepo.ListGoals(ctx, profileID)
}

// SaveGoals reconciles a client-submitted full goal list against stored
// state: negative ids insert, changed fields update, absent ids delete.
// An identical submission is a no-op that touches nothing.
func (s *goalServiceImpl) SaveGoals(ctx context.Context, profileID string, req *dto.SaveGoalsRequest) (*dto.SaveGoalsResponse, error) {
	existing, err := s.goalRepo.ListGoals(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("error listing goals for reconcile: %w", err)
	}

	existingItems := make([]domain.GoalItem, 0, len(existing))
	for _, g := range existing {
		existingItems = append(existingItems, domain.GoalItem{
			ID: g.ID,
			GoalFields: domain.GoalFields{
				Title:       g.Title,
				Description: g.Description,
				Category:    g.Category,
				Timeframe:   g.Timeframe,
			},
		})
	}

	cs := domain.ReconcileGoals(existingItems, submittedItems(req))
	if err := s.goalRepo.ApplyGoalChanges(ctx, profileID, cs); err != nil {
		return nil, fmt.Errorf("error applying goal changes: %w", err)
	}

	return changeSummary(cs), nil
}

// ListSuggestedGoals returns the profile's suggested goals
func (s *goalServiceImpl) ListSuggestedGoals(ctx context.Context, profileID string) ([]*models.SuggestedGoal, error) {
	return s.goalRepo.ListSuggestedGoals(ctx, profileID)
}

// SaveSuggestedGoals runs the same reconciliation over the suggested goal
// list.
func (s *goalServiceImpl) SaveSuggestedGoals(ctx context.Context, profileID string, req *dto.SaveGoalsRequest) (*dto.SaveGoalsResponse, error) {
	existing, err := s.goalRepo.ListSuggestedGoals(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("error listing suggested goals for reconcile: %w", err)
	}

	existingItems := make([]domain.GoalItem, 0, len(existing))
	for _, g := range existing {
		existingItems = append(existingItems, domain.GoalItem{
			ID: g.ID,
			GoalFields: domain.GoalFields{
				Title:       g.Title,
				Description: g.Description,
				Category:    g.Category,
				Timeframe:   g.Timeframe,
			},
		})
	}

	cs := domain.ReconcileGoals(existingItems, submittedItems(req))
	if err := s.goalRepo.ApplySuggestedGoalChanges(ctx, profileID, cs); err != nil {
		return nil, fmt.Errorf("error applying suggested goal changes: %w", err)
	}

	return changeSummary(cs), nil
}

// UpdateSuggestedGoal toggles the added flag on a suggested goal
func (s *goalServiceImpl) UpdateSuggestedGoal(ctx context.Context, profileID string, id int64, isAdded bool) error {
	if err := s.goalRepo.SetSuggestedGoalAdded(ctx, id, profileID, isAdded); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrGoalNotFound
		}
		return fmt.Errorf("error updating suggested goal: %w", err)
	}
	return nil
}

// DeleteSuggestedGoal removes a suggested goal
func (s *goalServiceImpl) DeleteSuggestedGoal(ctx context.Context, profileID string, id int64) error {
	if err := s.goalRepo.DeleteSuggestedGoal(ctx, id, profileID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrGoalNotFound
		}
		return fmt.Errorf("error deleting suggested goal: %w", err)
	}
	return nil
}

func submittedItems(req *dto.SaveGoalsRequest) []domain.GoalItem {
	items := make([]domain.GoalItem, 0, len(req.Goals))
	for _, g := range req.Goals {
		items = append(items, domain.GoalItem{
			ID: g.ID,
			GoalFields: domain.GoalFields{
				Title:       g.Title,
				Description: g.Description,
				Category:    g.Category,
				Timeframe:   g.Timeframe,
			},
		})
	}
	return items
}

func changeSummary(cs domain.GoalChangeSet) *dto.SaveGoalsResponse {
	return &dto.SaveGoalsResponse{
		Inserted: len(cs.ToInsert),
		Updated:  len(cs.ToUpdate),
		Deleted:  len(cs.ToDeleteIDs),
		NoChange: cs.Empty(),
	}
}
