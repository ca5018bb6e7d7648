package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathpiper/backend/internal/app/models"
	"github.com/pathpiper/backend/internal/app/models/dto"
	"github.com/pathpiper/backend/internal/app/repositories"
	"github.com/pathpiper/backend/internal/domain"
	"github.com/pathpiper/backend/internal/pkg/apperrors"
)

// fakeGoalStore keeps goals in memory and applies change sets the way the
// SQL layer does.
type fakeGoalStore struct {
	nextID    int64
	goals     map[int64]*models.Goal
	suggested map[int64]*models.SuggestedGoal

	appliedChangeSets []domain.GoalChangeSet
}

func newFakeGoalStore() *fakeGoalStore {
	return &fakeGoalStore{
		nextID:    1,
		goals:     map[int64]*models.Goal{},
		suggested: map[int64]*models.SuggestedGoal{},
	}
}

func (f *fakeGoalStore) seedGoal(profileID, title string) *models.Goal {
	g := &models.Goal{ID: f.nextID, ProfileID: profileID, Title: title, Category: "academic"}
	f.nextID++
	f.goals[g.ID] = g
	return g
}

func (f *fakeGoalStore) seedSuggested(profileID, title string) *models.SuggestedGoal {
	g := &models.SuggestedGoal{ID: f.nextID, ProfileID: profileID, Title: title}
	f.nextID++
	f.suggested[g.ID] = g
	return g
}

func (f *fakeGoalStore) ListGoals(_ context.Context, profileID string) ([]*models.Goal, error) {
	var out []*models.Goal
	for _, g := range f.goals {
		if g.ProfileID == profileID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGoalStore) ApplyGoalChanges(_ context.Context, profileID string, cs domain.GoalChangeSet) error {
	f.appliedChangeSets = append(f.appliedChangeSets, cs)
	for _, fields := range cs.ToInsert {
		f.goals[f.nextID] = &models.Goal{
			ID: f.nextID, ProfileID: profileID,
			Title: fields.Title, Description: fields.Description,
			Category: fields.Category, Timeframe: fields.Timeframe,
		}
		f.nextID++
	}
	for _, item := range cs.ToUpdate {
		if g, ok := f.goals[item.ID]; ok {
			g.Title, g.Description = item.Title, item.Description
			g.Category, g.Timeframe = item.Category, item.Timeframe
		}
	}
	for _, id := range cs.ToDeleteIDs {
		delete(f.goals, id)
	}
	return nil
}

func (f *fakeGoalStore) ListSuggestedGoals(_ context.Context, profileID string) ([]*models.SuggestedGoal, error) {
	var out []*models.SuggestedGoal
	for _, g := range f.suggested {
		if g.ProfileID == profileID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGoalStore) ApplySuggestedGoalChanges(_ context.Context, profileID string, cs domain.GoalChangeSet) error {
	f.appliedChangeSets = append(f.appliedChangeSets, cs)
	for _, fields := range cs.ToInsert {
		f.suggested[f.nextID] = &models.SuggestedGoal{
			ID: f.nextID, ProfileID: profileID,
			Title: fields.Title, Description: fields.Description,
			Category: fields.Category, Timeframe: fields.Timeframe,
		}
		f.nextID++
	}
	for _, item := range cs.ToUpdate {
		if g, ok := f.suggested[item.ID]; ok {
			g.Title, g.Description = item.Title, item.Description
			g.Category, g.Timeframe = item.Category, item.Timeframe
		}
	}
	for _, id := range cs.ToDeleteIDs {
		delete(f.suggested, id)
	}
	return nil
}

func (f *fakeGoalStore) SetSuggestedGoalAdded(_ context.Context, id int64, profileID string, isAdded bool) error {
	g, ok := f.suggested[id]
	if !ok || g.ProfileID != profileID {
		return repositories.ErrNotFound
	}
	g.IsAdded = isAdded
	return nil
}

func (f *fakeGoalStore) DeleteSuggestedGoal(_ context.Context, id int64, profileID string) error {
	g, ok := f.suggested[id]
	if !ok || g.ProfileID != profileID {
		return repositories.ErrNotFound
	}
	delete(f.suggested, id)
	return nil
}

func goalRequest(items ...dto.GoalItemRequest) *dto.SaveGoalsRequest {
	return &dto.SaveGoalsRequest{Goals: items}
}

func TestSaveGoals(t *testing.T) {
	ctx := context.Background()

	t.Run("identical submission is a no-op", func(t *testing.T) {
		store := newFakeGoalStore()
		g := store.seedGoal("u-1", "Learn calculus")
		svc := NewGoalService(store, zerolog.Nop())

		resp, err := svc.SaveGoals(ctx, "u-1", goalRequest(dto.GoalItemRequest{
			ID: g.ID, Title: g.Title, Category: g.Category,
		}))
		require.NoError(t, err)
		assert.True(t, resp.NoChange)
		assert.Zero(t, resp.Inserted)
		assert.Zero(t, resp.Updated)
		assert.Zero(t, resp.Deleted)
	})

	t.Run("mixed insert update delete", func(t *testing.T) {
		store := newFakeGoalStore()
		kept := store.seedGoal("u-1", "Learn calculus")
		store.seedGoal("u-1", "Dropped goal")
		svc := NewGoalService(store, zerolog.Nop())

		resp, err := svc.SaveGoals(ctx, "u-1", goalRequest(
			dto.GoalItemRequest{ID: kept.ID, Title: "Master calculus", Category: kept.Category},
			dto.GoalItemRequest{ID: -1, Title: "Join robotics club"},
		))
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Inserted)
		assert.Equal(t, 1, resp.Updated)
		assert.Equal(t, 1, resp.Deleted)
		assert.False(t, resp.NoChange)

		goals, err := svc.ListGoals(ctx, "u-1")
		require.NoError(t, err)
		require.Len(t, goals, 2)
		titles := []string{goals[0].Title, goals[1].Title}
		assert.ElementsMatch(t, []string{"Master calculus", "Join robotics club"}, titles)
	})

	t.Run("negative placeholder ids are never persisted", func(t *testing.T) {
		store := newFakeGoalStore()
		svc := NewGoalService(store, zerolog.Nop())

		_, err := svc.SaveGoals(ctx, "u-1", goalRequest(
			dto.GoalItemRequest{ID: -42, Title: "New goal"},
		))
		require.NoError(t, err)

		goals, err := svc.ListGoals(ctx, "u-1")
		require.NoError(t, err)
		require.Len(t, goals, 1)
		assert.Positive(t, goals[0].ID)
	})

	t.Run("another profile's goals are untouched", func(t *testing.T) {
		store := newFakeGoalStore()
		other := store.seedGoal("u-2", "Other user goal")
		svc := NewGoalService(store, zerolog.Nop())

		resp, err := svc.SaveGoals(ctx, "u-1", goalRequest())
		require.NoError(t, err)
		assert.True(t, resp.NoChange)
		assert.Contains(t, store.goals, other.ID)
	})
}

func TestSaveSuggestedGoals(t *testing.T) {
	ctx := context.Background()
	store := newFakeGoalStore()
	existing := store.seedSuggested("u-1", "Explore astronomy")
	svc := NewGoalService(store, zerolog.Nop())

	resp, err := svc.SaveSuggestedGoals(ctx, "u-1", goalRequest(
		dto.GoalItemRequest{ID: existing.ID, Title: "Explore astrophysics"},
		dto.GoalItemRequest{ID: -1, Title: "Start a study group"},
	))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Inserted)
	assert.Equal(t, 1, resp.Updated)
	assert.Zero(t, resp.Deleted)

	suggested, err := svc.ListSuggestedGoals(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, suggested, 2)
}

func TestUpdateSuggestedGoal(t *testing.T) {
	ctx := context.Background()
	store := newFakeGoalStore()
	g := store.seedSuggested("u-1", "Explore astronomy")
	svc := NewGoalService(store, zerolog.Nop())

	require.NoError(t, svc.UpdateSuggestedGoal(ctx, "u-1", g.ID, true))
	assert.True(t, store.suggested[g.ID].IsAdded)

	assert.ErrorIs(t, svc.UpdateSuggestedGoal(ctx, "u-1", 9999, true), apperrors.ErrGoalNotFound)
	assert.ErrorIs(t, svc.UpdateSuggestedGoal(ctx, "u-2", g.ID, true), apperrors.ErrGoalNotFound)
}

func TestDeleteSuggestedGoal(t *testing.T) {
	ctx := context.Background()
	store := newFakeGoalStore()
	g := store.seedSuggested("u-1", "Explore astronomy")
	svc := NewGoalService(store, zerolog.Nop())

	assert.ErrorIs(t, svc.DeleteSuggestedGoal(ctx, "u-2", g.ID), apperrors.ErrGoalNotFound)
	require.NoError(t, svc.DeleteSuggestedGoal(ctx, "u-1", g.ID))
	assert.ErrorIs(t, svc.DeleteSuggestedGoal(ctx, "u-1", g.ID), apperrors.ErrGoalNotFound)
}
