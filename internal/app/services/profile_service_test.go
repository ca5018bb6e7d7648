package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathpiper/backend/internal/app/models"
	"github.com/pathpiper/backend/internal/app/models/dto"
	"github.com/pathpiper/backend/internal/app/repositories"
	"github.com/pathpiper/backend/internal/domain"
	"github.com/pathpiper/backend/internal/pkg/apperrors"
)

type fakeProfileStore struct {
	profile *models.Profile
	student *models.StudentProfile

	onboardingWrites []bool
}

func (f *fakeProfileStore) GetProfileByID(_ context.Context, id string) (*models.Profile, error) {
	if f.profile == nil || f.profile.ID != id {
		return nil, repositories.ErrNotFound
	}
	return f.profile, nil
}

func (f *fakeProfileStore) UpdateProfileFields(_ context.Context, id string, fields map[string]interface{}) error {
	if f.profile == nil || f.profile.ID != id {
		return repositories.ErrNotFound
	}
	if v, ok := fields["first_name"]; ok {
		f.profile.FirstName = v.(string)
	}
	if v, ok := fields["last_name"]; ok {
		f.profile.LastName = v.(string)
	}
	if v, ok := fields["bio"]; ok {
		f.profile.Bio = v.(string)
	}
	if v, ok := fields["location"]; ok {
		f.profile.Location = v.(string)
	}
	return nil
}

func (f *fakeProfileStore) GetStudentProfile(_ context.Context, profileID string) (*models.StudentProfile, error) {
	if f.student == nil || f.student.ProfileID != profileID {
		return nil, repositories.ErrNotFound
	}
	return f.student, nil
}

func (f *fakeProfileStore) UpdateStudentFields(_ context.Context, profileID string, fields map[string]interface{}) error {
	if f.student == nil || f.student.ProfileID != profileID {
		return repositories.ErrNotFound
	}
	if v, ok := fields["birth_month"]; ok {
		f.student.BirthMonth = v.(int)
	}
	if v, ok := fields["birth_year"]; ok {
		f.student.BirthYear = v.(int)
	}
	return nil
}

func (f *fakeProfileStore) SetOnboardingCompleted(_ context.Context, profileID string, completed bool) error {
	if f.student == nil || f.student.ProfileID != profileID {
		return repositories.ErrNotFound
	}
	f.student.OnboardingCompleted = completed
	f.onboardingWrites = append(f.onboardingWrites, completed)
	return nil
}

type fakeInterestStore struct {
	interests map[string][]int64
	skills    map[string][]int64
}

func newFakeInterestStore() *fakeInterestStore {
	return &fakeInterestStore{interests: map[string][]int64{}, skills: map[string][]int64{}}
}

func (f *fakeInterestStore) ListInterests(_ context.Context) ([]*models.Interest, error) {
	return nil, nil
}

func (f *fakeInterestStore) GetUserInterests(_ context.Context, profileID string) ([]*models.Interest, error) {
	out := make([]*models.Interest, 0, len(f.interests[profileID]))
	for _, id := range f.interests[profileID] {
		out = append(out, &models.Interest{ID: id})
	}
	return out, nil
}

func (f *fakeInterestStore) GetUserSkills(_ context.Context, profileID string) ([]*models.Skill, error) {
	out := make([]*models.Skill, 0, len(f.skills[profileID]))
	for _, id := range f.skills[profileID] {
		out = append(out, &models.Skill{ID: id})
	}
	return out, nil
}

func (f *fakeInterestStore) CountUserInterests(_ context.Context, profileID string) (int, error) {
	return len(f.interests[profileID]), nil
}

func (f *fakeInterestStore) ReplaceUserInterests(_ context.Context, profileID string, interestIDs []int64) error {
	f.interests[profileID] = interestIDs
	return nil
}

func (f *fakeInterestStore) ReplaceUserSkills(_ context.Context, profileID string, skillIDs []int64) error {
	f.skills[profileID] = skillIDs
	return nil
}

type fakeEducationCounter struct{ count int }

func (f *fakeEducationCounter) CountByProfile(context.Context, string) (int, error) {
	return f.count, nil
}

func completeStudentProfile() (*fakeProfileStore, *fakeInterestStore, *fakeEducationCounter) {
	profiles := &fakeProfileStore{
		profile: &models.Profile{
			ID: "u-1", Role: domain.RoleStudent,
			FirstName: "Maya", LastName: "Okafor", Bio: "Aspiring astronomer",
		},
		student: &models.StudentProfile{ProfileID: "u-1", BirthMonth: 4, BirthYear: 2008},
	}
	interests := newFakeInterestStore()
	interests.interests["u-1"] = []int64{1, 2}
	return profiles, interests, &fakeEducationCounter{count: 1}
}

func TestGetProfileStudent(t *testing.T) {
	profiles, interests, education := completeStudentProfile()
	svc := NewProfileService(profiles, interests, education, zerolog.Nop())

	resp, err := svc.GetProfile(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", resp.Profile.ID)
	require.NotNil(t, resp.Student)
	require.NotNil(t, resp.Completeness)
	assert.True(t, resp.Completeness.Completed)
	assert.Len(t, resp.Interests, 2)

	wantBand := domain.AgeGroupAt(4, 2008, time.Now())
	assert.Equal(t, wantBand, resp.AgeGroup)
}

func TestGetProfileNotFound(t *testing.T) {
	svc := NewProfileService(&fakeProfileStore{}, newFakeInterestStore(), &fakeEducationCounter{}, zerolog.Nop())
	_, err := svc.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)
}

func TestRecomputeCompletenessPersistsFlag(t *testing.T) {
	ctx := context.Background()
	profiles, interests, education := completeStudentProfile()
	svc := NewProfileService(profiles, interests, education, zerolog.Nop())

	completeness, err := svc.RecomputeCompleteness(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, completeness.Completed)
	assert.True(t, profiles.student.OnboardingCompleted)

	// Removing all interests flips the persisted flag back
	require.NoError(t, svc.ReplaceInterests(ctx, "u-1", nil))
	assert.False(t, profiles.student.OnboardingCompleted)
	assert.Equal(t, []bool{true, false}, profiles.onboardingWrites)
}

func TestReplaceSkillsDoesNotRecompute(t *testing.T) {
	ctx := context.Background()
	profiles, interests, education := completeStudentProfile()
	svc := NewProfileService(profiles, interests, education, zerolog.Nop())

	require.NoError(t, svc.ReplaceSkills(ctx, "u-1", []int64{7}))
	assert.Empty(t, profiles.onboardingWrites)
}

func TestUpdateProfileRecomputes(t *testing.T) {
	ctx := context.Background()
	profiles, interests, education := completeStudentProfile()
	profiles.profile.Bio = ""
	svc := NewProfileService(profiles, interests, education, zerolog.Nop())

	bio := "Robotics and stargazing"
	resp, err := svc.UpdateProfile(ctx, "u-1", &dto.UpdateProfileRequest{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, bio, resp.Profile.Bio)
	require.NotNil(t, resp.Completeness)
	assert.True(t, resp.Completeness.Completed)
	assert.True(t, profiles.student.OnboardingCompleted)
}

func TestGetCompletenessGate(t *testing.T) {
	ctx := context.Background()

	t.Run("unverified minor is gated", func(t *testing.T) {
		profiles, interests, education := completeStudentProfile()
		profiles.student.BirthYear = time.Now().Year() - 12
		svc := NewProfileService(profiles, interests, education, zerolog.Nop())

		resp, err := svc.GetCompleteness(ctx, "u-1")
		require.NoError(t, err)
		assert.False(t, resp.Gate.Allowed)
		assert.True(t, resp.Gate.NeedsParentApproval)
		assert.True(t, resp.Gate.NeedsEmailVerification)
	})

	t.Run("non-student defaults to allowed", func(t *testing.T) {
		profiles := &fakeProfileStore{
			profile: &models.Profile{ID: "u-1", Role: domain.RoleMentor, FirstName: "Jo", LastName: "Ng", Bio: "mentor"},
		}
		svc := NewProfileService(profiles, newFakeInterestStore(), &fakeEducationCounter{}, zerolog.Nop())

		resp, err := svc.GetCompleteness(ctx, "u-1")
		require.NoError(t, err)
		assert.True(t, resp.Gate.Allowed)
		assert.Equal(t, domain.AgeGroupYoungAdult, resp.AgeGroup)
	})
}
