package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathpiper/backend/internal/app/models"
	"github.com/pathpiper/backend/internal/app/models/dto"
	"github.com/pathpiper/backend/internal/app/repositories"
	"github.com/pathpiper/backend/internal/domain"
	"github.com/pathpiper/backend/internal/pkg/apperrors"
)

// fakePostStore is an in-memory PostStore for exercising the service logic
// without a database.
type fakePostStore struct {
	nextID    int64
	posts     map[int64]*models.FeedPost
	reactions map[string]string // "postID/profileID" -> reaction type
	likes     map[string]bool

	reactionTableMissing bool
	viewIncrements       int
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{
		nextID:    1,
		posts:     map[int64]*models.FeedPost{},
		reactions: map[string]string{},
		likes:     map[string]bool{},
	}
}

func (f *fakePostStore) assign(p *models.FeedPost) {
	p.ID = f.nextID
	f.nextID++
	f.posts[p.ID] = p
}

func (f *fakePostStore) CreateRootWithTrails(_ context.Context, root *models.FeedPost, trails []*models.FeedPost) error {
	f.assign(root)
	for i, trail := range trails {
		trail.IsTrail = true
		parentID := root.ID
		trail.ParentPostID = &parentID
		trail.TrailOrder = i + 1
		f.assign(trail)
	}
	root.Trails = trails
	return nil
}

func (f *fakePostStore) AppendTrail(_ context.Context, parentID int64, trail *models.FeedPost) error {
	parent, ok := f.posts[parentID]
	if !ok {
		return repositories.ErrNotFound
	}
	if parent.IsTrail {
		return repositories.ErrNotRootPost
	}
	order := 0
	for _, p := range f.posts {
		if p.IsTrail && p.ParentPostID != nil && *p.ParentPostID == parentID && p.TrailOrder > order {
			order = p.TrailOrder
		}
	}
	trail.IsTrail = true
	trail.ParentPostID = &parentID
	trail.TrailOrder = order + 1
	f.assign(trail)
	return nil
}

func (f *fakePostStore) GetPostByID(_ context.Context, id int64) (*models.FeedPost, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *post
	copied.Trails = nil
	return &copied, nil
}

func (f *fakePostStore) ListFeed(_ context.Context, filter repositories.FeedFilter, _ uint64, _ int) ([]*models.FeedPost, int64, error) {
	var out []*models.FeedPost
	for _, p := range f.posts {
		if p.IsTrail || p.ModerationStatus != domain.ModerationApproved {
			continue
		}
		if filter.PostType != "" && string(p.PostType) != filter.PostType {
			continue
		}
		copied := *p
		copied.Trails = nil
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (f *fakePostStore) ListTrails(_ context.Context, parentID int64) ([]*models.FeedPost, error) {
	var out []*models.FeedPost
	for _, p := range f.posts {
		if p.IsTrail && p.ParentPostID != nil && *p.ParentPostID == parentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePostStore) ListTrailsForParents(ctx context.Context, parentIDs []int64) (map[int64][]*models.FeedPost, error) {
	out := map[int64][]*models.FeedPost{}
	for _, id := range parentIDs {
		trails, _ := f.ListTrails(ctx, id)
		if len(trails) > 0 {
			out[id] = trails
		}
	}
	return out, nil
}

func (f *fakePostStore) UpdateTrailContent(_ context.Context, trailID int64, profileID, content string) error {
	p, ok := f.posts[trailID]
	if !ok || !p.IsTrail || p.ProfileID != profileID {
		return repositories.ErrNotFound
	}
	p.Content = content
	return nil
}

func (f *fakePostStore) DeleteTrail(_ context.Context, trailID int64, profileID string) error {
	p, ok := f.posts[trailID]
	if !ok || !p.IsTrail || p.ProfileID != profileID {
		return repositories.ErrNotFound
	}
	delete(f.posts, trailID)
	return nil
}

func (f *fakePostStore) IncrementViews(_ context.Context, postIDs []int64) error {
	for _, id := range postIDs {
		if p, ok := f.posts[id]; ok {
			p.ViewsCount++
			p.EngagementScore += domain.ViewWeight
			f.viewIncrements++
		}
	}
	return nil
}

func (f *fakePostStore) ToggleReaction(_ context.Context, postID int64, profileID, reactionType string) (bool, string, error) {
	if f.reactionTableMissing {
		return false, "", &pgconn.PgError{Code: "42P01", Message: "relation does not exist"}
	}
	post, ok := f.posts[postID]
	if !ok {
		return false, "", repositories.ErrNotFound
	}
	key := reactionKey(postID, profileID)
	prev, exists := f.reactions[key]
	switch {
	case !exists:
		f.reactions[key] = reactionType
		post.LikesCount++
		post.EngagementScore += domain.LikeWeight
		return true, reactionType, nil
	case prev == reactionType:
		delete(f.reactions, key)
		post.LikesCount--
		post.EngagementScore -= domain.LikeWeight
		return false, "", nil
	default:
		f.reactions[key] = reactionType
		return true, reactionType, nil
	}
}

func (f *fakePostStore) ToggleLike(_ context.Context, postID int64, profileID string) (bool, error) {
	post, ok := f.posts[postID]
	if !ok {
		return false, repositories.ErrNotFound
	}
	key := reactionKey(postID, profileID)
	if f.likes[key] {
		delete(f.likes, key)
		post.LikesCount--
		post.EngagementScore -= domain.LikeWeight
		return false, nil
	}
	f.likes[key] = true
	post.LikesCount++
	post.EngagementScore += domain.LikeWeight
	return true, nil
}

func (f *fakePostStore) ReactedPostIDs(_ context.Context, profileID string, postIDs []int64) (map[int64]bool, error) {
	out := map[int64]bool{}
	for _, id := range postIDs {
		if _, ok := f.reactions[reactionKey(id, profileID)]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func reactionKey(postID int64, profileID string) string {
	return fmt.Sprintf("%d/%s", postID, profileID)
}

func newTestPostService(store *fakePostStore) PostService {
	return NewPostService(store, zerolog.Nop())
}

func TestCreatePostWithinLimit(t *testing.T) {
	store := newFakePostStore()
	svc := newTestPostService(store)

	post, err := svc.CreatePost(context.Background(), "u-1", &dto.CreatePostRequest{
		Content:  "Finished my first robotics project!",
		PostType: "PROJECT",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PostTypeProject, post.PostType)
	assert.Equal(t, domain.ModerationApproved, post.ModerationStatus)
	assert.Equal(t, float64(3), post.EngagementScore)
	assert.Empty(t, post.Trails)
}

func TestCreatePostDefaultsToGeneral(t *testing.T) {
	svc := newTestPostService(newFakePostStore())

	post, err := svc.CreatePost(context.Background(), "u-1", &dto.CreatePostRequest{Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, domain.PostTypeGeneral, post.PostType)
	assert.Equal(t, float64(0), post.EngagementScore)
}

func TestCreatePostTooLongWithoutForceTrail(t *testing.T) {
	svc := newTestPostService(newFakePostStore())

	_, err := svc.CreatePost(context.Background(), "u-1", &dto.CreatePostRequest{
		Content: strings.Repeat("a", domain.MaxRootPostLength+1),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrContentTooLong)

	details := apperrors.DetailsOf(err)
	require.NotNil(t, details)
	assert.Equal(t, true, details["suggestTrail"])
	assert.Equal(t, domain.MaxRootPostLength, details["maxLength"])
}

func TestCreatePostForceTrailSplits(t *testing.T) {
	store := newFakePostStore()
	svc := newTestPostService(store)

	content := strings.Repeat("x", domain.MaxRootPostLength*2+40)
	post, err := svc.CreatePost(context.Background(), "u-1", &dto.CreatePostRequest{
		Content:    content,
		ForceTrail: true,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MaxRootPostLength, utf8.RuneCountInString(post.Content))
	require.Len(t, post.Trails, 2)

	reassembled := post.Content
	for i, trail := range post.Trails {
		assert.Equal(t, i+1, trail.TrailOrder)
		assert.True(t, trail.IsTrail)
		require.NotNil(t, trail.ParentPostID)
		assert.Equal(t, post.ID, *trail.ParentPostID)
		reassembled += trail.Content
	}
	assert.Equal(t, content, reassembled)
}

func TestCreatePostModerationHold(t *testing.T) {
	store := newFakePostStore()
	svc := newTestPostService(store)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, "u-1", &dto.CreatePostRequest{
		Content: "Learn this one weird hack",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ModerationPendingReview, post.ModerationStatus)

	// Held posts never surface in the feed
	feed, _, err := svc.ListFeed(ctx, "", &dto.FeedQuery{}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestCreateTrail(t *testing.T) {
	store := newFakePostStore()
	svc := newTestPostService(store)
	ctx := context.Background()

	root, err := svc.CreatePost(ctx, "u-1", &dto.CreatePostRequest{Content: "part one", PostType: "QUESTION"})
	require.NoError(t, err)

	t.Run("appends with inherited type and next order", func(t *testing.T) {
		trail, err := svc.CreateTrail(ctx, "u-1", root.ID, &dto.CreateTrailRequest{Content: "part two"})
		require.NoError(t, err)
		assert.Equal(t, root.PostType, trail.PostType)
		assert.Equal(t, 1, trail.TrailOrder)

		second, err := svc.CreateTrail(ctx, "u-1", root.ID, &dto.CreateTrailRequest{Content: "part three"})
		require.NoError(t, err)
		assert.Equal(t, 2, second.TrailOrder)
	})

	t.Run("rejects non-owner", func(t *testing.T) {
		_, err := svc.CreateTrail(ctx, "u-2", root.ID, &dto.CreateTrailRequest{Content: "hijack"})
		assert.ErrorIs(t, err, apperrors.ErrNotPostOwner)
	})

	t.Run("rejects missing parent", func(t *testing.T) {
		_, err := svc.CreateTrail(ctx, "u-1", 9999, &dto.CreateTrailRequest{Content: "orphan"})
		assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
	})

	t.Run("rejects trail as parent", func(t *testing.T) {
		trail, err := svc.CreateTrail(ctx, "u-1", root.ID, &dto.CreateTrailRequest{Content: "part four"})
		require.NoError(t, err)
		_, err = svc.CreateTrail(ctx, "u-1", trail.ID, &dto.CreateTrailRequest{Content: "nested"})
		assert.ErrorIs(t, err, apperrors.ErrNotRootPost)
	})

	t.Run("rejects over-limit content", func(t *testing.T) {
		_, err := svc.CreateTrail(ctx, "u-1", root.ID, &dto.CreateTrailRequest{
			Content: strings.Repeat("a", domain.MaxRootPostLength+1),
		})
		assert.ErrorIs(t, err, apperrors.ErrContentTooLong)
	})
}

func TestUpdateAndDeleteTrail(t *testing.T) {
	store := newFakePostStore()
	svc := newTestPostService(store)
	ctx := context.Background()

	root, err := svc.CreatePost(ctx, "u-1", &dto.CreatePostRequest{Content: "root"})
	require.NoError(t, err)
	trail, err := svc.CreateTrail(ctx, "u-1", root.ID, &dto.CreateTrailRequest{Content: "draft"})
	require.NoError(t, err)

	updated, err := svc.UpdateTrail(ctx, "u-1", trail.ID, &dto.UpdateTrailRequest{Content: "final"})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Content)

	_, err = svc.UpdateTrail(ctx, "u-2", trail.ID, &dto.UpdateTrailRequest{Content: "steal"})
	assert.ErrorIs(t, err, apperrors.ErrTrailNotFound)

	require.NoError(t, svc.DeleteTrail(ctx, "u-1", trail.ID))
	assert.ErrorIs(t, svc.DeleteTrail(ctx, "u-1", trail.ID), apperrors.ErrTrailNotFound)
}

func TestReactToggle(t *testing.T) {
	store := newFakePostStore()
	svc := newTestPostService(store)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, "u-1", &dto.CreatePostRequest{Content: "react to me"})
	require.NoError(t, err)

	t.Run("empty type defaults to like", func(t *testing.T) {
		resp, err := svc.React(ctx, "u-2", post.ID, "")
		require.NoError(t, err)
		assert.True(t, resp.Reacted)
		assert.Equal(t, "like", resp.ReactionType)
		assert.Equal(t, int64(1), resp.LikesCount)
		assert.False(t, resp.Fallback)
	})

	t.Run("same type removes", func(t *testing.T) {
		resp, err := svc.React(ctx, "u-2", post.ID, "like")
		require.NoError(t, err)
		assert.False(t, resp.Reacted)
		assert.Empty(t, resp.ReactionType)
		assert.Equal(t, int64(0), resp.LikesCount)
	})

	t.Run("different type switches without count change", func(t *testing.T) {
		_, err := svc.React(ctx, "u-2", post.ID, "like")
		require.NoError(t, err)
		resp, err := svc.React(ctx, "u-2", post.ID, "celebrate")
		require.NoError(t, err)
		assert.True(t, resp.Reacted)
		assert.Equal(t, "celebrate", resp.ReactionType)
		assert.Equal(t, int64(1), resp.LikesCount)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := svc.React(ctx, "u-2", 9999, "like")
		assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
	})
}

func TestReactFallbackWhenReactionTableMissing(t *testing.T) {
	store := newFakePostStore()
	store.reactionTableMissing = true
	svc := newTestPostService(store)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, "u-1", &dto.CreatePostRequest{Content: "legacy likes"})
	require.NoError(t, err)

	resp, err := svc.React(ctx, "u-2", post.ID, "celebrate")
	require.NoError(t, err)
	assert.True(t, resp.Fallback)
	assert.True(t, resp.Reacted)
	assert.Equal(t, "like", resp.ReactionType, "fallback stores a plain like regardless of requested type")
	assert.Equal(t, int64(1), resp.LikesCount)

	resp, err = svc.React(ctx, "u-2", post.ID, "celebrate")
	require.NoError(t, err)
	assert.True(t, resp.Fallback)
	assert.False(t, resp.Reacted)
	assert.Equal(t, int64(0), resp.LikesCount)
}

func TestListFeed(t *testing.T) {
	store := newFakePostStore()
	svc := newTestPostService(store)
	ctx := context.Background()

	root, err := svc.CreatePost(ctx, "u-1", &dto.CreatePostRequest{
		Content:    strings.Repeat("y", domain.MaxRootPostLength+10),
		ForceTrail: true,
		PostType:   "ACHIEVEMENT",
	})
	require.NoError(t, err)
	_, err = svc.CreatePost(ctx, "u-1", &dto.CreatePostRequest{Content: "plain"})
	require.NoError(t, err)

	_, err = svc.React(ctx, "u-2", root.ID, "like")
	require.NoError(t, err)

	t.Run("nests trails and viewer flags", func(t *testing.T) {
		posts, pagination, err := svc.ListFeed(ctx, "u-2", &dto.FeedQuery{}, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(2), pagination.TotalItems)

		var withTrails *models.FeedPost
		for _, p := range posts {
			if p.ID == root.ID {
				withTrails = p
			}
		}
		require.NotNil(t, withTrails)
		assert.Len(t, withTrails.Trails, 1)
		assert.True(t, withTrails.Liked)
	})

	t.Run("achievements filter narrows by type", func(t *testing.T) {
		posts, _, err := svc.ListFeed(ctx, "", &dto.FeedQuery{Filter: "achievements"}, 1, 10)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, domain.PostTypeAchievement, posts[0].PostType)
	})

	t.Run("serving a page accrues views", func(t *testing.T) {
		before := store.viewIncrements
		_, _, err := svc.ListFeed(ctx, "", &dto.FeedQuery{}, 1, 10)
		require.NoError(t, err)
		assert.Greater(t, store.viewIncrements, before)
	})
}

func TestGetPost(t *testing.T) {
	store := newFakePostStore()
	svc := newTestPostService(store)
	ctx := context.Background()

	root, err := svc.CreatePost(ctx, "u-1", &dto.CreatePostRequest{Content: "root"})
	require.NoError(t, err)
	_, err = svc.CreateTrail(ctx, "u-1", root.ID, &dto.CreateTrailRequest{Content: "tail"})
	require.NoError(t, err)
	_, err = svc.React(ctx, "u-2", root.ID, "like")
	require.NoError(t, err)

	got, err := svc.GetPost(ctx, "u-2", root.ID)
	require.NoError(t, err)
	assert.Len(t, got.Trails, 1)
	assert.True(t, got.Liked)

	_, err = svc.GetPost(ctx, "u-2", 9999)
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
}
