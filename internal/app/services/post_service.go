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
	"github.com/pathpiper/backend/internal/pkg/dberrors"
	"github.com/pathpiper/backend/internal/pkg/helpers"
)

// PostStore is the feed post persistence surface used by PostService
type PostStore interface {
	CreateRootWithTrails(ctx context.Context, root *models.FeedPost, trails []*models.FeedPost) error
	AppendTrail(ctx context.Context, parentID int64, trail *models.FeedPost) error
	GetPostByID(ctx context.Context, id int64) (*models.FeedPost, error)
	ListFeed(ctx context.Context, filter repositories.FeedFilter, offset uint64, limit int) ([]*models.FeedPost, int64, error)
	ListTrails(ctx context.Context, parentID int64) ([]*models.FeedPost, error)
	ListTrailsForParents(ctx context.Context, parentIDs []int64) (map[int64][]*models.FeedPost, error)
	UpdateTrailContent(ctx context.Context, trailID int64, profileID, content string) error
	DeleteTrail(ctx context.Context, trailID int64, profileID string) error
	IncrementViews(ctx context.Context, postIDs []int64) error
	ToggleReaction(ctx context.Context, postID int64, profileID, reactionType string) (bool, string, error)
	ToggleLike(ctx context.Context, postID int64, profileID string) (bool, error)
	ReactedPostIDs(ctx context.Context, profileID string, postIDs []int64) (map[int64]bool, error)
}

// PostService defines the interface for feed operations
type PostService interface {
	CreatePost(ctx context.Context, profileID string, req *dto.CreatePostRequest) (*models.FeedPost, error)
	CreateTrail(ctx context.Context, profileID string, parentID int64, req *dto.CreateTrailRequest) (*models.FeedPost, error)
	UpdateTrail(ctx context.Context, profileID string, trailID int64, req *dto.UpdateTrailRequest) (*models.FeedPost, error)
	DeleteTrail(ctx context.Context, profileID string, trailID int64) error
	GetPost(ctx context.Context, viewerID string, postID int64) (*models.FeedPost, error)
	ListFeed(ctx context.Context, viewerID string, query *dto.FeedQuery, page, size int) ([]*models.FeedPost, dto.PaginationInfo, error)
	React(ctx context.Context, profileID string, postID int64, reactionType string) (*dto.ReactResponse, error)
}

// postServiceImpl implements PostService
type postServiceImpl struct {
	postRepo PostStore
	logger   zerolog.Logger
}

// NewPostService creates a new PostService
func NewPostService(postRepo PostStore, logger zerolog.Logger) PostService {
	return &postServiceImpl{
		postRepo: postRepo,
		logger:   logger,
	}
}

// CreatePost creates a root post. Content over the root limit is rejected
// with a suggestTrail hint unless ForceTrail is set, in which case the
// overflow is split into an attached trail chain in the same transaction.
// Content matching the moderation denylist is stored as pending_review and
// therefore never surfaces in the feed.
func (s *postServiceImpl) CreatePost(ctx context.Context, profileID string, req *dto.CreatePostRequest) (*models.FeedPost, error) {
	postType := domain.PostType(req.PostType)
	if postType == "" {
		postType = domain.PostTypeGeneral
	}

	content := req.Content
	var trailContents []string
	if !domain.ContentFits(content) {
		if !req.ForceTrail {
			return nil, apperrors.NewContentTooLongError(domain.MaxRootPostLength)
		}
		content, trailContents = domain.SplitIntoTrails(content)
	}

	moderation := domain.ClassifyContent(req.Content)

	root := &models.FeedPost{
		ProfileID:        profileID,
		Content:          content,
		ImageURL:         req.ImageURL,
		PostType:         postType,
		Subjects:         req.Subjects,
		Tags:             req.Tags,
		ModerationStatus: moderation,
		EngagementScore:  domain.InitialScore(postType),
	}

	trails := make([]*models.FeedPost, 0, len(trailContents))
	for _, tc := range trailContents {
		trails = append(trails, &models.FeedPost{
			ProfileID:        profileID,
			Content:          tc,
			PostType:         postType,
			ModerationStatus: moderation,
		})
	}

	if err := s.postRepo.CreateRootWithTrails(ctx, root, trails); err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}

	if moderation == domain.ModerationPendingReview {
		s.logger.Info().
			Int64("postID", root.ID).
			Msg("Post held for moderation review")
	}

	return root, nil
}

// CreateTrail appends a continuation post under a root post. Trail content
// is bound by the same character limit as roots.
func (s *postServiceImpl) CreateTrail(ctx context.Context, profileID string, parentID int64, req *dto.CreateTrailRequest) (*models.FeedPost, error) {
	if !domain.ContentFits(req.Content) {
		return nil, apperrors.NewContentTooLongError(domain.MaxRootPostLength)
	}

	parent, err := s.postRepo.GetPostByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("error loading parent post: %w", err)
	}
	if parent.ProfileID != profileID {
		return nil, apperrors.ErrNotPostOwner
	}

	trail := &models.FeedPost{
		ProfileID:        profileID,
		Content:          req.Content,
		ImageURL:         req.ImageURL,
		PostType:         parent.PostType,
		ModerationStatus: domain.ClassifyContent(req.Content),
	}

	if err := s.postRepo.AppendTrail(ctx, parentID, trail); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, apperrors.ErrPostNotFound
		case errors.Is(err, repositories.ErrNotRootPost):
			return nil, apperrors.ErrNotRootPost
		}
		return nil, fmt.Errorf("error appending trail: %w", err)
	}

	return trail, nil
}

// UpdateTrail edits a trail post owned by the caller
func (s *postServiceImpl) UpdateTrail(ctx context.Context, profileID string, trailID int64, req *dto.UpdateTrailRequest) (*models.FeedPost, error) {
	if !domain.ContentFits(req.Content) {
		return nil, apperrors.NewContentTooLongError(domain.MaxRootPostLength)
	}

	if err := s.postRepo.UpdateTrailContent(ctx, trailID, profileID, req.Content); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrTrailNotFound
		}
		return nil, fmt.Errorf("error updating trail: %w", err)
	}

	trail, err := s.postRepo.GetPostByID(ctx, trailID)
	if err != nil {
		return nil, fmt.Errorf("error reloading trail: %w", err)
	}
	return trail, nil
}

// DeleteTrail removes a trail post owned by the caller
func (s *postServiceImpl) DeleteTrail(ctx context.Context, profileID string, trailID int64) error {
	if err := s.postRepo.DeleteTrail(ctx, trailID, profileID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrTrailNotFound
		}
		return fmt.Errorf("error deleting trail: %w", err)
	}
	return nil
}

// GetPost retrieves one post with its trail chain and the viewer's
// reaction state.
func (s *postServiceImpl) GetPost(ctx context.Context, viewerID string, postID int64) (*models.FeedPost, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("error loading post: %w", err)
	}

	if !post.IsTrail {
		post.Trails, err = s.postRepo.ListTrails(ctx, post.ID)
		if err != nil {
			return nil, fmt.Errorf("error loading trails: %w", err)
		}
	}

	if viewerID != "" {
		reacted, err := s.postRepo.ReactedPostIDs(ctx, viewerID, []int64{post.ID})
		if err != nil {
			return nil, fmt.Errorf("error loading viewer reaction: %w", err)
		}
		post.Liked = reacted[post.ID]
	}

	return post, nil
}

// ListFeed retrieves a page of approved root posts with nested trails and
// per-viewer like flags. Each returned post also accrues a view.
func (s *postServiceImpl) ListFeed(ctx context.Context, viewerID string, query *dto.FeedQuery, page, size int) ([]*models.FeedPost, dto.PaginationInfo, error) {
	filter := repositories.FeedFilter{
		PostType: query.Type,
		Subject:  query.Subject,
	}
	switch query.Filter {
	case "trending":
		filter.Trending = true
	case "achievements":
		filter.PostType = string(domain.PostTypeAchievement)
	case "projects":
		filter.PostType = string(domain.PostTypeProject)
	case "questions":
		filter.PostType = string(domain.PostTypeQuestion)
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	posts, total, err := s.postRepo.ListFeed(ctx, filter, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("error listing feed: %w", err)
	}

	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	trailsByParent, err := s.postRepo.ListTrailsForParents(ctx, ids)
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("error loading feed trails: %w", err)
	}
	for _, p := range posts {
		p.Trails = trailsByParent[p.ID]
	}

	if viewerID != "" {
		reacted, err := s.postRepo.ReactedPostIDs(ctx, viewerID, ids)
		if err != nil {
			return nil, dto.PaginationInfo{}, fmt.Errorf("error loading viewer reactions: %w", err)
		}
		for _, p := range posts {
			p.Liked = reacted[p.ID]
		}
	}

	if err := s.postRepo.IncrementViews(ctx, ids); err != nil {
		// View accrual is best effort; the page is still served
		s.logger.Warn().Err(err).Msg("Failed to increment feed views")
	}

	return posts, helpers.NewPaginationInfo(total, page, size), nil
}

// React toggles the caller's reaction on a post: first reaction adds,
// repeating the same type removes, a different type switches with no score
// change. When the enhanced reaction relation is unavailable the toggle
// degrades to a plain like and the response flags the fallback.
func (s *postServiceImpl) React(ctx context.Context, profileID string, postID int64, reactionType string) (*dto.ReactResponse, error) {
	if reactionType == "" {
		reactionType = "like"
	}

	resp := &dto.ReactResponse{}

	reacted, storedType, err := s.postRepo.ToggleReaction(ctx, postID, profileID, reactionType)
	switch {
	case err == nil:
		resp.Reacted = reacted
		resp.ReactionType = storedType

	case dberrors.IsUndefinedTableError(err):
		s.logger.Warn().
			Int64("postID", postID).
			Msg("Reaction relation unavailable, falling back to simple like")
		liked, likeErr := s.postRepo.ToggleLike(ctx, postID, profileID)
		if likeErr != nil {
			if errors.Is(likeErr, repositories.ErrNotFound) {
				return nil, apperrors.ErrPostNotFound
			}
			return nil, fmt.Errorf("error toggling like: %w", likeErr)
		}
		resp.Reacted = liked
		resp.Fallback = true
		if liked {
			resp.ReactionType = "like"
		}

	case errors.Is(err, repositories.ErrNotFound):
		return nil, apperrors.ErrPostNotFound

	default:
		return nil, fmt.Errorf("error toggling reaction: %w", err)
	}

	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error reloading post after reaction: %w", err)
	}
	resp.LikesCount = post.LikesCount
	resp.Score = post.EngagementScore

	return resp, nil
}
