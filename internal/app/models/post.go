package models

import (
	"time"

	"github.com/pathpiper/backend/internal/domain"
)

// FeedPost defines a feed post based on the 'feed_posts' table. A root post
// has IsTrail=false and a nil ParentPostID; a trail post has IsTrail=true, a
// parent pointing at a root post and a TrailOrder unique per parent,
// starting at 1 with no gaps.
type FeedPost struct {
	ID               int64                   `json:"id" db:"id"`
	ProfileID        string                  `json:"userId" db:"profile_id"`
	Content          string                  `json:"content" db:"content"`
	ImageURL         *string                 `json:"imageUrl,omitempty" db:"image_url"`
	IsTrail          bool                    `json:"isTrail" db:"is_trail"`
	ParentPostID     *int64                  `json:"parentPostId,omitempty" db:"parent_post_id"`
	TrailOrder       int                     `json:"trailOrder,omitempty" db:"trail_order"`
	PostType         domain.PostType         `json:"postType" db:"post_type"`
	Subjects         []string                `json:"subjects" db:"subjects"`
	Tags             []string                `json:"tags" db:"tags"`
	ModerationStatus domain.ModerationStatus `json:"moderationStatus" db:"moderation_status"`
	EngagementScore  float64                 `json:"engagementScore" db:"engagement_score"`
	LikesCount       int64                   `json:"likesCount" db:"likes_count"`
	CommentsCount    int64                   `json:"commentsCount" db:"comments_count"`
	SharesCount      int64                   `json:"sharesCount" db:"shares_count"`
	ViewsCount       int64                   `json:"viewsCount" db:"views_count"`
	CreatedAt        time.Time               `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time               `json:"updatedAt" db:"updated_at"`

	Trails []*FeedPost `json:"trails,omitempty"` // Relation, no db tag
	Liked  bool        `json:"liked"`            // Per-viewer flag, no db tag
}

// PostReaction defines a user's reaction to a post based on the
// 'post_reactions' table. One row per (post, profile).
type PostReaction struct {
	ID           int64     `json:"id" db:"id"`
	PostID       int64     `json:"postId" db:"post_id"`
	ProfileID    string    `json:"profileId" db:"profile_id"`
	ReactionType string    `json:"reactionType" db:"reaction_type"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
