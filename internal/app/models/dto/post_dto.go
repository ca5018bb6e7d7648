package dto

// CreatePostRequest represents a feed post creation request. When content
// exceeds the root post limit, the request fails with a suggestTrail hint
// unless ForceTrail is set, in which case the overflow becomes trail posts.
type CreatePostRequest struct {
	Content    string   `json:"content" binding:"required"`
	ImageURL   *string  `json:"imageUrl,omitempty"`
	PostType   string   `json:"postType" binding:"omitempty,oneof=GENERAL ACHIEVEMENT PROJECT QUESTION"`
	Subjects   []string `json:"subjects,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	ForceTrail bool     `json:"forceTrail"`
}

// CreateTrailRequest represents an explicit trail continuation post
type CreateTrailRequest struct {
	Content  string  `json:"content" binding:"required"`
	ImageURL *string `json:"imageUrl,omitempty"`
}

// UpdateTrailRequest represents a trail edit
type UpdateTrailRequest struct {
	Content string `json:"content" binding:"required"`
}

// ReactRequest represents a reaction toggle. ReactionType defaults to
// "like" when omitted.
type ReactRequest struct {
	ReactionType string `json:"reactionType" binding:"omitempty,oneof=like celebrate insightful curious"`
}

// ReactResponse reports the stored reaction state after a toggle
type ReactResponse struct {
	Reacted      bool    `json:"reacted"`
	ReactionType string  `json:"reactionType,omitempty"`
	LikesCount   int64   `json:"likesCount"`
	Score        float64 `json:"engagementScore"`
	// Fallback reports the degraded simple-like path was used
	Fallback bool `json:"fallback,omitempty"`
}

// FeedQuery captures the supported feed filters
type FeedQuery struct {
	Type    string `form:"type"`
	Subject string `form:"subject"`
	Filter  string `form:"filter" binding:"omitempty,oneof=trending achievements projects questions"`
}
