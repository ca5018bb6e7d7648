package domain

// PostType identifies the kind of feed post, some of which carry an initial
// engagement bonus.
type PostType string

const (
	PostTypeGeneral     PostType = "GENERAL"
	PostTypeAchievement PostType = "ACHIEVEMENT"
	PostTypeProject     PostType = "PROJECT"
	PostTypeQuestion    PostType = "QUESTION"
)

// Engagement weights. The persisted score is adjusted incrementally with
// these on each action; RecomputeScore is the canonical from-scratch formula
// used for trending ordering and for verifying the incremental counter.
const (
	LikeWeight    = 1.0
	CommentWeight = 2.0
	ShareWeight   = 3.0
	ViewWeight    = 0.1
)

// postTypeBonus is the creation-time score bonus per post type.
var postTypeBonus = map[PostType]float64{
	PostTypeAchievement: 5,
	PostTypeProject:     3,
	PostTypeQuestion:    2,
}

// InitialScore returns the engagement score a freshly created post starts
// with: base 0 plus the post-type bonus.
func InitialScore(t PostType) float64 {
	return postTypeBonus[t]
}

// RecomputeScore computes the weighted engagement score from raw counters.
func RecomputeScore(likes, comments, shares, views int64) float64 {
	return float64(likes)*LikeWeight +
		float64(comments)*CommentWeight +
		float64(shares)*ShareWeight +
		float64(views)*ViewWeight
}
