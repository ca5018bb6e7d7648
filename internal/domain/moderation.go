package domain

import "strings"

// ModerationStatus is the moderation classification of post content.
type ModerationStatus string

const (
	ModerationApproved      ModerationStatus = "approved"
	ModerationPendingReview ModerationStatus = "pending_review"
)

// contentDenylist holds the substrings that send content to review.
// Matching is plain substring containment after lower-casing, so legitimate
// words containing a denylisted term over-trigger ("scam" inside "not a
// scam" or "hack" inside "hackathon"). Known limitation, kept as the
// documented behavior.
var contentDenylist = []string{
	"spam",
	"fake",
	"scam",
	"cheat",
	"hack",
	"illegal",
}

// ClassifyContent runs the denylist filter over free-text post content.
func ClassifyContent(text string) ModerationStatus {
	lowered := strings.ToLower(text)
	for _, word := range contentDenylist {
		if strings.Contains(lowered, word) {
			return ModerationPendingReview
		}
	}
	return ModerationApproved
}
