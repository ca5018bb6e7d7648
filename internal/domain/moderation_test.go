package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    ModerationStatus
	}{
		{"clean content", "Built a weather station for the science fair", ModerationApproved},
		{"empty content", "", ModerationApproved},
		{"spam", "Buy now, this is not spam I promise", ModerationPendingReview},
		{"fake", "I made a fake ID generator", ModerationPendingReview},
		{"scam", "Avoid this scam", ModerationPendingReview},
		{"cheat", "How to cheat on exams", ModerationPendingReview},
		{"hack", "I can hack any account", ModerationPendingReview},
		{"illegal", "Downloading movies illegally is illegal", ModerationPendingReview},
		{"case insensitive", "This is a SCAM alert", ModerationPendingReview},
		{"substring over-trigger in larger word", "Joining a hackathon this weekend", ModerationPendingReview},
		{"negated mention still flagged", "This offer is not a scam", ModerationPendingReview},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyContent(tt.content))
		})
	}
}
