package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialScore(t *testing.T) {
	tests := []struct {
		postType PostType
		want     float64
	}{
		{PostTypeAchievement, 5},
		{PostTypeProject, 3},
		{PostTypeQuestion, 2},
		{PostTypeGeneral, 0},
		{PostType("unknown"), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.postType), func(t *testing.T) {
			assert.Equal(t, tt.want, InitialScore(tt.postType))
		})
	}
}

func TestRecomputeScore(t *testing.T) {
	assert.Equal(t, 0.0, RecomputeScore(0, 0, 0, 0))
	assert.Equal(t, 1.0, RecomputeScore(1, 0, 0, 0))
	assert.Equal(t, 2.0, RecomputeScore(0, 1, 0, 0))
	assert.Equal(t, 3.0, RecomputeScore(0, 0, 1, 0))
	assert.InDelta(t, 0.1, RecomputeScore(0, 0, 0, 1), 1e-9)
	assert.InDelta(t, 10*LikeWeight+4*CommentWeight+2*ShareWeight+100*ViewWeight,
		RecomputeScore(10, 4, 2, 100), 1e-9)
}
