package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateCompleteness(t *testing.T) {
	full := BasicInfo{FirstName: "Maya", LastName: "Okafor", Bio: "Aspiring astronomer"}

	tests := []struct {
		name           string
		info           BasicInfo
		interestCount  int
		educationCount int
		wantCompleted  bool
	}{
		{"all sections present", full, 3, 1, true},
		{"no interests", full, 0, 1, false},
		{"no education", full, 3, 0, false},
		{"only basic info", full, 0, 0, false},
		{"missing bio", BasicInfo{FirstName: "Maya", LastName: "Okafor"}, 3, 1, false},
		{"whitespace bio does not count", BasicInfo{FirstName: "Maya", LastName: "Okafor", Bio: "   "}, 3, 1, false},
		{"missing names", BasicInfo{Bio: "hello"}, 3, 1, false},
		{"nothing at all", BasicInfo{}, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := EvaluateCompleteness(tt.info, tt.interestCount, tt.educationCount)
			assert.Equal(t, tt.wantCompleted, c.Completed)
			assert.Equal(t, c.Completed, c.HasBasicInfo && c.HasInterests && c.HasEducation)
		})
	}
}

func TestAgeAt(t *testing.T) {
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		birthMonth int
		birthYear  int
		want       int
	}{
		{"birthday month passed", 3, 2010, 16},
		{"birthday month ahead", 9, 2010, 15},
		{"birthday this month", 6, 2010, 16},
		{"missing month", 0, 2010, -1},
		{"month out of range", 13, 2010, -1},
		{"missing year", 6, 0, -1},
		{"future year", 6, 2030, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgeAt(tt.birthMonth, tt.birthYear, now))
		})
	}
}

func TestAgeAtMonotonicity(t *testing.T) {
	// Age never decreases as the clock moves forward
	birthMonth, birthYear := 4, 2012
	prev := -1
	for year := 2012; year <= 2040; year++ {
		for month := time.January; month <= time.December; month++ {
			age := AgeAt(birthMonth, birthYear, time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
			if age < 0 {
				continue
			}
			assert.GreaterOrEqual(t, age, prev, "age went backwards at %d-%d", year, month)
			prev = age
		}
	}
}

func TestAgeGroupAt(t *testing.T) {
	now := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		birthMonth int
		birthYear  int
		want       AgeGroup
	}{
		{"toddler", 1, 2023, AgeGroupEarlyChildhood},
		{"elementary", 1, 2018, AgeGroupElementary},
		{"middle school", 1, 2014, AgeGroupMiddleSchool},
		{"high school", 1, 2010, AgeGroupHighSchool},
		{"adult", 1, 2000, AgeGroupYoungAdult},
		{"unknown birth data defaults to young adult", 0, 0, AgeGroupYoungAdult},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgeGroupAt(tt.birthMonth, tt.birthYear, now))
		})
	}
}

func TestEvaluateVerificationGate(t *testing.T) {
	t.Run("minor student combinations", func(t *testing.T) {
		// Only the fully verified minor passes
		tests := []struct {
			parentVerified bool
			emailVerified  bool
			wantAllowed    bool
		}{
			{true, true, true},
			{true, false, false},
			{false, true, false},
			{false, false, false},
		}
		for _, tt := range tests {
			got := EvaluateVerificationGate(RoleStudent, 14, tt.parentVerified, tt.emailVerified)
			assert.Equal(t, tt.wantAllowed, got.Allowed)
			assert.Equal(t, !tt.parentVerified, got.NeedsParentApproval)
			assert.Equal(t, !tt.emailVerified, got.NeedsEmailVerification)
		}
	})

	t.Run("student at threshold passes unverified", func(t *testing.T) {
		got := EvaluateVerificationGate(RoleStudent, MinorAgeThreshold, false, false)
		assert.True(t, got.Allowed)
	})

	t.Run("unknown age passes", func(t *testing.T) {
		got := EvaluateVerificationGate(RoleStudent, -1, false, false)
		assert.True(t, got.Allowed)
	})

	t.Run("non-student roles pass regardless of age", func(t *testing.T) {
		for _, role := range []Role{RoleMentor, RoleInstitution, RoleParent} {
			got := EvaluateVerificationGate(role, 10, false, false)
			assert.True(t, got.Allowed, "role %s", role)
		}
	})
}
