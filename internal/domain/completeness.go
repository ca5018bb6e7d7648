// Package domain holds the pure business rules of PathPiper: onboarding
// completeness, age banding, the minor verification gate, content moderation,
// engagement scoring and goal-list reconciliation. Nothing here touches
// storage or the network; every function is deterministic in its inputs.
package domain

import (
	"strings"
	"time"
)

// AgeGroup is the age band a student falls into, derived from birth data.
type AgeGroup string

const (
	AgeGroupEarlyChildhood AgeGroup = "early_childhood"
	AgeGroupElementary     AgeGroup = "elementary"
	AgeGroupMiddleSchool   AgeGroup = "middle_school"
	AgeGroupHighSchool     AgeGroup = "high_school"
	AgeGroupYoungAdult     AgeGroup = "young_adult"
)

// MinorAgeThreshold is the age below which student accounts require both
// parent approval and email verification before full access.
const MinorAgeThreshold = 16

// BasicInfo carries the profile fields that count toward the basic-info
// section of onboarding.
type BasicInfo struct {
	FirstName string
	LastName  string
	Bio       string
}

// Completeness is the result of evaluating the three onboarding sections.
type Completeness struct {
	HasBasicInfo bool `json:"hasBasicInfo"`
	HasInterests bool `json:"hasInterests"`
	HasEducation bool `json:"hasEducation"`
	Completed    bool `json:"completed"`
}

// EvaluateCompleteness computes onboarding completeness from the three
// sections. Basic info requires first name, last name and bio; location is
// not an accepted substitute for bio. Absent data degrades to false, never
// to an error.
func EvaluateCompleteness(info BasicInfo, interestCount, educationCount int) Completeness {
	c := Completeness{
		HasBasicInfo: strings.TrimSpace(info.FirstName) != "" &&
			strings.TrimSpace(info.LastName) != "" &&
			strings.TrimSpace(info.Bio) != "",
		HasInterests: interestCount > 0,
		HasEducation: educationCount > 0,
	}
	c.Completed = c.HasBasicInfo && c.HasInterests && c.HasEducation
	return c
}

// AgeAt computes age in whole years as of now from birth month (1-12) and
// birth year, decrementing by one when the current month precedes the birth
// month. Returns -1 when birth data is missing or implausible.
func AgeAt(birthMonth, birthYear int, now time.Time) int {
	if birthMonth < 1 || birthMonth > 12 || birthYear <= 0 || birthYear > now.Year() {
		return -1
	}
	age := now.Year() - birthYear
	if int(now.Month()) < birthMonth {
		age--
	}
	if age < 0 {
		return -1
	}
	return age
}

// AgeGroupAt maps birth data to an age band. Missing or implausible birth
// data defaults to young_adult.
func AgeGroupAt(birthMonth, birthYear int, now time.Time) AgeGroup {
	age := AgeAt(birthMonth, birthYear, now)
	if age < 0 {
		return AgeGroupYoungAdult
	}
	switch {
	case age < 5:
		return AgeGroupEarlyChildhood
	case age < 11:
		return AgeGroupElementary
	case age < 13:
		return AgeGroupMiddleSchool
	case age < 18:
		return AgeGroupHighSchool
	default:
		return AgeGroupYoungAdult
	}
}

// GateResult reports whether full account access is allowed and, when it is
// not, which verification steps are still missing.
type GateResult struct {
	Allowed                bool `json:"allowed"`
	NeedsParentApproval    bool `json:"needsParentApproval"`
	NeedsEmailVerification bool `json:"needsEmailVerification"`
}

// EvaluateVerificationGate applies the minor verification rule: students
// under MinorAgeThreshold need both parent approval and email verification.
// Everyone else passes. An unknown age (missing birth data) is treated as
// adult, consistent with the young_adult default band.
func EvaluateVerificationGate(role Role, age int, parentVerified, emailVerified bool) GateResult {
	if role != RoleStudent || age < 0 || age >= MinorAgeThreshold {
		return GateResult{Allowed: true}
	}
	r := GateResult{
		NeedsParentApproval:    !parentVerified,
		NeedsEmailVerification: !emailVerified,
	}
	r.Allowed = !r.NeedsParentApproval && !r.NeedsEmailVerification
	return r
}
