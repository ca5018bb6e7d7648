package models

import "time"

// Goal defines a user goal based on the 'goals' table
type Goal struct {
	ID          int64     `json:"id" db:"id"`
	ProfileID   string    `json:"profileId" db:"profile_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	Timeframe   string    `json:"timeframe" db:"timeframe"`
	Completed   bool      `json:"completed" db:"completed"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// SuggestedGoal defines a suggested goal based on the 'suggested_goals'
// table. It is a parallel entity to Goal with an extra isAdded flag and is
// reconciled with the same algorithm.
type SuggestedGoal struct {
	ID          int64     `json:"id" db:"id"`
	ProfileID   string    `json:"profileId" db:"profile_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	Timeframe   string    `json:"timeframe" db:"timeframe"`
	IsAdded     bool      `json:"isAdded" db:"is_added"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
