package dto

// GoalItemRequest is a single goal in a full-list submission. New items
// carry a negative placeholder ID.
type GoalItemRequest struct {
	ID          int64  `json:"id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Timeframe   string `json:"timeframe"`
}

// SaveGoalsRequest is the client-submitted full goal list
type SaveGoalsRequest struct {
	Goals []GoalItemRequest `json:"goals" binding:"required"`
}

// SaveGoalsResponse reports the reconciliation outcome
type SaveGoalsResponse struct {
	Inserted int  `json:"inserted"`
	Updated  int  `json:"updated"`
	Deleted  int  `json:"deleted"`
	NoChange bool `json:"noChange"`
}

// UpdateSuggestedGoalRequest toggles the added flag on a suggested goal
type UpdateSuggestedGoalRequest struct {
	IsAdded bool `json:"isAdded"`
}
