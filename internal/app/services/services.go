package services

// Services defined in this package:
// - AuthService: registration, login, token refresh and logout
// - ProfileService: profile editing, interests/skills, completeness
// - PostService: feed posts, trail chains, reactions
// - GoalService: goal and suggested-goal reconciliation
// - EducationService: education history and institution verification
