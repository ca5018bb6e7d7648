package repositories

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is the shared not-found error for repositories
var ErrNotFound = errors.New("record not found")

// psql is the shared squirrel builder with postgres placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repositories is the container for all repository instances
type Repositories struct {
	ProfileRepository   *ProfileRepository
	InterestRepository  *InterestRepository
	EducationRepository *EducationRepository
	GoalRepository      *GoalRepository
	PostRepository      *PostRepository
	TokenRepository     *TokenRepository
}

// NewRepositories creates all repositories over a shared pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		ProfileRepository:   NewProfileRepository(db),
		InterestRepository:  NewInterestRepository(db),
		EducationRepository: NewEducationRepository(db),
		GoalRepository:      NewGoalRepository(db),
		PostRepository:      NewPostRepository(db),
		TokenRepository:     NewTokenRepository(db),
	}
}
