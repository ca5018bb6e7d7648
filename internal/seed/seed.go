package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Default interest taxonomy, grouped by category
var defaultInterests = map[string][]string{
	"STEM": {
		"Mathematics", "Physics", "Chemistry", "Biology",
		"Computer Science", "Robotics", "Astronomy",
	},
	"Arts": {
		"Drawing", "Painting", "Music", "Photography", "Creative Writing",
	},
	"Sports": {
		"Football", "Basketball", "Swimming", "Athletics", "Chess",
	},
	"Humanities": {
		"History", "Geography", "Languages", "Philosophy",
	},
}

// Default skill taxonomy, grouped by category
var defaultSkills = map[string][]string{
	"Technical": {
		"Programming", "Web Development", "Data Analysis", "3D Modeling",
	},
	"Communication": {
		"Public Speaking", "Writing", "Debate",
	},
	"Leadership": {
		"Teamwork", "Project Management", "Mentoring",
	},
}

var defaultInstitutionTypes = []string{
	"Primary School", "Secondary School", "High School", "University", "Academy",
}

// CreateDefaultData seeds the interest and skill taxonomies plus institution
// types. Inserts are idempotent, so rerunning at every startup is safe.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default taxonomy data...")
	var finalErr error

	for category, names := range defaultInterests {
		for _, name := range names {
			_, err := dbPool.Exec(ctx,
				`INSERT INTO interests (name, category) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
				name, category)
			if err != nil {
				lgr.Error().Err(err).Str("interest", name).Msg("Error seeding interest")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	for category, names := range defaultSkills {
		for _, name := range names {
			_, err := dbPool.Exec(ctx,
				`INSERT INTO skills (name, category) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
				name, category)
			if err != nil {
				lgr.Error().Err(err).Str("skill", name).Msg("Error seeding skill")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	for _, name := range defaultInstitutionTypes {
		_, err := dbPool.Exec(ctx,
			`INSERT INTO institution_types (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`,
			name)
		if err != nil {
			lgr.Error().Err(err).Str("institutionType", name).Msg("Error seeding institution type")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Default taxonomy data is in place")
	}
	return finalErr
}
