package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/news-comb/app/feed"
)

var _ PreferenceRepository = (*preferenceRepository)(nil)

// preferenceRepository persists the user preferences as a single row
// with JSON-encoded array columns.
type preferenceRepository struct {
	db *DB
}

func NewPreferenceRepository(db *DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) Get() (feed.UserPreferences, error) {
	var sourcesJSON, categoriesJSON, authorsJSON string

	err := r.db.QueryRow(`
		SELECT sources, categories, authors FROM preferences WHERE id = 1
	`).Scan(&sourcesJSON, &categoriesJSON, &authorsJSON)

	if err == sql.ErrNoRows {
		return feed.DefaultPreferences(), nil
	}
	if err != nil {
		return feed.DefaultPreferences(), fmt.Errorf("failed to read preferences: %w", err)
	}

	preferences := feed.UserPreferences{}
	if err := json.Unmarshal([]byte(sourcesJSON), &preferences.Sources); err != nil {
		slog.Warn("Unparsable preferences record, using defaults", "field", "sources", "error", err)
		return feed.DefaultPreferences(), nil
	}
	if err := json.Unmarshal([]byte(categoriesJSON), &preferences.Categories); err != nil {
		slog.Warn("Unparsable preferences record, using defaults", "field", "categories", "error", err)
		return feed.DefaultPreferences(), nil
	}
	if err := json.Unmarshal([]byte(authorsJSON), &preferences.Authors); err != nil {
		slog.Warn("Unparsable preferences record, using defaults", "field", "authors", "error", err)
		return feed.DefaultPreferences(), nil
	}

	return preferences, nil
}

func (r *preferenceRepository) UpdateSources(sources []feed.NewsSource) error {
	preferences, err := r.Get()
	if err != nil {
		return err
	}
	preferences.Sources = sources
	return r.persist(preferences)
}

func (r *preferenceRepository) UpdateCategories(categories []feed.Category) error {
	preferences, err := r.Get()
	if err != nil {
		return err
	}
	preferences.Categories = categories
	return r.persist(preferences)
}

func (r *preferenceRepository) UpdateAuthors(authors []string) error {
	preferences, err := r.Get()
	if err != nil {
		return err
	}
	preferences.Authors = authors
	return r.persist(preferences)
}

func (r *preferenceRepository) Reset() error {
	return r.persist(feed.DefaultPreferences())
}

// persist writes the whole preferences object back in one statement.
func (r *preferenceRepository) persist(preferences feed.UserPreferences) error {
	sourcesJSON, err := json.Marshal(preferences.Sources)
	if err != nil {
		return fmt.Errorf("failed to encode sources: %w", err)
	}
	categoriesJSON, err := json.Marshal(preferences.Categories)
	if err != nil {
		return fmt.Errorf("failed to encode categories: %w", err)
	}
	authorsJSON, err := json.Marshal(preferences.Authors)
	if err != nil {
		return fmt.Errorf("failed to encode authors: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO preferences (id, sources, categories, authors, updated_at)
		VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			sources = excluded.sources,
			categories = excluded.categories,
			authors = excluded.authors,
			updated_at = CURRENT_TIMESTAMP
	`, string(sourcesJSON), string(categoriesJSON), string(authorsJSON))

	if err != nil {
		return fmt.Errorf("failed to persist preferences: %w", err)
	}

	return nil
}
