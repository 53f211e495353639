package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lysyi3m/news-comb/app/feed"
)

var _ SavedArticleRepository = (*savedArticleRepository)(nil)

// savedArticleRepository persists full article snapshots keyed by the
// canonical article id.
type savedArticleRepository struct {
	db *DB
}

func NewSavedArticleRepository(db *DB) SavedArticleRepository {
	return &savedArticleRepository{db: db}
}

const savedArticleColumns = `
	id, title, description, content, url, image_url, author,
	source_id, source_name, category, published_at, saved_at,
	extraction_status, extracted_at, extraction_error
`

func (r *savedArticleRepository) List() ([]SavedArticle, error) {
	rows, err := r.db.Query(`
		SELECT ` + savedArticleColumns + `
		FROM saved_articles
		ORDER BY saved_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved articles: %w", err)
	}
	defer rows.Close()

	var articles []SavedArticle
	for rows.Next() {
		article, err := scanSavedArticle(rows.Scan)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saved article rows: %w", err)
	}

	return articles, nil
}

func (r *savedArticleRepository) Get(id string) (*SavedArticle, error) {
	row := r.db.QueryRow(`
		SELECT `+savedArticleColumns+`
		FROM saved_articles
		WHERE id = ?
	`, id)

	article, err := scanSavedArticle(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &article, nil
}

func (r *savedArticleRepository) Save(article feed.Article) error {
	_, err := r.db.Exec(`
		INSERT INTO saved_articles (
			id, title, description, content, url, image_url, author,
			source_id, source_name, category, published_at, saved_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`, article.ID, article.Title, article.Description, article.Content,
		article.URL, article.ImageURL, article.Author,
		article.Source.ID, article.Source.Name,
		string(article.Category), article.PublishedAt, time.Now().UTC())

	if err != nil {
		return fmt.Errorf("failed to save article: %w", err)
	}

	return nil
}

func (r *savedArticleRepository) Remove(id string) error {
	_, err := r.db.Exec(`DELETE FROM saved_articles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to remove saved article: %w", err)
	}
	return nil
}

func (r *savedArticleRepository) UpdateExtraction(id string, content string,
	status string, extractedAt *time.Time, extractionError string) error {

	query := `
		UPDATE saved_articles
		SET extraction_status = ?, extracted_at = ?, extraction_error = ?
	`
	args := []interface{}{status, extractedAt, extractionError}

	if content != "" {
		query += `, content = ?`
		args = append(args, content)
	}

	query += ` WHERE id = ?`
	args = append(args, id)

	_, err := r.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update extraction status: %w", err)
	}

	return nil
}

func scanSavedArticle(scan func(dest ...interface{}) error) (SavedArticle, error) {
	var article SavedArticle
	var category string
	var extractedAt sql.NullTime

	err := scan(
		&article.ID, &article.Title, &article.Description, &article.Content,
		&article.URL, &article.ImageURL, &article.Author,
		&article.Source.ID, &article.Source.Name, &category,
		&article.PublishedAt, &article.SavedAt,
		&article.ExtractionStatus, &extractedAt, &article.ExtractionError,
	)
	if err == sql.ErrNoRows {
		return SavedArticle{}, err
	}
	if err != nil {
		return SavedArticle{}, fmt.Errorf("failed to scan saved article row: %w", err)
	}

	article.Category = feed.Category(category)
	if extractedAt.Valid {
		article.ExtractedAt = &extractedAt.Time
	}

	return article, nil
}
