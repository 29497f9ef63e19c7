package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/blog-api/internal/database"
	"github.com/blog-api/internal/models"
)

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

const articleColumns = `
	a.id, a.title, a.content, a.author_id, u.username, a.created_date, a.last_modified_date
	FROM articles a LEFT JOIN users u ON u.id = a.author_id
`

// Create inserts a new article
func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	query := `
		INSERT INTO articles (id, title, content, author_id, created_date, last_modified_date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		article.ID, article.Title, article.Content, article.AuthorID,
		article.CreatedAt, article.UpdatedAt,
	)
	return translateError("create article", err)
}

// GetByID retrieves an article by ID
func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+articleColumns+" WHERE a.id = $1", id)

	article, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, translateError("get article", err)
	}
	return article, nil
}

// List returns all articles, most recent first
func (r *articleRepo) List(ctx context.Context) ([]*models.Article, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+articleColumns+" ORDER BY a.created_date DESC, a.id DESC")
	if err != nil {
		return nil, translateError("list articles", err)
	}
	defer rows.Close()

	articles := make([]*models.Article, 0)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, translateError("list articles", err)
		}
		articles = append(articles, article)
	}
	return articles, translateError("list articles", rows.Err())
}

// Update overwrites the mutable fields of an article
func (r *articleRepo) Update(ctx context.Context, article *models.Article) error {
	query := `
		UPDATE articles SET title = $2, content = $3, last_modified_date = $4
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, article.ID, article.Title, article.Content, article.UpdatedAt)
	if err != nil {
		return translateError("update article", err)
	}
	return requireAffected(result)
}

// Delete removes an article; its comments go with it (ON DELETE CASCADE)
func (r *articleRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM articles WHERE id = $1", id)
	if err != nil {
		return translateError("delete article", err)
	}
	return requireAffected(result)
}

// Count returns the total number of articles
func (r *articleRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles").Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var article models.Article
	var authorID, author sql.NullString

	err := row.Scan(
		&article.ID, &article.Title, &article.Content, &authorID, &author,
		&article.CreatedAt, &article.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if authorID.Valid {
		article.AuthorID = &authorID.String
	}
	if author.Valid {
		article.Author = &author.String
	}
	return &article, nil
}

// requireAffected turns a zero-row write into ErrNotFound
func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
