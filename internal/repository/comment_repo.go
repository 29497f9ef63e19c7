package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/blog-api/internal/database"
	"github.com/blog-api/internal/models"
)

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

// Create inserts a new comment. The article foreign key is checked by the
// database in the same statement, so a concurrently deleted article yields
// ErrInvalidReference rather than an orphan row.
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, article_id, username, content, created_date)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.ArticleID, comment.Username, comment.Content, comment.CreatedAt,
	)
	return translateError("create comment", err)
}

// GetByID retrieves a comment by ID
func (r *commentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `SELECT id, article_id, username, content, created_date FROM comments WHERE id = $1`

	comment, err := scanComment(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, translateError("get comment", err)
	}
	return comment, nil
}

// List returns all comments grouped by article, articles in creation order
func (r *commentRepo) List(ctx context.Context) ([]*models.Comment, error) {
	query := `
		SELECT c.id, c.article_id, c.username, c.content, c.created_date
		FROM comments c JOIN articles a ON a.id = c.article_id
		ORDER BY a.created_date, a.id, c.created_date, c.id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, translateError("list comments", err)
	}
	defer rows.Close()

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, translateError("list comments", err)
		}
		comments = append(comments, comment)
	}
	return comments, translateError("list comments", rows.Err())
}

// Update overwrites the mutable fields of a comment
func (r *commentRepo) Update(ctx context.Context, comment *models.Comment) error {
	query := `UPDATE comments SET article_id = $2, username = $3, content = $4 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, comment.ID, comment.ArticleID, comment.Username, comment.Content)
	if err != nil {
		return translateError("update comment", err)
	}
	return requireAffected(result)
}

// Delete removes a comment
func (r *commentRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return translateError("delete comment", err)
	}
	return requireAffected(result)
}

// Count returns the total number of comments
func (r *commentRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments").Scan(&count)
	return count, err
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var comment models.Comment
	var username sql.NullString

	err := row.Scan(&comment.ID, &comment.ArticleID, &username, &comment.Content, &comment.CreatedAt)
	if err != nil {
		return nil, err
	}

	if username.Valid {
		comment.Username = &username.String
	}
	return &comment, nil
}
