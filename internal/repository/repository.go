package repository

import (
	"context"
	"errors"

	"github.com/blog-api/internal/database"
	"github.com/blog-api/internal/models"
)

var (
	// ErrNotFound is returned when no row matches the given key
	ErrNotFound = errors.New("record not found")

	// ErrInvalidReference is returned when a write points at a row that does not exist
	ErrInvalidReference = errors.New("referenced record does not exist")

	// ErrDuplicate is returned when a write violates a uniqueness constraint
	ErrDuplicate = errors.New("record already exists")
)

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id string) (*models.Article, error)
	List(ctx context.Context) ([]*models.Article, error)
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// CommentRepository defines the interface for comment data operations.
// Create and Update return ErrInvalidReference when the article is missing.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	List(ctx context.Context) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Delete(ctx context.Context, username string) error
	Count(ctx context.Context) (int, error)
}

// HealthChecker reports whether the backing store is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	User    UserRepository
	Article ArticleRepository
	Comment CommentRepository
	Health  HealthChecker
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepo(db),
		Article: NewArticleRepo(db),
		Comment: NewCommentRepo(db),
		Health:  db,
	}
}
