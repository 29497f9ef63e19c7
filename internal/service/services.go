package service

import (
	"context"
	"time"

	"github.com/blog-api/internal/config"
	"github.com/blog-api/internal/models"
	"github.com/blog-api/internal/policy"
	"github.com/blog-api/internal/repository"
	"github.com/rs/zerolog"
)

// ArticleService defines the article operations. Every mutating call takes
// the caller explicitly; there is no ambient request identity.
type ArticleService interface {
	List(ctx context.Context) ([]*models.Article, error)
	Get(ctx context.Context, id string) (*models.Article, error)
	Create(ctx context.Context, input *models.ArticleInput, caller policy.Caller) (*models.Article, error)
	Update(ctx context.Context, id string, input *models.ArticleInput, caller policy.Caller) (*models.Article, error)
	Delete(ctx context.Context, id string, caller policy.Caller) error
}

// CommentService defines the comment operations
type CommentService interface {
	List(ctx context.Context) ([]*models.Comment, error)
	Get(ctx context.Context, id string) (*models.Comment, error)
	Create(ctx context.Context, input *models.CommentInput, caller policy.Caller) (*models.Comment, error)
	Update(ctx context.Context, id string, input *models.CommentInput, caller policy.Caller) (*models.Comment, error)
	Delete(ctx context.Context, id string, caller policy.Caller) error
}

// AuthService resolves request credentials and manages accounts
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (policy.Caller, error)
	CreateUser(ctx context.Context, username, password string, admin bool) (*models.User, error)
	DeleteUser(ctx context.Context, username string) error
}

// StatusService reports store health and row counts
type StatusService interface {
	HealthCheck(ctx context.Context) error
	Counts(ctx context.Context) (map[string]int, error)
}

// Services holds all service interfaces
type Services struct {
	Article ArticleService
	Comment CommentService
	Auth    AuthService
	Status  StatusService
}

// Option customises service construction
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces the time source used for created/modified dates
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger, opts ...Option) *Services {
	o := options{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(&o)
	}

	return &Services{
		Article: newArticleService(repos.Article, o.now, log),
		Comment: newCommentService(repos.Comment, o.now, log),
		Auth:    newAuthService(repos.User, cfg.Auth.BcryptCost, o.now, log),
		Status:  newStatusService(repos),
	}
}
