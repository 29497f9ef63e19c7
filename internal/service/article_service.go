package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blog-api/internal/models"
	"github.com/blog-api/internal/policy"
	"github.com/blog-api/internal/repository"
	"github.com/blog-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// articleService is the concrete implementation of ArticleService
type articleService struct {
	repo repository.ArticleRepository
	now  func() time.Time
	log  zerolog.Logger
}

// newArticleService creates a new ArticleService
func newArticleService(repo repository.ArticleRepository, now func() time.Time, log zerolog.Logger) *articleService {
	return &articleService{
		repo: repo,
		now:  now,
		log:  log.With().Str("service", "article").Logger(),
	}
}

// List returns every article, most recent first
func (s *articleService) List(ctx context.Context) ([]*models.Article, error) {
	articles, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, nil
}

// Get retrieves a single article
func (s *articleService) Get(ctx context.Context, id string) (*models.Article, error) {
	if !validation.IsValidID(id) {
		return nil, ErrNotFound
	}

	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, "get", id)
	}
	return article, nil
}

// Create stores a new article authored by the caller
func (s *articleService) Create(ctx context.Context, input *models.ArticleInput, caller policy.Caller) (*models.Article, error) {
	if err := authorize(s.log, policy.ActionCreate, caller); err != nil {
		return nil, err
	}
	if errs := validation.ValidateArticle(input); len(errs) > 0 {
		return nil, invalid(errs...)
	}

	now := s.now()
	article := &models.Article{
		ID:        uuid.New().String(),
		Title:     input.Title,
		Content:   input.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if caller.UserID != "" {
		authorID, author := caller.UserID, caller.Username
		article.AuthorID = &authorID
		article.Author = &author
	}

	if err := s.repo.Create(ctx, article); err != nil {
		return nil, s.translate(err, "create", article.ID)
	}

	s.log.Info().
		Str("article_id", article.ID).
		Str("author", caller.Username).
		Msg("Article created")

	return article, nil
}

// Update overwrites the title and content of an existing article. A missing
// id is reported as not found whoever the caller is; the lookup never writes.
func (s *articleService) Update(ctx context.Context, id string, input *models.ArticleInput, caller policy.Caller) (*models.Article, error) {
	article, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(s.log, policy.ActionUpdate, caller); err != nil {
		return nil, err
	}
	if errs := validation.ValidateArticle(input); len(errs) > 0 {
		return nil, invalid(errs...)
	}

	article.Title = input.Title
	article.Content = input.Content
	article.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, article); err != nil {
		return nil, s.translate(err, "update", id)
	}

	s.log.Info().
		Str("article_id", id).
		Str("editor", caller.Username).
		Msg("Article updated")

	return article, nil
}

// Delete removes an article together with its comments
func (s *articleService) Delete(ctx context.Context, id string, caller policy.Caller) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := authorize(s.log, policy.ActionDelete, caller); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translate(err, "delete", id)
	}

	s.log.Info().
		Str("article_id", id).
		Str("deleted_by", caller.Username).
		Msg("Article deleted")

	return nil
}

// translate maps repository errors onto service error kinds
func (s *articleService) translate(err error, op, id string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrInvalidReference):
		return invalid(validation.FieldError{Field: "author", Message: "author account no longer exists"})
	default:
		return fmt.Errorf("failed to %s article %s: %w", op, id, err)
	}
}
