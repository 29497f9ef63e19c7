package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blog-api/internal/models"
	"github.com/blog-api/internal/policy"
	"github.com/blog-api/internal/repository"
	"github.com/blog-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	repo repository.CommentRepository
	now  func() time.Time
	log  zerolog.Logger
}

// newCommentService creates a new CommentService
func newCommentService(repo repository.CommentRepository, now func() time.Time, log zerolog.Logger) *commentService {
	return &commentService{
		repo: repo,
		now:  now,
		log:  log.With().Str("service", "comment").Logger(),
	}
}

// List returns every comment grouped by article
func (s *commentService) List(ctx context.Context) ([]*models.Comment, error) {
	comments, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// Get retrieves a single comment
func (s *commentService) Get(ctx context.Context, id string) (*models.Comment, error) {
	if !validation.IsValidID(id) {
		return nil, ErrNotFound
	}

	comment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, "get", id, "")
	}
	return comment, nil
}

// Create stores a new comment. Anyone may comment; the stored username is
// decided by the attribution rule, never taken from the payload of a
// logged-in caller.
func (s *commentService) Create(ctx context.Context, input *models.CommentInput, caller policy.Caller) (*models.Comment, error) {
	errs := validation.ValidateComment(input)

	username, err := policy.ResolveAuthor(caller, input.Username)
	if err != nil {
		errs = append(errs, validation.FieldError{Field: "username", Message: "missing required field"})
	}
	if len(errs) > 0 {
		return nil, invalid(errs...)
	}

	comment := &models.Comment{
		ID:        uuid.New().String(),
		ArticleID: input.ArticleID,
		Username:  &username,
		Content:   input.Content,
		CreatedAt: s.now(),
	}

	// The store checks the article reference and inserts in one step.
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, s.translate(err, "create", comment.ID, input.ArticleID)
	}

	s.log.Info().
		Str("comment_id", comment.ID).
		Str("article_id", comment.ArticleID).
		Str("username", username).
		Bool("anonymous", !caller.Authenticated).
		Msg("Comment created")

	return comment, nil
}

// Update overwrites the content and article of an existing comment. The
// username changes only when the payload carries a non-blank one.
func (s *commentService) Update(ctx context.Context, id string, input *models.CommentInput, caller policy.Caller) (*models.Comment, error) {
	comment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(s.log, policy.ActionUpdate, caller); err != nil {
		return nil, err
	}
	if errs := validation.ValidateComment(input); len(errs) > 0 {
		return nil, invalid(errs...)
	}

	comment.ArticleID = input.ArticleID
	comment.Content = input.Content
	if input.Username != nil {
		if name := strings.TrimSpace(*input.Username); name != "" {
			comment.Username = &name
		}
	}

	if err := s.repo.Update(ctx, comment); err != nil {
		return nil, s.translate(err, "update", id, input.ArticleID)
	}

	s.log.Info().
		Str("comment_id", id).
		Str("editor", caller.Username).
		Msg("Comment updated")

	return comment, nil
}

// Delete removes a comment
func (s *commentService) Delete(ctx context.Context, id string, caller policy.Caller) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := authorize(s.log, policy.ActionDelete, caller); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translate(err, "delete", id, "")
	}

	s.log.Info().
		Str("comment_id", id).
		Str("deleted_by", caller.Username).
		Msg("Comment deleted")

	return nil
}

// translate maps repository errors onto service error kinds
func (s *commentService) translate(err error, op, id, articleID string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrInvalidReference):
		return invalid(validation.FieldError{Field: "article", Message: "referenced article does not exist", Value: articleID})
	default:
		return fmt.Errorf("failed to %s comment %s: %w", op, id, err)
	}
}
