package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/blog-api/internal/models"
	"github.com/blog-api/internal/policy"
	"github.com/blog-api/internal/repository"
	"github.com/blog-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// MaxUsernameLength matches the users.username column
const MaxUsernameLength = models.MaxUsernameLength

// authService is the concrete implementation of AuthService
type authService struct {
	repo       repository.UserRepository
	bcryptCost int
	now        func() time.Time
	log        zerolog.Logger
}

// newAuthService creates a new AuthService
func newAuthService(repo repository.UserRepository, bcryptCost int, now func() time.Time, log zerolog.Logger) *authService {
	return &authService{
		repo:       repo,
		bcryptCost: bcryptCost,
		now:        now,
		log:        log.With().Str("service", "auth").Logger(),
	}
}

// Authenticate checks a username/password pair and returns the matching caller
func (s *authService) Authenticate(ctx context.Context, username, password string) (policy.Caller, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return policy.Anonymous(), ErrInvalidCredentials
	}
	if err != nil {
		return policy.Anonymous(), fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Debug().Str("username", username).Msg("Password mismatch")
		return policy.Anonymous(), ErrInvalidCredentials
	}

	return policy.Caller{
		Authenticated: true,
		Admin:         user.IsAdmin,
		UserID:        user.ID,
		Username:      user.Username,
	}, nil
}

// CreateUser registers a new account with a bcrypt-hashed password
func (s *authService) CreateUser(ctx context.Context, username, password string, admin bool) (*models.User, error) {
	username = strings.TrimSpace(username)

	var errs []validation.FieldError
	if username == "" {
		errs = append(errs, validation.FieldError{Field: "username", Message: "username is required"})
	} else if utf8.RuneCountInString(username) > MaxUsernameLength {
		errs = append(errs, validation.FieldError{
			Field:   "username",
			Message: fmt.Sprintf("username exceeds maximum of %d characters", MaxUsernameLength),
		})
	}
	if password == "" {
		errs = append(errs, validation.FieldError{Field: "password", Message: "password is required"})
	}
	if len(errs) > 0 {
		return nil, invalid(errs...)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		IsAdmin:      admin,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, invalid(validation.FieldError{Field: "username", Message: "username already taken", Value: username})
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info().
		Str("user_id", user.ID).
		Str("username", username).
		Bool("admin", admin).
		Msg("User created")

	return user, nil
}

// DeleteUser removes an account. Articles it authored remain with no author.
func (s *authService) DeleteUser(ctx context.Context, username string) error {
	if err := s.repo.Delete(ctx, username); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.log.Info().Str("username", username).Msg("User deleted")
	return nil
}
