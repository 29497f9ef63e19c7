package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/blog-api/internal/models"
	"github.com/google/uuid"
)

// FieldError describes a single invalid field in a request payload
type FieldError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error implements the error interface
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateArticle checks the writable fields of an article
func ValidateArticle(input *models.ArticleInput) []FieldError {
	var errors []FieldError

	// Validate title
	if strings.TrimSpace(input.Title) == "" {
		errors = append(errors, FieldError{Field: "title", Message: "title is required"})
	} else if n := utf8.RuneCountInString(input.Title); n > models.MaxTitleLength {
		errors = append(errors, FieldError{
			Field:   "title",
			Message: fmt.Sprintf("title exceeds maximum of %d characters (has %d)", models.MaxTitleLength, n),
		})
	}

	// Validate content
	if strings.TrimSpace(input.Content) == "" {
		errors = append(errors, FieldError{Field: "content", Message: "content is required"})
	}

	return errors
}

// ValidateComment checks the writable fields of a comment. Whether the
// referenced article exists is decided by the store, not here.
func ValidateComment(input *models.CommentInput) []FieldError {
	var errors []FieldError

	// Validate content
	if strings.TrimSpace(input.Content) == "" {
		errors = append(errors, FieldError{Field: "content", Message: "content is required"})
	}

	// Validate article (FK)
	if input.ArticleID == "" {
		errors = append(errors, FieldError{Field: "article", Message: "article is required"})
	} else if !IsValidID(input.ArticleID) {
		errors = append(errors, FieldError{Field: "article", Message: "invalid article reference", Value: input.ArticleID})
	}

	// Validate username; whether one is required depends on the caller
	if input.Username != nil {
		if n := utf8.RuneCountInString(strings.TrimSpace(*input.Username)); n > models.MaxUsernameLength {
			errors = append(errors, FieldError{
				Field:   "username",
				Message: fmt.Sprintf("username exceeds maximum of %d characters (has %d)", models.MaxUsernameLength, n),
			})
		}
	}

	return errors
}

// IsValidID checks if a string is a valid resource ID (UUID)
func IsValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
