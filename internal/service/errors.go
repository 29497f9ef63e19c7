package service

import (
	"errors"
	"strings"

	"github.com/blog-api/internal/policy"
	"github.com/blog-api/internal/validation"
	"github.com/rs/zerolog"
)

var (
	// ErrNotFound is returned when an id does not resolve to a row
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated is returned when a privileged action has no caller identity
	ErrUnauthenticated = errors.New("authentication credentials were not provided")

	// ErrForbidden is returned when an authenticated caller lacks admin rights
	ErrForbidden = errors.New("you do not have permission to perform this action")

	// ErrInvalidCredentials is returned when supplied credentials do not match an account
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationError reports one or more invalid fields in a request
type ValidationError struct {
	Fields []validation.FieldError
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalid(fields ...validation.FieldError) error {
	return &ValidationError{Fields: fields}
}

// authorize consults the access policy and converts a denial into the
// error kind matching the caller
func authorize(log zerolog.Logger, action policy.Action, caller policy.Caller) error {
	if policy.Decide(action, caller) == policy.Allow {
		return nil
	}

	log.Debug().
		Str("action", action.String()).
		Bool("authenticated", caller.Authenticated).
		Str("username", caller.Username).
		Msg("Access denied")

	if !caller.Authenticated {
		return ErrUnauthenticated
	}
	return ErrForbidden
}
