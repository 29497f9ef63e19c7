package policy

import (
	"errors"
	"strings"
)

// ErrMissingUsername is returned when an anonymous caller creates a comment
// without naming itself.
var ErrMissingUsername = errors.New("username is required for anonymous comments")

// ResolveAuthor returns the name a new comment is stored under. A logged-in
// caller is always recorded under its own username, whatever was supplied;
// an anonymous caller must supply a non-blank name.
func ResolveAuthor(caller Caller, supplied *string) (string, error) {
	if caller.Authenticated {
		return caller.Username, nil
	}
	if supplied == nil {
		return "", ErrMissingUsername
	}
	name := strings.TrimSpace(*supplied)
	if name == "" {
		return "", ErrMissingUsername
	}
	return name, nil
}
