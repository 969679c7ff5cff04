package client

import (
	"context"
	"errors"
	"strings"
)

// ErrAuthRequired is returned by mutations when no session token is available.
// No request is sent in that case.
var ErrAuthRequired = errors.New("authentication required")

// TokenSource supplies the bearer token of the current editor session.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to the TokenSource interface.
type TokenFunc func(ctx context.Context) (string, error)

// Token calls f.
func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// StaticToken is a fixed token, typically read from a flag or environment variable.
// The empty token means there is no session.
type StaticToken string

// Token returns the token or ErrAuthRequired when it is blank.
func (t StaticToken) Token(context.Context) (string, error) {
	tok := strings.TrimSpace(string(t))
	if tok == "" {
		return "", ErrAuthRequired
	}
	return tok, nil
}
