package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("auth token not configured")
	ErrExpiredToken = errors.New("auth token expired")
)

// TokenSource supplies the bearer token for backend calls. Every client
// constructor takes one explicitly; nothing below the edge reads ambient
// global state.
type TokenSource interface {
	Token() (string, error)
}

// StaticTokenSource holds a fixed token handed over at construction time.
type StaticTokenSource struct {
	token string
}

// NewStaticTokenSource creates a token source around a fixed token.
func NewStaticTokenSource(token string) *StaticTokenSource {
	return &StaticTokenSource{token: token}
}

// Token returns the fixed token after checking it is present and not expired.
func (s *StaticTokenSource) Token() (string, error) {
	return checkToken(s.token)
}

// EnvTokenSource reads the token from an environment variable on every call,
// so a rotated token is picked up without restarting the workflow.
type EnvTokenSource struct {
	envVar string
}

// NewEnvTokenSource creates a token source reading the given variable.
func NewEnvTokenSource(envVar string) *EnvTokenSource {
	return &EnvTokenSource{envVar: envVar}
}

// Token returns the environment token after checking presence and expiry.
func (s *EnvTokenSource) Token() (string, error) {
	return checkToken(os.Getenv(s.envVar))
}

// BearerHeader formats a token as an Authorization header value.
func BearerHeader(token string) string {
	return "Bearer " + token
}

func checkToken(token string) (string, error) {
	if token == "" {
		return "", ErrMissingToken
	}
	if err := checkExpiry(token); err != nil {
		return "", err
	}
	return token, nil
}

// checkExpiry inspects a JWT's exp claim without verifying the signature, so
// an expired token fails fast as a configuration error instead of a
// confusing 401 mid-workflow. Opaque non-JWT tokens pass through; the
// backend remains the authority on token validity.
func checkExpiry(token string) error {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if exp.Before(time.Now()) {
		return ErrExpiredToken
	}
	return nil
}
