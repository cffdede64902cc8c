package restapi

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenProvider supplies the session's bearer token. The session itself is
// an opaque, read-only collaborator; the client only reads the current token.
type TokenProvider interface {
	Token() string
}

// StaticToken is a TokenProvider for a fixed token, mostly for tests.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// tokenExpired checks the token's exp claim without verifying the signature;
// verification is the server's job, this only avoids doomed requests.
func tokenExpired(token string) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		// Not a JWT we can read; let the server judge it.
		return false
	}
	return claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now())
}
