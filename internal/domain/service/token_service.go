package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the claims carried by a session token. Subject holds the
// identity claim (the user's email).
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService is the Token Issuer. Its signing key is fixed for the lifetime
// of the process.
type TokenService interface {
	// Issue signs a token for subject, valid from now for TTL().
	Issue(subject string) (string, error)

	// Verify checks signature and expiry and returns the token's claims.
	Verify(tokenString string) (*Claims, error)

	// TTL returns the validity window of issued tokens.
	TTL() time.Duration
}
