package auth

import (
	"errors"

	"interviewprep/internal/domain/models"
)

// ErrTokenExpired is returned by VerifyToken when the token is well formed and
// correctly signed but past its expiry. Callers holding a refresh token may retry.
var ErrTokenExpired = errors.New("token expired")

// JWTVerifier defines the interface for JWT token verification.
// This abstraction keeps the middleware agnostic to the verification details.
type JWTVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns ErrTokenExpired for expired tokens and domain.ErrUnauthorized otherwise.
	VerifyToken(tokenString string) (*models.SupabaseClaims, error)

	// Close releases any resources held by the verifier.
	Close() error
}
