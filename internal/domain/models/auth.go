package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SupabaseClaims is the access token claim set issued by the managed auth platform.
type SupabaseClaims struct {
	jwt.RegisteredClaims
	Email       string                 `json:"email"`
	Role        string                 `json:"role"` // "authenticated" or "anon"
	AAL         string                 `json:"aal"`
	SessionID   string                 `json:"session_id"`
	IsAnonymous bool                   `json:"is_anonymous"`
	AppMetadata map[string]interface{} `json:"app_metadata"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *SupabaseClaims) GetUserID() string {
	return c.Subject
}

// AuthUser is the subset of the platform user record the API exposes.
type AuthUser struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty"`
}

// IsConfirmed reports whether the user verified their email address.
func (u *AuthUser) IsConfirmed() bool {
	return u != nil && u.EmailConfirmedAt != nil && !u.EmailConfirmedAt.IsZero()
}

// AuthSession holds the tokens of a signed-in user.
type AuthSession struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int       `json:"expires_in"`
	User         *AuthUser `json:"user"`
}

// Principal is the authenticated caller attached to a request.
type Principal struct {
	UserID string
	Email  string
}
