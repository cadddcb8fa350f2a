package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"interviewprep/internal/auth"
	"interviewprep/internal/domain/models"
	"interviewprep/internal/httputil"
	"interviewprep/internal/session"
)

// Paths reachable without a session.
var publicPaths = map[string]bool{
	"/health":            true,
	"/api/auth/callback": true,
	"/api/auth/logout":   true,
}

// Paths only meaningful for signed-out callers. Signed-in callers are sent home.
var unauthenticatedOnlyPaths = map[string]bool{
	"/api/auth/login":           true,
	"/api/auth/signup":          true,
	"/api/auth/reset-password":  true,
	"/api/auth/update-password": true,
}

// SessionRefresher trades a refresh token for a new session.
type SessionRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (*models.AuthSession, error)
}

// Authenticator resolves the caller from a bearer token or the session cookie
// and gates every route by path class.
type Authenticator struct {
	verifier  auth.JWTVerifier
	sessions  *session.Store
	refresher SessionRefresher
	logger    *slog.Logger
}

// NewAuthenticator creates the auth gate.
func NewAuthenticator(verifier auth.JWTVerifier, sessions *session.Store, refresher SessionRefresher, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		verifier:  verifier,
		sessions:  sessions,
		refresher: refresher,
		logger:    logger,
	}
}

// Middleware wraps next with the auth gate.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, token := a.resolve(w, r)
		if claims != nil {
			r = httputil.WithUserID(r, claims.GetUserID())
			r = httputil.WithAccessToken(r, token)
			reportUserID(r.Context(), claims.GetUserID())
		}

		switch {
		case publicPaths[r.URL.Path]:
		case unauthenticatedOnlyPaths[r.URL.Path]:
			if claims != nil {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
		default:
			if claims == nil {
				httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// resolve returns the verified claims and the token they came from, or nil.
// An expired cookie token is refreshed once and the cookie rewritten.
func (a *Authenticator) resolve(w http.ResponseWriter, r *http.Request) (*models.SupabaseClaims, string) {
	if header := r.Header.Get("Authorization"); header != "" {
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return nil, ""
		}
		claims, err := a.verifier.VerifyToken(token)
		if err != nil {
			return nil, ""
		}
		return claims, token
	}

	accessToken, refreshToken := a.sessions.Tokens(r)
	if accessToken == "" {
		return nil, ""
	}

	claims, err := a.verifier.VerifyToken(accessToken)
	if err == nil {
		return claims, accessToken
	}
	if !errors.Is(err, auth.ErrTokenExpired) || refreshToken == "" {
		return nil, ""
	}

	refreshed, err := a.refresher.Refresh(r.Context(), refreshToken)
	if err != nil {
		a.logger.Debug("session refresh failed", "error", err)
		return nil, ""
	}
	claims, err = a.verifier.VerifyToken(refreshed.AccessToken)
	if err != nil {
		return nil, ""
	}
	if err := a.sessions.SaveTokens(w, r, refreshed); err != nil {
		a.logger.Error("failed to store refreshed session", "error", err)
	}
	return claims, refreshed.AccessToken
}
