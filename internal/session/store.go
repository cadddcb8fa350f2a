// Package session keeps the caller's auth tokens in an authenticated cookie.
package session

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"interviewprep/internal/domain/models"
)

// CookieName is the name of the session cookie.
const CookieName = "sb-session"

const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyCodeVerifier = "code_verifier"
)

// maxAge is the lifetime of the cookie. Token expiry is enforced separately.
const maxAge = 7 * 24 * 60 * 60

// Store reads and writes the session cookie.
type Store struct {
	cookies *sessions.CookieStore
	logger  *slog.Logger
}

// NewStore creates a cookie store. An empty secret generates a random key,
// which invalidates every session on restart.
func NewStore(secret string, secure bool, logger *slog.Logger) (*Store, error) {
	key := []byte(secret)
	if secret == "" {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate session key: %w", err)
		}
		logger.Warn("SESSION_SECRET not set, using a random per-process key")
	}

	cookies := sessions.NewCookieStore(key)
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &Store{cookies: cookies, logger: logger}, nil
}

// get never fails: a cookie that does not decode yields a fresh session.
func (s *Store) get(r *http.Request) *sessions.Session {
	sess, err := s.cookies.Get(r, CookieName)
	if err != nil {
		s.logger.Debug("discarding unreadable session cookie", "error", err)
	}
	return sess
}

// Tokens returns the stored access and refresh tokens, empty when absent.
func (s *Store) Tokens(r *http.Request) (accessToken, refreshToken string) {
	sess := s.get(r)
	accessToken, _ = sess.Values[keyAccessToken].(string)
	refreshToken, _ = sess.Values[keyRefreshToken].(string)
	return accessToken, refreshToken
}

// SaveTokens stores the session tokens and drops any pending code verifier.
func (s *Store) SaveTokens(w http.ResponseWriter, r *http.Request, session *models.AuthSession) error {
	sess := s.get(r)
	sess.Values[keyAccessToken] = session.AccessToken
	sess.Values[keyRefreshToken] = session.RefreshToken
	delete(sess.Values, keyCodeVerifier)
	return sess.Save(r, w)
}

// SetCodeVerifier keeps a PKCE verifier until the emailed link comes back.
func (s *Store) SetCodeVerifier(w http.ResponseWriter, r *http.Request, verifier string) error {
	sess := s.get(r)
	sess.Values[keyCodeVerifier] = verifier
	return sess.Save(r, w)
}

// CodeVerifier returns the pending PKCE verifier, empty when absent.
func (s *Store) CodeVerifier(r *http.Request) string {
	v, _ := s.get(r).Values[keyCodeVerifier].(string)
	return v
}

// Clear expires the session cookie.
func (s *Store) Clear(w http.ResponseWriter, r *http.Request) error {
	sess := s.get(r)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
