package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"interviewprep/internal/auth"
	"interviewprep/internal/domain"
	"interviewprep/internal/domain/models"
	"interviewprep/internal/httputil"
	"interviewprep/internal/session"
)

// fakeVerifier accepts "valid-<user>" tokens and reports "expired" as expired.
type fakeVerifier struct{}

func (fakeVerifier) VerifyToken(token string) (*models.SupabaseClaims, error) {
	switch {
	case token == "expired":
		return nil, auth.ErrTokenExpired
	case len(token) > 6 && token[:6] == "valid-":
		c := &models.SupabaseClaims{Role: "authenticated"}
		c.Subject = token[6:]
		return c, nil
	default:
		return nil, domain.ErrUnauthorized
	}
}

func (fakeVerifier) Close() error { return nil }

type refresherFunc func(ctx context.Context, refreshToken string) (*models.AuthSession, error)

func (f refresherFunc) Refresh(ctx context.Context, refreshToken string) (*models.AuthSession, error) {
	return f(ctx, refreshToken)
}

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newGate(t *testing.T, refresh refresherFunc) (http.Handler, *session.Store) {
	t.Helper()
	store, err := session.NewStore("0123456789abcdef0123456789abcdef", false, discardLogger())
	require.NoError(t, err)
	if refresh == nil {
		refresh = func(context.Context, string) (*models.AuthSession, error) { return nil, errors.New("no refresh") }
	}
	gate := NewAuthenticator(fakeVerifier{}, store, refresh, discardLogger())
	return gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("user=" + httputil.GetUserID(r)))
	})), store
}

// cookieRequest builds a request carrying a session cookie with the given tokens.
func cookieRequest(t *testing.T, store *session.Store, method, path, access, refresh string) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, store.SaveTokens(rec, httptest.NewRequest(http.MethodGet, "/", nil),
		&models.AuthSession{AccessToken: access, RefreshToken: refresh}))
	r := httptest.NewRequest(method, path, nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestAuthGatePathClasses(t *testing.T) {
	h, _ := newGate(t, nil)

	tests := []struct {
		name       string
		path       string
		bearer     string
		wantStatus int
		wantBody   string
	}{
		{"public without session", "/health", "", http.StatusOK, "user="},
		{"callback without session", "/api/auth/callback", "", http.StatusOK, "user="},
		{"protected without session", "/api/questions", "", http.StatusUnauthorized, ""},
		{"protected with bearer", "/api/questions", "valid-u1", http.StatusOK, "user=u1"},
		{"protected with rejected bearer", "/api/questions", "forged", http.StatusUnauthorized, ""},
		{"login signed out", "/api/auth/login", "", http.StatusOK, "user="},
		{"login signed in", "/api/auth/login", "valid-u1", http.StatusSeeOther, ""},
		{"signup signed in", "/api/auth/signup", "valid-u1", http.StatusSeeOther, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, tt.path, nil)
			if tt.bearer != "" {
				r.Header.Set("Authorization", "Bearer "+tt.bearer)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
			if tt.wantStatus == http.StatusSeeOther {
				assert.Equal(t, "/", rec.Header().Get("Location"))
			}
		})
	}
}

func TestAuthGateCookieSession(t *testing.T) {
	h, store := newGate(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, cookieRequest(t, store, http.MethodGet, "/api/questions", "valid-u2", "rt"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user=u2", rec.Body.String())
}

func TestAuthGateRefreshesExpiredCookieOnce(t *testing.T) {
	calls := 0
	h, store := newGate(t, func(_ context.Context, refreshToken string) (*models.AuthSession, error) {
		calls++
		assert.Equal(t, "rt", refreshToken)
		return &models.AuthSession{AccessToken: "valid-u3", RefreshToken: "rt2"}, nil
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, cookieRequest(t, store, http.MethodGet, "/api/questions", "expired", "rt"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user=u3", rec.Body.String())
	assert.Equal(t, 1, calls)

	// The rewritten cookie carries the new tokens.
	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	access, refresh := store.Tokens(next)
	assert.Equal(t, "valid-u3", access)
	assert.Equal(t, "rt2", refresh)
}

func TestAuthGateFailedRefreshIsUnauthenticated(t *testing.T) {
	h, store := newGate(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, cookieRequest(t, store, http.MethodGet, "/api/questions", "expired", "rt"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
}

func TestLoggerReportsStatusAndUser(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	gate, _ := newGate(t, nil)
	h := RequestID(Logger(logger)(gate))

	r := httptest.NewRequest(http.MethodGet, "/api/questions", nil)
	r.Header.Set("Authorization", "Bearer valid-u9")
	r.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
	line := buf.String()
	assert.Contains(t, line, `"msg":"http.request"`)
	assert.Contains(t, line, `"status":200`)
	assert.Contains(t, line, `"user_id":"u9"`)
	assert.Contains(t, line, `"request_id":"req-123"`)
}

func TestRecoveryReturnsProblem(t *testing.T) {
	h := Recovery(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}
