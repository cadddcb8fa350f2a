package auth

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"interviewprep/internal/domain/models"
)

const defaultHTTPTimeout = 30 * time.Second

// GoTrueClient talks to the managed auth platform's REST API (/auth/v1).
// The anon key is used for user flows; the service key only for Admin* calls.
type GoTrueClient struct {
	baseURL    string
	anonKey    string
	serviceKey string
	httpClient *http.Client
	logger     *slog.Logger
}

// GoTrueConfig holds the connection settings of a GoTrueClient.
type GoTrueConfig struct {
	SupabaseURL string
	AnonKey     string
	ServiceKey  string
	HTTPClient  *http.Client
}

// NewGoTrueClient creates a client for the auth API under cfg.SupabaseURL.
func NewGoTrueClient(cfg GoTrueConfig, logger *slog.Logger) *GoTrueClient {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &GoTrueClient{
		baseURL:    strings.TrimRight(cfg.SupabaseURL, "/") + "/auth/v1",
		anonKey:    cfg.AnonKey,
		serviceKey: cfg.ServiceKey,
		httpClient: httpClient,
		logger:     logger,
	}
}

// APIError is an error payload returned by the auth API. Older GoTrue
// versions use error/error_description, newer ones code/error_code/msg.
type APIError struct {
	Status    int    `json:"-"`
	ErrorCode string `json:"error_code,omitempty"`
	Msg       string `json:"msg,omitempty"`
	Message   string `json:"message,omitempty"`
	ErrorName string `json:"error,omitempty"`
	ErrorDesc string `json:"error_description,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("auth api error %d: %s", e.Status, e.Text())
}

// Text returns the most descriptive message in the payload.
func (e *APIError) Text() string {
	for _, s := range []string{e.Msg, e.Message, e.ErrorDesc, e.ErrorName, e.ErrorCode} {
		if s != "" {
			return s
		}
	}
	return http.StatusText(e.Status)
}

// SignInWithPassword performs the password grant.
func (c *GoTrueClient) SignInWithPassword(ctx context.Context, email, password string) (*models.AuthSession, error) {
	var session models.AuthSession
	err := c.do(ctx, http.MethodPost, "/token?grant_type=password", c.anonKey, map[string]string{
		"email":    email,
		"password": password,
	}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// SignUp registers a user. The confirmation link redirects to redirectTo and
// carries a code that must be redeemed with the verifier behind challenge.
// The session is nil when the platform requires email confirmation.
func (c *GoTrueClient) SignUp(ctx context.Context, email, password, redirectTo, challenge string) (*models.AuthUser, *models.AuthSession, error) {
	var resp struct {
		models.AuthUser
		AccessToken  string           `json:"access_token"`
		RefreshToken string           `json:"refresh_token"`
		ExpiresIn    int              `json:"expires_in"`
		User         *models.AuthUser `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/signup"+redirectQuery(redirectTo), c.anonKey, map[string]string{
		"email":                 email,
		"password":              password,
		"code_challenge":        challenge,
		"code_challenge_method": "s256",
	}, &resp)
	if err != nil {
		return nil, nil, err
	}

	// Auto-confirmed projects answer with a session, others with the bare user.
	if resp.AccessToken != "" && resp.User != nil {
		return resp.User, &models.AuthSession{
			AccessToken:  resp.AccessToken,
			RefreshToken: resp.RefreshToken,
			ExpiresIn:    resp.ExpiresIn,
			User:         resp.User,
		}, nil
	}
	user := resp.AuthUser
	return &user, nil, nil
}

// Recover sends a password recovery email whose link redirects to redirectTo.
func (c *GoTrueClient) Recover(ctx context.Context, email, redirectTo, challenge string) error {
	return c.do(ctx, http.MethodPost, "/recover"+redirectQuery(redirectTo), c.anonKey, map[string]string{
		"email":                 email,
		"code_challenge":        challenge,
		"code_challenge_method": "s256",
	}, nil)
}

// ExchangeCode redeems a PKCE auth code for a session.
func (c *GoTrueClient) ExchangeCode(ctx context.Context, code, verifier string) (*models.AuthSession, error) {
	var session models.AuthSession
	err := c.do(ctx, http.MethodPost, "/token?grant_type=pkce", c.anonKey, map[string]string{
		"auth_code":     code,
		"code_verifier": verifier,
	}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// RefreshSession trades a refresh token for a new session.
func (c *GoTrueClient) RefreshSession(ctx context.Context, refreshToken string) (*models.AuthSession, error) {
	var session models.AuthSession
	err := c.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", c.anonKey, map[string]string{
		"refresh_token": refreshToken,
	}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// UpdatePassword changes the password of the user owning accessToken.
func (c *GoTrueClient) UpdatePassword(ctx context.Context, accessToken, password string) (*models.AuthUser, error) {
	var user models.AuthUser
	err := c.do(ctx, http.MethodPut, "/user", accessToken, map[string]string{
		"password": password,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SignOut revokes the refresh tokens of the session owning accessToken.
func (c *GoTrueClient) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
}

// adminUser is the user record returned by the admin API.
type adminUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AdminCreateUser creates a confirmed user and returns its id.
func (c *GoTrueClient) AdminCreateUser(ctx context.Context, email, password string) (string, error) {
	var created adminUser
	err := c.do(ctx, http.MethodPost, "/admin/users", c.serviceKey, map[string]any{
		"email":         email,
		"password":      password,
		"email_confirm": true,
	}, &created)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// AdminDeleteUserByEmail deletes the user with the given email.
// Deleting a missing user succeeds.
func (c *GoTrueClient) AdminDeleteUserByEmail(ctx context.Context, email string) error {
	var list struct {
		Users []adminUser `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/users?per_page=1000", c.serviceKey, nil, &list); err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	for _, u := range list.Users {
		if strings.EqualFold(u.Email, email) {
			if err := c.do(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(u.ID), c.serviceKey, nil, nil); err != nil {
				return fmt.Errorf("delete user %s: %w", u.ID, err)
			}
			return nil
		}
	}
	return nil
}

// do sends one request. bearer is the token for the Authorization header;
// the anon key (or service key for admin paths) is always sent as apikey.
func (c *GoTrueClient) do(ctx context.Context, method, path, bearer string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	apiKey := c.anonKey
	if strings.HasPrefix(path, "/admin/") {
		apiKey = c.serviceKey
	}
	req.Header.Set("apikey", apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth api request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read auth api response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if len(raw) > 0 && json.Unmarshal(raw, apiErr) != nil {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		c.logger.Debug("auth api error",
			"method", method,
			"path", strings.SplitN(path, "?", 2)[0],
			"status", resp.StatusCode,
			"message", apiErr.Text(),
		)
		return apiErr
	}

	if dest == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("failed to decode auth api response: %w", err)
	}
	return nil
}

func redirectQuery(redirectTo string) string {
	if redirectTo == "" {
		return ""
	}
	return "?redirect_to=" + url.QueryEscape(redirectTo)
}

// NewPKCEVerifier returns a random code verifier and its S256 challenge.
func NewPKCEVerifier() (verifier, challenge string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to generate code verifier: %w", err)
	}
	verifier = base64.RawURLEncoding.EncodeToString(buf)
	return verifier, PKCEChallenge(verifier), nil
}

// PKCEChallenge derives the S256 code challenge of verifier.
func PKCEChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
