package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"interviewprep/internal/auth"
	"interviewprep/internal/domain/models"
	"interviewprep/internal/domain/services"
	"interviewprep/internal/httputil"
	"interviewprep/internal/session"
)

// Pages of the web app the auth flows redirect to.
const (
	homePath        = "/"
	loginPath       = "/login"
	expiredLinkPath = "/error/expired-link"
)

// AccountHandler handles sign-in, registration and password recovery
type AccountHandler struct {
	service  services.AccountService
	sessions *session.Store
	logger   *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(service services.AccountService, sessions *session.Store, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		service:  service,
		sessions: sessions,
		logger:   logger,
	}
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type accountResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	User    *userResponse `json:"user,omitempty"`
}

func toUserResponse(u *models.AuthUser) *userResponse {
	if u == nil {
		return nil
	}
	return &userResponse{ID: u.ID, Email: u.Email}
}

// respondAccountError reports validation failures as 422.
func (h *AccountHandler) respondAccountError(w http.ResponseWriter, err error) {
	writeError(w, h.logger, err, http.StatusUnprocessableEntity)
}

// Login signs in with email and password
// POST /api/auth/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds services.Credentials
	if err := httputil.ParseJSON(w, r, &creds); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess, err := h.service.Login(r.Context(), &creds)
	if err != nil {
		h.respondAccountError(w, err)
		return
	}

	if err := h.sessions.SaveTokens(w, r, sess); err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, accountResponse{Success: true, User: toUserResponse(sess.User)})
}

// SignUp registers a new account
// POST /api/auth/signup
func (h *AccountHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var creds services.Credentials
	if err := httputil.ParseJSON(w, r, &creds); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.SignUp(r.Context(), &creds)
	if err != nil {
		h.respondAccountError(w, err)
		return
	}

	if result.Session != nil {
		err = h.sessions.SaveTokens(w, r, result.Session)
	} else {
		err = h.sessions.SetCodeVerifier(w, r, result.CodeVerifier)
	}
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, accountResponse{
		Success: true,
		Message: "Please check your email to verify your account",
		User:    toUserResponse(result.User),
	})
}

// ResetPassword sends a password recovery email
// POST /api/auth/reset-password
func (h *AccountHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req services.PasswordResetRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	verifier, err := h.service.RequestPasswordReset(r.Context(), &req)
	if err != nil {
		h.respondAccountError(w, err)
		return
	}

	if err := h.sessions.SetCodeVerifier(w, r, verifier); err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, accountResponse{
		Success: true,
		Message: "If an account with that email exists, we have sent you a password reset link",
	})
}

// UpdatePassword redeems a recovery code and sets a new password
// POST /api/auth/update-password
func (h *AccountHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req services.PasswordUpdateRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess, err := h.service.UpdatePassword(r.Context(), &req, h.sessions.CodeVerifier(r))
	if errors.Is(err, auth.ErrLinkExpired) {
		http.Redirect(w, r, expiredLinkPath, http.StatusSeeOther)
		return
	}
	if err != nil {
		h.respondAccountError(w, err)
		return
	}

	if err := h.sessions.SaveTokens(w, r, sess); err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, accountResponse{Success: true, User: toUserResponse(sess.User)})
}

// Callback redeems the code from an emailed confirmation link
// GET /api/auth/callback?code=...
func (h *AccountHandler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if errParam := q.Get("error"); errParam != "" {
		desc := q.Get("error_description")
		if errParam == "access_denied" && strings.Contains(strings.ToLower(desc), "expired") {
			http.Redirect(w, r, expiredLinkPath, http.StatusSeeOther)
			return
		}
		if desc == "" {
			desc = "Authentication failed"
		}
		http.Redirect(w, r, loginPath+"?error="+url.QueryEscape(desc), http.StatusSeeOther)
		return
	}

	code := q.Get("code")
	if code == "" {
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}

	sess, err := h.service.ExchangeCode(r.Context(), code, h.sessions.CodeVerifier(r))
	if err != nil {
		http.Redirect(w, r, expiredLinkPath, http.StatusSeeOther)
		return
	}

	if err := h.sessions.SaveTokens(w, r, sess); err != nil {
		h.logger.Error("failed to store session", "error", err)
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, homePath, http.StatusSeeOther)
}

// Logout revokes the session and clears the cookie
// POST /api/auth/logout
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := httputil.GetAccessToken(r)
	if token == "" {
		token, _ = h.sessions.Tokens(r)
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		h.respondAccountError(w, err)
		return
	}

	if err := h.sessions.Clear(w, r); err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, accountResponse{Success: true})
}
