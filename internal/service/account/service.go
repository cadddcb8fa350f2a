// Package account drives sign-in, registration and password recovery against
// the managed auth platform.
package account

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"interviewprep/internal/auth"
	"interviewprep/internal/domain"
	"interviewprep/internal/domain/models"
	"interviewprep/internal/domain/services"
	"interviewprep/internal/validation"
)

// Paths of the web app that auth emails link back to.
const (
	CallbackPath      = "/api/auth/callback"
	ResetPasswordPath = "/reset-password"
)

// authAPI is the part of the GoTrue client the service uses.
type authAPI interface {
	SignInWithPassword(ctx context.Context, email, password string) (*models.AuthSession, error)
	SignUp(ctx context.Context, email, password, redirectTo, challenge string) (*models.AuthUser, *models.AuthSession, error)
	Recover(ctx context.Context, email, redirectTo, challenge string) error
	ExchangeCode(ctx context.Context, code, verifier string) (*models.AuthSession, error)
	RefreshSession(ctx context.Context, refreshToken string) (*models.AuthSession, error)
	UpdatePassword(ctx context.Context, accessToken, password string) (*models.AuthUser, error)
	SignOut(ctx context.Context, accessToken string) error
}

// Service implements services.AccountService.
type Service struct {
	api       authAPI
	publicURL string
	logger    *slog.Logger
}

// NewService creates a new account service. publicURL is the origin auth
// emails redirect to.
func NewService(api authAPI, publicURL string, logger *slog.Logger) services.AccountService {
	return &Service{
		api:       api,
		publicURL: publicURL,
		logger:    logger,
	}
}

// Login signs in with email and password. Users who have not confirmed their
// email are signed out again and rejected.
func (s *Service) Login(ctx context.Context, creds *services.Credentials) (*models.AuthSession, error) {
	if err := validation.Login(creds); err != nil {
		return nil, err
	}

	session, err := s.api.SignInWithPassword(ctx, creds.Email, creds.Password)
	if err != nil {
		s.logger.Info("login rejected", "error", err)
		return nil, auth.MapSignInError(err)
	}

	if !session.User.IsConfirmed() {
		if err := s.api.SignOut(ctx, session.AccessToken); err != nil {
			s.logger.Warn("failed to sign out unconfirmed user", "error", err)
		}
		return nil, &auth.AuthError{
			Status:  http.StatusUnauthorized,
			Code:    auth.CodeEmailNotConfirmed,
			Message: "Please verify your email address before logging in",
		}
	}

	s.logger.Info("user logged in", "user_id", session.User.ID)
	return session, nil
}

// SignUp registers a new user. The confirmation email links to the callback
// path, which redeems the code with the returned verifier.
func (s *Service) SignUp(ctx context.Context, creds *services.Credentials) (*services.SignUpResult, error) {
	if err := validation.SignUp(creds); err != nil {
		return nil, err
	}

	verifier, challenge, err := auth.NewPKCEVerifier()
	if err != nil {
		return nil, err
	}

	user, session, err := s.api.SignUp(ctx, creds.Email, creds.Password, s.publicURL+CallbackPath, challenge)
	if err != nil {
		s.logger.Info("signup rejected", "error", err)
		return nil, auth.MapSignUpError(err)
	}

	s.logger.Info("user signed up", "user_id", user.ID)
	return &services.SignUpResult{
		User:         user,
		Session:      session,
		CodeVerifier: verifier,
	}, nil
}

// RequestPasswordReset sends a recovery email. It returns the code verifier
// needed to redeem the emailed link.
func (s *Service) RequestPasswordReset(ctx context.Context, req *services.PasswordResetRequest) (string, error) {
	if err := validation.PasswordReset(req); err != nil {
		return "", err
	}

	verifier, challenge, err := auth.NewPKCEVerifier()
	if err != nil {
		return "", err
	}

	if err := s.api.Recover(ctx, req.Email, s.publicURL+ResetPasswordPath, challenge); err != nil {
		s.logger.Warn("password reset request failed", "error", err)
		return "", auth.BadRequest(err)
	}
	return verifier, nil
}

// ExchangeCode redeems an emailed auth code. Any failure is ErrLinkExpired.
func (s *Service) ExchangeCode(ctx context.Context, code, codeVerifier string) (*models.AuthSession, error) {
	if code == "" {
		return nil, auth.ErrLinkExpired
	}
	session, err := s.api.ExchangeCode(ctx, code, codeVerifier)
	if err != nil {
		s.logger.Info("code exchange failed", "error", err)
		return nil, fmt.Errorf("%w: %v", auth.ErrLinkExpired, err)
	}
	return session, nil
}

// UpdatePassword redeems the recovery code and sets the new password.
func (s *Service) UpdatePassword(ctx context.Context, req *services.PasswordUpdateRequest, codeVerifier string) (*models.AuthSession, error) {
	if err := validation.PasswordUpdate(req); err != nil {
		return nil, err
	}

	session, err := s.ExchangeCode(ctx, req.Code, codeVerifier)
	if err != nil {
		return nil, err
	}

	user, err := s.api.UpdatePassword(ctx, session.AccessToken, req.Password)
	if err != nil {
		s.logger.Warn("password update failed", "error", err)
		return nil, auth.BadRequest(err)
	}
	session.User = user

	s.logger.Info("password updated", "user_id", user.ID)
	return session, nil
}

// Refresh trades a refresh token for a new session.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.AuthSession, error) {
	if refreshToken == "" {
		return nil, domain.ErrUnauthorized
	}
	session, err := s.api.RefreshSession(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: refresh failed: %v", domain.ErrUnauthorized, err)
	}
	return session, nil
}

// Logout revokes the session at the auth platform.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	if err := s.api.SignOut(ctx, accessToken); err != nil {
		return auth.BadRequest(err)
	}
	return nil
}
