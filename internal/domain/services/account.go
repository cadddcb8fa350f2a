package services

import (
	"context"

	"interviewprep/internal/domain/models"
)

// Credentials is an email/password pair.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// ConfirmPassword is optional on sign-up; when sent it must match Password.
	ConfirmPassword string `json:"confirm_password,omitempty"`
}

// PasswordResetRequest asks for a recovery email.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordUpdateRequest sets a new password, optionally redeeming a recovery code first.
type PasswordUpdateRequest struct {
	Password string `json:"password"`
	Code     string `json:"code"`
}

// SignUpResult is returned after registration. Session is nil until the email is confirmed.
type SignUpResult struct {
	User    *models.AuthUser
	Session *models.AuthSession
	// CodeVerifier must be kept by the caller to redeem the confirmation link.
	CodeVerifier string
}

// AccountService drives the managed auth platform's user flows.
type AccountService interface {
	Login(ctx context.Context, creds *Credentials) (*models.AuthSession, error)
	SignUp(ctx context.Context, creds *Credentials) (*SignUpResult, error)
	RequestPasswordReset(ctx context.Context, req *PasswordResetRequest) (codeVerifier string, err error)
	ExchangeCode(ctx context.Context, code, codeVerifier string) (*models.AuthSession, error)
	// UpdatePassword redeems the recovery code with codeVerifier, then sets the
	// new password. Returns the recovery session on success.
	UpdatePassword(ctx context.Context, req *PasswordUpdateRequest, codeVerifier string) (*models.AuthSession, error)
	Refresh(ctx context.Context, refreshToken string) (*models.AuthSession, error)
	Logout(ctx context.Context, accessToken string) error
}
