package auth

import (
	"errors"
	"net/http"
	"strings"
)

// Codes returned to clients for known account failures.
const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeEmailNotConfirmed  = "EMAIL_NOT_CONFIRMED"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeUserExists         = "USER_EXISTS"
	CodeSignupFailed       = "SIGNUP_FAILED"
	CodeGeneric            = "GENERIC_ERROR"
)

// AuthError is an account flow failure with a client-facing message and code.
type AuthError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *AuthError) Error() string   { return e.Message }
func (e *AuthError) StatusCode() int { return e.Status }
func (e *AuthError) Unwrap() error   { return e.Err }

// MapSignInError translates a sign-in failure into a 401 AuthError.
func MapSignInError(err error) *AuthError {
	msg := strings.ToLower(upstreamText(err))

	switch {
	case strings.Contains(msg, "invalid login credentials"), strings.Contains(msg, "invalid password"):
		return &AuthError{Status: http.StatusUnauthorized, Code: CodeInvalidCredentials, Message: "Invalid email or password", Err: err}
	case strings.Contains(msg, "email not confirmed"):
		return &AuthError{Status: http.StatusUnauthorized, Code: CodeEmailNotConfirmed, Message: "Please verify your email address before logging in", Err: err}
	case strings.Contains(msg, "user not found"):
		return &AuthError{Status: http.StatusUnauthorized, Code: CodeUserNotFound, Message: "No account found with this email address", Err: err}
	default:
		return &AuthError{Status: http.StatusUnauthorized, Code: CodeGeneric, Message: "Authentication failed. Please try again.", Err: err}
	}
}

// MapSignUpError translates a registration failure.
func MapSignUpError(err error) *AuthError {
	msg := upstreamText(err)
	if strings.Contains(strings.ToLower(msg), "user already registered") {
		return &AuthError{Status: http.StatusConflict, Code: CodeUserExists, Message: "An account with this email already exists", Err: err}
	}
	return &AuthError{Status: http.StatusBadRequest, Code: CodeSignupFailed, Message: msg, Err: err}
}

// BadRequest wraps an upstream failure as a 400 carrying the upstream message.
func BadRequest(err error) *AuthError {
	return &AuthError{Status: http.StatusBadRequest, Message: upstreamText(err), Err: err}
}

func upstreamText(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Text()
	}
	return "authentication service unavailable"
}

// ErrLinkExpired means an emailed auth code could not be redeemed.
var ErrLinkExpired = errors.New("auth link expired or already used")
