package validation

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"interviewprep/internal/config"
	"interviewprep/internal/domain/services"
)

var (
	hasLetter = regexp.MustCompile(`\p{L}`)
	hasDigit  = regexp.MustCompile(`\p{Nd}`)
)

func passwordRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("password is required"),
		validation.RuneLength(config.MinPasswordLength, config.MaxPasswordLength),
		validation.Match(hasLetter).Error("password must contain at least one letter"),
		validation.Match(hasDigit).Error("password must contain at least one number"),
	}
}

func emailRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("email is required"),
		is.EmailFormat.Error("invalid email address"),
	}
}

// Login validates sign-in credentials. Password strength is not checked here.
func Login(creds *services.Credentials) error {
	return toDomainError(validation.ValidateStruct(creds,
		validation.Field(&creds.Email, emailRules()...),
		validation.Field(&creds.Password, validation.Required.Error("password is required")),
	))
}

// SignUp validates registration credentials including password strength.
func SignUp(creds *services.Credentials) error {
	return toDomainError(validation.ValidateStruct(creds,
		validation.Field(&creds.Email, emailRules()...),
		validation.Field(&creds.Password, passwordRules()...),
		validation.Field(&creds.ConfirmPassword,
			validation.When(creds.ConfirmPassword != "",
				validation.In(creds.Password).Error("passwords do not match"),
			),
		),
	))
}

// PasswordReset validates a recovery email request.
func PasswordReset(req *services.PasswordResetRequest) error {
	return toDomainError(validation.ValidateStruct(req,
		validation.Field(&req.Email, emailRules()...),
	))
}

// PasswordUpdate validates a new password and the recovery code.
func PasswordUpdate(req *services.PasswordUpdateRequest) error {
	return toDomainError(validation.ValidateStruct(req,
		validation.Field(&req.Password, passwordRules()...),
		validation.Field(&req.Code, validation.Required.Error("code is required")),
	))
}
