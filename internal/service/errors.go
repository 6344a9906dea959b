package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/aegis-admin-api/internal/repository"
)

var (
	// ErrInvalidCredentials covers unknown email and wrong password alike,
	// so a caller cannot probe which emails exist.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountInactive rejects logins for deactivated accounts.
	ErrAccountInactive = errors.New("account is deactivated")
	// ErrNotFound maps to a 404 response.
	ErrNotFound = errors.New("resource not found")
	// ErrEmailTaken maps to a 409 response.
	ErrEmailTaken = errors.New("an account with this email already exists")
	// ErrCategoryExists maps to a 409 response.
	ErrCategoryExists = errors.New("a category with this name already exists")
)

// ValidationError carries an itemized list of input problems so the client
// can surface them all at once.
type ValidationError struct {
	Message string
	Details []string
}

func (e *ValidationError) Error() string { return e.Message }

func newValidationError(message string, details ...string) *ValidationError {
	return &ValidationError{Message: message, Details: details}
}

// validationDetails flattens validator.ValidationErrors into readable lines.
func validationDetails(err error) []string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []string{err.Error()}
	}

	details := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			details = append(details, fmt.Sprintf("%s is required", field))
		case "email":
			details = append(details, fmt.Sprintf("%s must be a valid email address", field))
		case "min":
			details = append(details, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			details = append(details, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "oneof":
			details = append(details, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		default:
			details = append(details, fmt.Sprintf("%s is invalid", field))
		}
	}
	return details
}

// invalidRequest wraps a validator error into a ValidationError.
func invalidRequest(err error) *ValidationError {
	return &ValidationError{Message: "invalid request payload", Details: validationDetails(err)}
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

func isDuplicateEmail(err error) bool {
	return errors.Is(err, repository.ErrDuplicateEmail)
}
