package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Profile errors
var (
	ErrProfileNotFound = errors.New("profile not found")
	// ErrVerificationRequired is returned when a minor student has not
	// completed parent and email verification. Details carry which of the
	// two are still missing.
	ErrVerificationRequired = errors.New("verification required")
)

// Feed errors
var (
	ErrPostNotFound = errors.New("post not found")
	// ErrContentTooLong is returned when root post content exceeds the
	// character limit. Details carry the suggestTrail hint.
	ErrContentTooLong = errors.New("post content exceeds character limit")
	ErrNotRootPost    = errors.New("parent post is not a root post")
	ErrTrailNotFound  = errors.New("trail post not found")
	ErrNotPostOwner   = errors.New("post does not belong to user")
)

// Goal errors
var (
	ErrGoalNotFound = errors.New("goal not found")
)

// Education errors
var (
	ErrEducationNotFound = errors.New("education record not found")
	// ErrAlreadyDecided is returned when verifying or rejecting an education
	// record that has already been decided. Both states are terminal.
	ErrAlreadyDecided = errors.New("education record verification already decided")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewContentTooLongError creates the structured error for the root post
// character limit, carrying the suggestTrail hint for the client.
func NewContentTooLongError(limit int) error {
	return &CustomError{
		Err:     ErrContentTooLong,
		Message: "post content exceeds the character limit",
		Details: map[string]interface{}{
			"suggestTrail": true,
			"maxLength":    limit,
		},
	}
}

// NewVerificationRequiredError creates the structured error for the minor
// verification gate, distinguishing which checks are still missing.
func NewVerificationRequiredError(needsParentApproval, needsEmailVerification bool) error {
	return &CustomError{
		Err:     ErrVerificationRequired,
		Message: "account verification required",
		Details: map[string]interface{}{
			"needsParentApproval":    needsParentApproval,
			"needsEmailVerification": needsEmailVerification,
		},
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// DetailsOf extracts the Details map if err carries one
func DetailsOf(err error) map[string]interface{} {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Details
	}
	return nil
}
