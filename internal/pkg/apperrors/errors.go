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
	ErrUnauthenticated    = errors.New("authentication required")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// External service errors
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrUpstream           = errors.New("upstream service error")
)

// User errors
var (
	ErrUserNotFound       = NewCustomError(ErrResourceNotFound, "user not found")
	ErrEmailAlreadyExists = NewCustomError(ErrResourceAlreadyExists, "email already exists")
	ErrUsernameTaken      = NewCustomError(ErrResourceAlreadyExists, "username already taken")
)

// Catalog errors. All owner-scoped lookups collapse "missing" and "owned by
// someone else" into these not-found errors.
var (
	ErrSubjectNotFound     = NewCustomError(ErrResourceNotFound, "subject not found")
	ErrCourseNotFound      = NewCustomError(ErrResourceNotFound, "course not found")
	ErrModuleNotFound      = NewCustomError(ErrResourceNotFound, "module not found")
	ErrContentNotFound     = NewCustomError(ErrResourceNotFound, "content not found")
	ErrItemNotFound        = NewCustomError(ErrResourceNotFound, "content item not found")
	ErrUnknownContentType  = NewCustomError(ErrResourceNotFound, "unknown content type")
	ErrNotEnrolled         = NewCustomError(ErrResourceNotFound, "course not found among enrollments")
	ErrSlugAlreadyExists   = NewCustomError(ErrResourceAlreadyExists, "a course with this slug already exists")
	ErrVideoSearchDisabled = NewCustomError(ErrServiceUnavailable, "video search is not configured")
)

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewValidationError carries per-field messages keyed by field name
func NewValidationError(fields map[string]string) *CustomError {
	details := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		details[k] = v
	}
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: "validation failed",
		Details: details,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
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

// FieldErrors extracts validation details from err, if any
func FieldErrors(err error) map[string]interface{} {
	var ce *CustomError
	if errors.As(err, &ce) && errors.Is(ce, ErrValidationFailed) {
		return ce.Details
	}
	return nil
}
