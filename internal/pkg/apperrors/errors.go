package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("invalid token")
	ErrInvalidFormat = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Upstream errors
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
)

// Registration errors
var (
	// ErrNotRegistered means the session principal has no exhibitor or
	// organizer row yet. Callers route to registration instead of failing.
	ErrNotRegistered = errors.New("registration required")
)

// Application lifecycle errors
var (
	ErrApplicationNotFound  = errors.New("application not found")
	ErrDuplicateApplication = errors.New("already applied to this event")
	ErrInvalidTransition    = errors.New("application has already been decided")
	ErrInvalidDecision      = errors.New("decision must be approved or rejected")
)

// Event errors
var (
	ErrEventNotFound       = errors.New("event not found")
	ErrApplicationsClosed  = errors.New("applications for this event are closed")
	ErrExhibitorNotFound   = errors.New("exhibitor not found")
	ErrOrganizerNotFound   = errors.New("organizer not found")
	ErrAlreadyRegistered   = errors.New("identity is already registered")
	ErrInvalidDocumentKind = errors.New("unknown document kind")
)

// Notification errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewNotRegisteredError reports that the given role has no domain row for the caller
func NewNotRegisteredError(role string) error {
	return NewCustomError(ErrNotRegistered, "registration required before using this feature").
		WithDetails(map[string]interface{}{
			"registrationRequired": true,
			"role":                 role,
		})
}

// NewUpstreamError wraps a collaborator failure as ErrUpstreamUnavailable
// while keeping the cause reachable through errors.Is/As.
func NewUpstreamError(service string, cause error) error {
	return &CustomError{
		Err:     errors.Join(ErrUpstreamUnavailable, cause),
		Message: service + " is unavailable",
		Details: map[string]interface{}{"service": service},
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
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

// DetailsOf returns the details attached to the first CustomError in the chain
func DetailsOf(err error) map[string]interface{} {
	var custom *CustomError
	if errors.As(err, &custom) {
		return custom.Details
	}
	return nil
}
