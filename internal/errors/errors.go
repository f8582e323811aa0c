package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrUserAlreadyExists is returned when signing up with an email that is already verified.
	ErrUserAlreadyExists = errors.New("User with this email already exists")
	// ErrInvalidCode is returned when a verification code does not match.
	ErrInvalidCode = errors.New("Invalid verification code")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("Invalid email or password")
	// ErrUserNotVerified is returned when logging in before email verification.
	ErrUserNotVerified = errors.New("User not verified")
	// ErrUserNotFound is returned when the session user no longer exists.
	ErrUserNotFound = errors.New("User not found")
	// ErrNotAuthenticated is returned when an operation requires a session.
	ErrNotAuthenticated = errors.New("User not logged in")
	// ErrInvalidPage is returned for page < 1 or pageSize <= 0.
	ErrInvalidPage = errors.New("Invalid pagination parameters")
	// ErrTooManyAttempts is returned when verification is temporarily locked.
	ErrTooManyAttempts = errors.New("Too many verification attempts, try again later")
	// ErrMailDelivery is returned when the verification email could not be sent.
	ErrMailDelivery = errors.New("Failed to send email")
)

// InvalidCategoriesError names every category id that does not exist.
type InvalidCategoriesError struct {
	IDs []string
}

func (e *InvalidCategoriesError) Error() string {
	return "Invalid category IDs: " + strings.Join(e.IDs, ", ")
}

// ValidationError carries field-level detail for malformed input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "Invalid input data"
}

// NewValidationError converts validator output into a ValidationError.
// Errors that are not validator.ValidationErrors are reported under "_".
func NewValidationError(err error) *ValidationError {
	fields := make(map[string]string)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[lowerFirst(fe.Field())] = describe(fe)
		}
	} else if err != nil {
		fields["_"] = err.Error()
	}
	return &ValidationError{Fields: fields}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "numeric":
		return "must contain only digits"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// Response is the normalized {success, message} body returned by every endpoint.
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     map[string]string
	// Internal is true for infrastructure failures whose detail must stay in server logs.
	Internal bool
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToResponse converts an HTTPError to the response body.
func (e *HTTPError) ToResponse() Response {
	return Response{
		Success: false,
		Message: e.Message,
		Code:    e.Code,
		Errors:  e.Fields,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var verr *ValidationError
	if errors.As(err, &verr) {
		httpErr := NewHTTPError(http.StatusBadRequest, verr.Error(), "VALIDATION_ERROR")
		httpErr.Fields = verr.Fields
		return httpErr
	}

	var catErr *InvalidCategoriesError
	if errors.As(err, &catErr) {
		return NewHTTPError(http.StatusBadRequest, catErr.Error(), "INVALID_CATEGORY")
	}

	switch {
	case errors.Is(err, ErrUserAlreadyExists):
		return NewHTTPError(http.StatusConflict, ErrUserAlreadyExists.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrInvalidCode):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidCode.Error(), "INVALID_CODE")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUserNotVerified):
		return NewHTTPError(http.StatusForbidden, ErrUserNotVerified.Error(), "USER_NOT_VERIFIED")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrNotAuthenticated):
		return NewHTTPError(http.StatusUnauthorized, ErrNotAuthenticated.Error(), "NOT_AUTHENTICATED")
	case errors.Is(err, ErrInvalidPage):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidPage.Error(), "INVALID_PAGE")
	case errors.Is(err, ErrTooManyAttempts):
		return NewHTTPError(http.StatusTooManyRequests, ErrTooManyAttempts.Error(), "TOO_MANY_ATTEMPTS")
	case errors.Is(err, ErrMailDelivery):
		httpErr := NewHTTPError(http.StatusBadGateway, ErrMailDelivery.Error(), "MAIL_DELIVERY_FAILED")
		httpErr.Internal = true
		return httpErr
	default:
		httpErr := NewHTTPError(http.StatusInternalServerError, "An error occurred", "INTERNAL_ERROR")
		httpErr.Internal = true
		return httpErr
	}
}
