package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrNoteNotFound is returned when a note is not found.
	ErrNoteNotFound = errors.New("note not found")
	// ErrUserExists is returned when creating a user whose username is taken.
	ErrUserExists = errors.New("user already exists")
	// ErrUsernameTaken is returned when updating a user to a username held by another user.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrNoteExists is returned when creating a note whose title is taken.
	ErrNoteExists = errors.New("note already exists")
	// ErrNoteTitleTaken is returned when updating a note to a title held by another note.
	ErrNoteTitleTaken = errors.New("note already with same title exists")
	// ErrUserHasNotes is returned when deleting a user that still owns notes.
	ErrUserHasNotes = errors.New("user has assigned notes")
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserInactive is returned when an inactive user attempts to log in.
	ErrUserInactive = errors.New("user is not active")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
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

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrNoteNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOTE_NOT_FOUND")
	case errors.Is(err, ErrUserExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrUsernameTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "USERNAME_TAKEN")
	case errors.Is(err, ErrNoteExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "NOTE_ALREADY_EXISTS")
	case errors.Is(err, ErrNoteTitleTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "NOTE_TITLE_TAKEN")
	case errors.Is(err, ErrUserHasNotes):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "USER_HAS_NOTES")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUserInactive):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "USER_INACTIVE")
	case errors.Is(err, ErrInvalidRefreshToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_REFRESH_TOKEN")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
