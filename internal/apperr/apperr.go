package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Error carries an HTTP status alongside the user-facing message. Handlers
// return these and a single responder serializes them into the envelope.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(status int, format string, args ...interface{}) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, format, args...)
}

func NotAuthenticated() *Error {
	return New(http.StatusUnauthorized, "Not authenticated")
}

func NotAuthorized() *Error {
	return New(http.StatusForbidden, "Not authorized to access this resource")
}

func NotFound(format string, args ...interface{}) *Error {
	return New(http.StatusNotFound, format, args...)
}

func DuplicateOwnedResource(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, format, args...)
}

func QueryError(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, format, args...)
}

func Upstream(format string, args ...interface{}) *Error {
	return New(http.StatusBadGateway, format, args...)
}

func Store(err error) *Error {
	return New(http.StatusInternalServerError, "Server error")
}

// FromStore translates mongo-driver errors into the taxonomy. Anything not
// recognized defaults to a 500.
func FromStore(err error, resource string) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return NotFound("%s not found", resource)
	}
	if mongo.IsDuplicateKeyError(err) {
		return BadRequest("Duplicate field value entered")
	}
	if errors.Is(err, primitive.ErrInvalidHex) {
		return NotFound("%s not found", resource)
	}
	return Store(err)
}
