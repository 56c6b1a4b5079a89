// Package apperr defines the service error taxonomy. Every error carries a
// stable machine-readable code (used by clients for localization) and the
// HTTP status of its category.
package apperr

import (
	"errors"
	"net/http"
)

type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *Error) Error() string {
	return e.Message
}

func Validation(code, message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: code, Message: message}
}

func Auth(code, message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: code, Message: message}
}

func Forbidden(code, message string) *Error {
	return &Error{Status: http.StatusForbidden, Code: code, Message: message}
}

func NotFound(code, message string) *Error {
	return &Error{Status: http.StatusNotFound, Code: code, Message: message}
}

func Conflict(code, message string) *Error {
	return &Error{Status: http.StatusConflict, Code: code, Message: message}
}

// RoundState marks an action forbidden in the round's current lifecycle
// phase (join after deadline, write into a closed round, ...). Same HTTP
// category as Conflict but kept distinct so clients never auto-retry it.
func RoundState(code, message string) *Error {
	return &Error{Status: http.StatusConflict, Code: code, Message: message}
}

// From extracts an *Error, defaulting anything unrecognized to an internal
// error so raw database errors never leak to clients.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Status: http.StatusInternalServerError, Code: "internal", Message: "internal error"}
}
