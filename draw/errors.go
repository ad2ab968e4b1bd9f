// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package draw

import (
	"errors"
	"net/http"
)

// Code is a stable, machine-readable reason for a denied or failed draw.
type Code string

const (
	CodeNotFound                 Code = "NOT_FOUND"
	CodeForbidden                Code = "FORBIDDEN"
	CodeAlreadyDrawn             Code = "ALREADY_DRAWN"
	CodeParticipantsChanged      Code = "PARTICIPANTS_CHANGED"
	CodeInsufficientParticipants Code = "INSUFFICIENT_PARTICIPANTS"
	CodeDrawFailed               Code = "DRAW_FAILED"
	CodeInternal                 Code = "INTERNAL_LOGIC_ERROR"
)

// HTTPStatus maps a code to the response status the API returns for it.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	case CodeAlreadyDrawn, CodeParticipantsChanged:
		return http.StatusConflict
	case CodeInsufficientParticipants:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Error is the typed denial/failure returned by the guard, the orchestrator
// and the reveal gate.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinels usable with errors.Is.
var (
	ErrNotFound                 = &Error{Code: CodeNotFound, Message: "event not found"}
	ErrForbidden                = &Error{Code: CodeForbidden, Message: "only organizer may draw"}
	ErrAlreadyDrawn             = &Error{Code: CodeAlreadyDrawn, Message: "already drawn"}
	ErrParticipantsChanged      = &Error{Code: CodeParticipantsChanged, Message: "participants changed during draw"}
	ErrInsufficientParticipants = &Error{Code: CodeInsufficientParticipants, Message: "insufficient participants"}
	ErrDrawFailed               = &Error{Code: CodeDrawFailed, Message: "draw failed"}
	ErrInternal                 = &Error{Code: CodeInternal, Message: "internal logic error"}
)

func newError(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf returns the code carried by err, or CodeDrawFailed for foreign errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeDrawFailed
}
