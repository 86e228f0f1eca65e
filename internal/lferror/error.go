package lferror

import (
	"net/http"

	"github.com/pkg/errors"
)

// Tags carried by the errors of the registry taxonomy.
const (
	TagNotFound           = "not-found"
	TagAlreadyExists      = "already-exists"
	TagRenderFailure      = "render-failure"
	TagStorageFailure     = "storage-failure"
	TagRegistrationFailed = "registration-failed"
	TagValidation         = "validation"
)

type (
	// An LFError represents the error format that can be rendered by the foundtag server.
	LFError struct {
		HTTPCode   int `json:"-"`
		FieldError err `json:"error"`
	}

	err struct {
		Tag     string `json:"tag,omitempty"`
		Message string `json:"message"`
	}
)

// StatusCode returns the HTTP status code.
func StatusCode(err error) int {
	if lferr, ok := errors.Cause(err).(*LFError); ok {
		return lferr.HTTPCode
	}
	return http.StatusInternalServerError
}

// New returns a new LFError with the given message.
func New(message string) *LFError {
	return &LFError{FieldError: err{Message: message}}
}

// NewWithTagCode returns a new LFError with the given code, tag and message.
func NewWithTagCode(code int, tag, message string) *LFError {
	return &LFError{HTTPCode: code, FieldError: err{Tag: tag, Message: message}}
}

// NotFound returns a new LFError for a missing record.
func NotFound(message string) *LFError {
	return NewWithTagCode(http.StatusNotFound, TagNotFound, message)
}

// AlreadyExists returns a new LFError for an identifier collision.
func AlreadyExists(message string) *LFError {
	return NewWithTagCode(http.StatusConflict, TagAlreadyExists, message)
}

// RenderFailure returns a new LFError for a code image that could not be produced.
func RenderFailure(message string) *LFError {
	return NewWithTagCode(http.StatusInternalServerError, TagRenderFailure, message)
}

// StorageFailure returns a new LFError for a failing persistence read/write.
func StorageFailure(message string) *LFError {
	return NewWithTagCode(http.StatusInternalServerError, TagStorageFailure, message)
}

// RegistrationFailed returns a new LFError for a registration that exhausted its retries.
func RegistrationFailed(message string) *LFError {
	return NewWithTagCode(http.StatusInternalServerError, TagRegistrationFailed, message)
}

// Validation returns a new LFError for rejected input.
func Validation(message string) *LFError {
	return NewWithTagCode(http.StatusBadRequest, TagValidation, message)
}

// Is returns true if err is an LFError carrying the given tag.
func Is(err error, tag string) bool {
	lferr, ok := errors.Cause(err).(*LFError)
	return ok && lferr.FieldError.Tag == tag
}

// IsNotFound returns true if err is a not found error.
func IsNotFound(err error) bool {
	return Is(err, TagNotFound)
}

// IsRenderFailure returns true if err is a code rendering error.
func IsRenderFailure(err error) bool {
	return Is(err, TagRenderFailure)
}

// Error implements error interface.
func (e *LFError) Error() string {
	return e.FieldError.Message
}
