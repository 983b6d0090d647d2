package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Profile errors
var (
	ErrProfileNotFound      = errors.New("user profile not found")
	ErrProfileAlreadyExists = errors.New("profile already exists")
)

// Loan errors
var (
	ErrApplicationNotFound     = errors.New("loan application not found")
	ErrActiveApplicationExists = errors.New("an active loan application already exists")
	ErrInvalidStatusTransition = errors.New("invalid loan status transition")
	ErrUploadIncomplete        = errors.New("one or more documents failed to upload")
)

// Kind classifies failures so the transport can choose a status code.
type Kind string

const (
	KindAuthorization Kind = "authorization"
	KindValidation    Kind = "validation"
	KindUpload        Kind = "upload"
	KindPersistence   Kind = "persistence"
	KindConflict      Kind = "conflict"
	KindNotFound      Kind = "not_found"
	KindInternal      Kind = "internal"
)

// Error is a classified failure tagged with the operation that produced it.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString("[")
		b.WriteString(e.Op)
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Timeout reports whether the cause was a deadline.
func (e *Error) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

func newError(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

func AuthorizationError(op string, err error) *Error {
	return newError(KindAuthorization, op, "User profile not found", err)
}

func UploadError(op, slot string, err error) *Error {
	return newError(KindUpload, op, fmt.Sprintf("upload failed for %s", slot), err)
}

func PersistenceError(op string, err error) *Error {
	return newError(KindPersistence, op, "database write failed", err)
}

func ConflictError(op string, err error) *Error {
	return newError(KindConflict, op, "", err)
}

func NotFoundError(op string, err error) *Error {
	return newError(KindNotFound, op, "", err)
}

func InternalError(op string, err error) *Error {
	return newError(KindInternal, op, "Internal Server Error", err)
}

// ValidationError wraps field errors so errors.As can recover them.
func ValidationError(op string, fields FieldErrors) *Error {
	return newError(KindValidation, op, "validation failed", fields)
}

// KindOf returns the kind of the outermost classified error, KindInternal
// for anything unclassified.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// OpOf returns the operation tag of a classified error.
func OpOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Op
	}
	return ""
}

// FieldError is one failed field, addressed by its dotted path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors is an ordered set of field failures.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, f := range fe {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return strings.Join(parts, "; ")
}

// Add appends a failure unless the field already carries one.
func (fe FieldErrors) Add(field, message string) FieldErrors {
	if fe.Has(field) {
		return fe
	}
	return append(fe, FieldError{Field: field, Message: message})
}

func (fe FieldErrors) Has(field string) bool {
	for _, f := range fe {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Get returns the message for field, or "".
func (fe FieldErrors) Get(field string) string {
	for _, f := range fe {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// Map renders the set as field -> message for JSON clients.
func (fe FieldErrors) Map() map[string]string {
	out := make(map[string]string, len(fe))
	for _, f := range fe {
		out[f.Field] = f.Message
	}
	return out
}
