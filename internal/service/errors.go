package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("you do not have permission to perform this action")
	ErrNotAuthenticated   = errors.New("authentication credentials were not provided")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("unable to log in with provided credentials")
)

// ForbiddenError is a permission denial with a caller-facing explanation.
// errors.Is(err, ErrForbidden) holds for it.
type ForbiddenError struct {
	Detail string
}

func (e *ForbiddenError) Error() string { return e.Detail }

func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }

func forbidden(detail string) error { return &ForbiddenError{Detail: detail} }

// BadRequestError is a malformed request that is reported as a single detail
// message rather than per field.
type BadRequestError struct {
	Detail string
}

func (e *BadRequestError) Error() string { return e.Detail }

func badRequest(detail string) error { return &BadRequestError{Detail: detail} }

// NonFieldErrors is the key for problems not tied to a single input field.
const NonFieldErrors = "non_field_errors"

// ValidationError collects per-field messages for a rejected payload.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("validation failed:")
	for _, k := range keys {
		b.WriteString(" ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Fields[k], "; "))
	}
	return b.String()
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// Err returns e when it holds at least one message, nil otherwise.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Invalid builds a single-field ValidationError.
func Invalid(field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}
