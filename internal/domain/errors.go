package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Base kinds. Concrete errors wrap one of these so callers can errors.Is on the kind.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	ErrAccountNotFound        = fmt.Errorf("account %w", ErrNotFound)
	ErrActivationCodeNotFound = fmt.Errorf("activation code %w", ErrNotFound)

	ErrUserNameAlreadyExists = fmt.Errorf("%w: userName already registered", ErrConflict)
	ErrEmailAlreadyExists    = fmt.Errorf("%w: email already registered", ErrConflict)

	// Returned for unknown identifier, inactive account and wrong password alike.
	ErrInvalidCredentials = errors.New("user not found")

	ErrUnauthorized   = errors.New("unauthorized")
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")

	ErrInternalServer = errors.New("internal server error")
)

// Violation is a single failed validation rule.
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError lists the violated rules in evaluation order.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	return e.Violations[0].Message
}

// Fields returns the names of fields that failed, without duplicates.
func (e *ValidationError) Fields() []string {
	seen := make(map[string]struct{}, len(e.Violations))
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		if _, ok := seen[v.Field]; ok {
			continue
		}
		seen[v.Field] = struct{}{}
		fields = append(fields, v.Field)
	}
	return fields
}

// NewValidationError builds a ValidationError with one violation.
func NewValidationError(field, rule, message string) *ValidationError {
	return &ValidationError{Violations: []Violation{{Field: field, Rule: rule, Message: message}}}
}

// DispatchError reports a failed activation notification.
type DispatchError struct {
	Transport string
	Err       error
}

func (e *DispatchError) Error() string {
	var b strings.Builder
	b.WriteString("activation notification via ")
	b.WriteString(e.Transport)
	b.WriteString(" failed")
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DispatchError) Unwrap() error { return e.Err }
