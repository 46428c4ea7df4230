package gateway

import (
	"errors"
	"fmt"
)

type ValidationKind string

const (
	KindEmptyMessage ValidationKind = "EMPTY_MESSAGE"
	KindEmptyPrompt  ValidationKind = "EMPTY_PROMPT"
	KindEmptyTopic   ValidationKind = "EMPTY_TOPIC"
	KindEmptyAuthor  ValidationKind = "EMPTY_AUTHOR"
)

var (
	ErrEmptyMessage = errors.New("message is required")
	ErrEmptyPrompt  = errors.New("prompt is required")
	ErrEmptyTopic   = errors.New("topic is required")
	ErrEmptyAuthor  = errors.New("author is required")

	// ErrEmptyReply is returned when the backend answered with no usable text.
	ErrEmptyReply = errors.New("backend returned no content")
)

// ValidationError rejects a request before any backend call is made.
type ValidationError struct {
	Kind ValidationKind
}

func newValidationError(kind ValidationKind) *ValidationError {
	return &ValidationError{Kind: kind}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %v", e.sentinel())
}

func (e *ValidationError) Unwrap() error {
	return e.sentinel()
}

func (e *ValidationError) sentinel() error {
	switch e.Kind {
	case KindEmptyMessage:
		return ErrEmptyMessage
	case KindEmptyPrompt:
		return ErrEmptyPrompt
	case KindEmptyTopic:
		return ErrEmptyTopic
	case KindEmptyAuthor:
		return ErrEmptyAuthor
	}
	return fmt.Errorf("invalid request (%s)", e.Kind)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
