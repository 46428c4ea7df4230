package backend

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindTimeout         ErrorKind = "TIMEOUT"
	KindUnreachable     ErrorKind = "UNREACHABLE"
	KindBackendRejected ErrorKind = "BACKEND_REJECTED"
)

var (
	ErrTimeout         = errors.New("backend timed out")
	ErrUnreachable     = errors.New("backend unreachable")
	ErrBackendRejected = errors.New("backend rejected request")
)

const rawBodyPreview = 512

// TransportError reports a failed backend call. StatusCode and RawBody are set
// only for KindBackendRejected.
type TransportError struct {
	Kind       ErrorKind
	Operation  Operation
	StatusCode int
	RawBody    []byte
	Err        error
}

func (e *TransportError) Error() string {
	if e == nil {
		return ""
	}

	switch e.Kind {
	case KindBackendRejected:
		return fmt.Sprintf("backend: %s rejected with status %d: %s", e.Operation, e.StatusCode, preview(e.RawBody))
	default:
		if e.Err == nil {
			return fmt.Sprintf("backend: %s %s", e.Operation, e.sentinel())
		}
		return fmt.Sprintf("backend: %s %s: %v", e.Operation, e.sentinel(), e.Err)
	}
}

func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches the sentinel for the error's kind, so errors.Is(err, ErrTimeout) works.
func (e *TransportError) Is(target error) bool {
	if e == nil {
		return false
	}
	return target == e.sentinel()
}

func (e *TransportError) sentinel() error {
	switch e.Kind {
	case KindTimeout:
		return ErrTimeout
	case KindUnreachable:
		return ErrUnreachable
	case KindBackendRejected:
		return ErrBackendRejected
	}
	return nil
}

func preview(body []byte) string {
	if len(body) <= rawBodyPreview {
		return string(body)
	}
	return fmt.Sprintf("%s... (truncated, total: %d bytes)", body[:rawBodyPreview], len(body))
}
