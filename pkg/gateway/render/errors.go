package render

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindEngineUnavailable ErrorKind = "ENGINE_UNAVAILABLE"
	KindLayoutFailed      ErrorKind = "LAYOUT_FAILED"
)

var (
	ErrEngineUnavailable = errors.New("render engine unavailable")
	ErrLayoutFailed      = errors.New("layout failed")
)

type RenderError struct {
	Kind ErrorKind
	Err  error
}

func (e *RenderError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("render: %s", e.sentinel())
	}
	return fmt.Sprintf("render: %s: %v", e.sentinel(), e.Err)
}

func (e *RenderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *RenderError) Is(target error) bool {
	if e == nil {
		return false
	}
	return target == e.sentinel()
}

func (e *RenderError) sentinel() error {
	if e.Kind == KindEngineUnavailable {
		return ErrEngineUnavailable
	}
	return ErrLayoutFailed
}
