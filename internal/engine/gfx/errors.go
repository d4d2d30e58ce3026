package gfx

import (
	"errors"
	"fmt"
)

// Kind classifies boundary failures.
type Kind int

const (
	// KindInvalidInput covers malformed data handed to the engine.
	KindInvalidInput Kind = iota
	// KindEngineUnavailable covers missing handles and engine faults.
	KindEngineUnavailable
	// KindDegenerate covers zero-size geometry and zero-length vectors.
	KindDegenerate
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindEngineUnavailable:
		return "engine unavailable"
	case KindDegenerate:
		return "degenerate geometry"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	ErrNoCamera = errors.New("no active camera")
	ErrNoActor  = errors.New("no actor")
	ErrNoMesh   = errors.New("actor has no mesh")
	ErrClosed   = errors.New("engine closed")
)

// Error is a classified engine-boundary failure.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf returns a classified error for op.
func Errorf(kind Kind, op string, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of err, or KindEngineUnavailable when err is not
// classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindEngineUnavailable
}

// Guard runs fn and turns a panic inside it into an *Error. Adapters wrap
// every call that reaches into the engine with it.
func Guard(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Kind: KindEngineUnavailable, Op: op, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return fn()
}
