package content

import (
	"errors"
	"fmt"
	"reflect"
)

// package errors
var (
	// ErrNoMatch is returned by resolvers that do not serve a path. It
	// declines without failing the probe; other resolvers still run.
	ErrNoMatch = errors.New("content: resolver has no match")

	// ErrNoWritableSource signals that no registered resolver could
	// produce a writable stream. If only read access was intended,
	// register a reader and use Load instead.
	ErrNoWritableSource = errors.New("content: no resolver provided a writable stream, register a reader if read access was intended")

	// ErrNoReader signals that a stream was resolved but no registered
	// or default reader can deserialize the requested type.
	ErrNoReader = errors.New("content: no compatible reader")

	// ErrEmptyPath and ErrNilType reject malformed keys.
	ErrEmptyPath = errors.New("content: empty resource path")
	ErrNilType   = errors.New("content: nil target type")

	errNilAsset = errors.New("reader produced no asset")
)

// NotFoundError reports that no resolver produced a stream for a path.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("content: resource %q not found: %v", e.Path, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// DecodeError reports that a reader was invoked for a resolved stream
// and failed, or produced no asset. The reader's own error is kept as
// the cause.
type DecodeError struct {
	Path string
	Type reflect.Type
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("content: decoding %q as %s: %v", e.Path, e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
