// Package content implements the engine's asset pipeline: it turns logical
// resource paths into deserialized in-memory assets. Physical storage is
// abstracted behind resolvers, deserialization behind readers, and the
// Manager coordinates both with per-path serialization and a bounded
// lookaside cache so that concurrent loads of the same resource do the
// work only once.
package content

import (
	"context"
	"io"
	"reflect"
)

// Resolver turns a logical path into a byte stream from some backing
// store. Implementations must be safe for concurrent use; the Manager
// probes all registered resolvers at once.
type Resolver interface {
	// Exists reports whether the resolver can serve path.
	Exists(ctx context.Context, path string) (bool, error)

	// Open produces a readable stream for path. A resolver that does
	// not serve the path returns ErrNoMatch, which is not treated as
	// a failure.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Create produces a writable stream for path, creating the target
	// if needed. Read-only backends return ErrNoMatch.
	Create(ctx context.Context, path string) (io.WriteCloser, error)
}

// ReadRequest carries everything a reader needs to deserialize one asset.
type ReadRequest struct {
	// Manager is the orchestrating manager, available for readers that
	// need to load nested assets.
	Manager *Manager

	// Path is the logical path of the resource being read.
	Path string

	// Type is the requested in-memory representation.
	Type reflect.Type

	// Stream holds the resolved bytes. The manager owns the stream and
	// closes it when the reader returns.
	Stream io.Reader

	// Parameter is an optional reader-specific argument passed through
	// from Load unmodified.
	Parameter any
}

// Reader turns a byte stream into a typed in-memory asset.
// Implementations must be safe for concurrent use across different
// resources.
type Reader interface {
	// CanRead reports whether the reader can produce an asset of type t
	// with the given parameter.
	CanRead(t reflect.Type, parameter any) bool

	// Read deserializes one asset from req.Stream. Returning a nil
	// asset without an error is treated as a deserialization failure.
	Read(ctx context.Context, req ReadRequest) (any, error)
}

// TypeOf returns the reflect.Type for T, usable with Key and Load
// without instantiating a value.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
