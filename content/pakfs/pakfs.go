// Package pakfs resolves content paths against mounted pak archives.
// The backend is read only; writable requests are declined.
package pakfs

import (
	"context"
	"io"

	"golang.org/x/exp/mmap"

	"github.com/LightClaw/Engine/content"
	"github.com/LightClaw/Engine/utility/pak"
)

// Resolver serves content out of one or more pak archives, consulted
// in mount order.
type Resolver struct {
	archives []*pak.Archive
	closers  []io.Closer
}

// New creates a resolver over already opened archives.
func New(archives ...*pak.Archive) *Resolver {
	return &Resolver{archives: archives}
}

// OpenFiles memory-maps the given pak files and mounts them in order.
// The resolver owns the mappings; they are released by Close, which
// the content manager calls on teardown.
func OpenFiles(paths ...string) (*Resolver, error) {
	r := &Resolver{}
	for _, path := range paths {
		f, err := mmap.Open(path)
		if err != nil {
			r.Close()
			return nil, err
		}
		archive, err := pak.Open(f)
		if err != nil {
			f.Close()
			r.Close()
			return nil, err
		}
		r.archives = append(r.archives, archive)
		r.closers = append(r.closers, f)
	}
	return r, nil
}

// Exists implements content.Resolver.
func (r *Resolver) Exists(ctx context.Context, path string) (bool, error) {
	for _, a := range r.archives {
		if a.Has(path) {
			return true, nil
		}
	}
	return false, nil
}

// Open implements content.Resolver.
func (r *Resolver) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	for _, a := range r.archives {
		if a.Has(path) {
			return a.Open(path)
		}
	}
	return nil, content.ErrNoMatch
}

// Create implements content.Resolver. Archives cannot be written to.
func (r *Resolver) Create(ctx context.Context, path string) (io.WriteCloser, error) {
	return nil, content.ErrNoMatch
}

// Close releases the mounted archive files.
func (r *Resolver) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	r.closers = nil
	return first
}
