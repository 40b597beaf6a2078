// Package static resolves content paths against a packr box of assets
// bundled into the binary: fallback shaders, editor icons, placeholder
// meshes. The backend is read only.
package static

import (
	"bytes"
	"context"
	"io"

	"github.com/gobuffalo/packr"

	"github.com/LightClaw/Engine/content"
)

// Resolver serves built-in content from an embedded box.
type Resolver struct {
	box packr.Box
}

// New creates a resolver over box.
func New(box packr.Box) *Resolver {
	return &Resolver{box: box}
}

// Exists implements content.Resolver.
func (r *Resolver) Exists(ctx context.Context, path string) (bool, error) {
	return r.box.Has(path), nil
}

// Open implements content.Resolver.
func (r *Resolver) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if !r.box.Has(path) {
		return nil, content.ErrNoMatch
	}
	data, err := r.box.Find(path)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Create implements content.Resolver. Embedded content cannot be
// written to.
func (r *Resolver) Create(ctx context.Context, path string) (io.WriteCloser, error) {
	return nil, content.ErrNoMatch
}
