// Package filesystem resolves content paths against a directory on
// disk. It is the default writable backend: Create will make the
// target and any missing parent directories.
package filesystem

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/LightClaw/Engine/content"
)

// Resolver serves content from a root directory. Logical paths use
// forward slashes and stay inside the root; anything escaping it is
// declined.
type Resolver struct {
	root string
}

// New creates a resolver rooted at dir.
func New(dir string) *Resolver {
	return &Resolver{root: dir}
}

// Exists implements content.Resolver.
func (r *Resolver) Exists(ctx context.Context, path string) (bool, error) {
	full, ok := r.localPath(path)
	if !ok {
		return false, nil
	}
	info, err := os.Stat(full)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

// Open implements content.Resolver.
func (r *Resolver) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	full, ok := r.localPath(path)
	if !ok {
		return nil, content.ErrNoMatch
	}
	f, err := os.Open(full)
	if os.IsNotExist(err) {
		return nil, content.ErrNoMatch
	}
	return f, err
}

// Create implements content.Resolver.
func (r *Resolver) Create(ctx context.Context, path string) (io.WriteCloser, error) {
	full, ok := r.localPath(path)
	if !ok {
		return nil, content.ErrNoMatch
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, err
	}
	return os.Create(full)
}

// localPath maps a logical path onto the root directory, declining
// absolute paths and parent escapes.
func (r *Resolver) localPath(path string) (string, bool) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.Join(r.root, clean), true
}
