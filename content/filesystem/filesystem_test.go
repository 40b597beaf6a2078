package filesystem_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/LightClaw/Engine/content"
	"github.com/LightClaw/Engine/content/filesystem"
)

func TestOpenAndExists(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "models"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "models", "cube.dae"), []byte("geometry"), 0o644); err != nil {
		t.Fatal(err)
	}

	resolver := filesystem.New(root)
	ctx := context.Background()

	if ok, err := resolver.Exists(ctx, "models/cube.dae"); err != nil || !ok {
		t.Errorf("expected hit, got ok=%v err=%v", ok, err)
	}
	if ok, err := resolver.Exists(ctx, "models/sphere.dae"); err != nil || ok {
		t.Errorf("expected miss, got ok=%v err=%v", ok, err)
	}

	stream, err := resolver.Open(ctx, "models/cube.dae")
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Close()
	data, err := io.ReadAll(stream)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "geometry" {
		t.Errorf("unexpected contents: %q", data)
	}
}

func TestOpenMissingDeclines(t *testing.T) {
	resolver := filesystem.New(t.TempDir())
	if _, err := resolver.Open(context.Background(), "nope.txt"); !errors.Is(err, content.ErrNoMatch) {
		t.Errorf("expected ErrNoMatch, got %v", err)
	}
}

func TestCreateMakesParents(t *testing.T) {
	root := t.TempDir()
	resolver := filesystem.New(root)

	stream, err := resolver.Create(context.Background(), "saves/slot1/world.dat")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := stream.Write([]byte("state")); err != nil {
		t.Error(err)
	}
	if err := stream.Close(); err != nil {
		t.Error(err)
	}

	data, err := os.ReadFile(filepath.Join(root, "saves", "slot1", "world.dat"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "state" {
		t.Errorf("unexpected contents: %q", data)
	}
}

func TestEscapingPathsDeclined(t *testing.T) {
	resolver := filesystem.New(t.TempDir())
	ctx := context.Background()

	for _, path := range []string{"../outside.txt", "/etc/passwd", "a/../../b"} {
		if _, err := resolver.Open(ctx, path); !errors.Is(err, content.ErrNoMatch) {
			t.Errorf("%s: expected ErrNoMatch, got %v", path, err)
		}
		if ok, _ := resolver.Exists(ctx, path); ok {
			t.Errorf("%s: escaping path reported as existing", path)
		}
	}
}
