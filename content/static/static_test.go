package static_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/gobuffalo/packr"

	"github.com/LightClaw/Engine/content"
	"github.com/LightClaw/Engine/content/static"
)

var testBox = packr.NewBox("./testdata")

func TestResolveEmbedded(t *testing.T) {
	resolver := static.New(testBox)
	ctx := context.Background()

	if ok, err := resolver.Exists(ctx, "placeholder.txt"); err != nil || !ok {
		t.Errorf("expected hit, got ok=%v err=%v", ok, err)
	}

	stream, err := resolver.Open(ctx, "placeholder.txt")
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Close()
	data, err := io.ReadAll(stream)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "built-in placeholder asset" {
		t.Errorf("unexpected contents: %q", data)
	}
}

func TestDeclines(t *testing.T) {
	resolver := static.New(testBox)
	ctx := context.Background()

	if _, err := resolver.Open(ctx, "missing.txt"); !errors.Is(err, content.ErrNoMatch) {
		t.Errorf("expected ErrNoMatch, got %v", err)
	}
	if _, err := resolver.Create(ctx, "placeholder.txt"); !errors.Is(err, content.ErrNoMatch) {
		t.Errorf("embedded content is read only, got %v", err)
	}
}
