package content_test

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/LightClaw/Engine/content"
)

// fallbackAsset opts into loading through a default reader instead of
// explicit registration.
type fallbackAsset struct {
	raw string
}

type fallbackReader struct{}

func (*fallbackReader) CanRead(t reflect.Type, parameter any) bool {
	return t == content.TypeOf[*fallbackAsset]()
}

func (*fallbackReader) Read(ctx context.Context, req content.ReadRequest) (any, error) {
	data, err := io.ReadAll(req.Stream)
	if err != nil {
		return nil, err
	}
	return &fallbackAsset{raw: string(data)}, nil
}

func init() {
	content.RegisterDefaultReader[*fallbackAsset](func() content.Reader {
		return &fallbackReader{}
	})
}

func TestDefaultReaderFallback(t *testing.T) {
	resolver := &stubResolver{data: map[string][]byte{"a.txt": []byte("aaa")}}
	manager := newTestManager(t, content.Config{})
	manager.RegisterResolver(resolver)

	asset, err := content.Load[*fallbackAsset](context.Background(), manager, "a.txt", nil)
	if err != nil {
		t.Fatal(err)
	}
	if asset.raw != "aaa" {
		t.Errorf("unexpected contents: %q", asset.raw)
	}

	// The instantiated default is kept; a second load must not fail
	// even for another manager-independent path.
	if _, err := content.Load[*fallbackAsset](context.Background(), manager, "a.txt", nil); err != nil {
		t.Fatal(err)
	}
}

// pickyAsset's default reader denies capability after instantiation.
type pickyAsset struct{}

type pickyReader struct{}

func (*pickyReader) CanRead(reflect.Type, any) bool { return false }

func (*pickyReader) Read(context.Context, content.ReadRequest) (any, error) {
	return &pickyAsset{}, nil
}

func init() {
	content.RegisterDefaultReader[*pickyAsset](func() content.Reader {
		return &pickyReader{}
	})
}

func TestDefaultReaderRejectedWhenIncapable(t *testing.T) {
	resolver := &stubResolver{data: map[string][]byte{"a.txt": []byte("aaa")}}
	manager := newTestManager(t, content.Config{})
	manager.RegisterResolver(resolver)

	_, err := content.Load[*pickyAsset](context.Background(), manager, "a.txt", nil)
	if !errors.Is(err, content.ErrNoReader) {
		t.Fatalf("expected ErrNoReader, got %v", err)
	}
}

func TestRegisteredReaderWinsOverDefault(t *testing.T) {
	resolver := &stubResolver{data: map[string][]byte{"a.txt": []byte("aaa")}}
	manager := newTestManager(t, content.Config{})
	manager.RegisterResolver(resolver)
	manager.RegisterReader(&fallbackReader{})

	if _, err := content.Load[*fallbackAsset](context.Background(), manager, "a.txt", nil); err != nil {
		t.Fatal(err)
	}
}
