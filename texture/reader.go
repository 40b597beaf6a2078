package texture

import (
	"context"
	"image"
	"reflect"

	"github.com/LightClaw/Engine/content"
)

func init() {
	content.RegisterDefaultReader[*Texture](func() content.Reader {
		return &ImageReader{}
	})
}

// ImageReader decodes image streams into textures. It is the default
// reader for *Texture. The optional load parameter is the row pitch
// proposed by the renderer.
type ImageReader struct{}

// CanRead implements content.Reader.
func (*ImageReader) CanRead(t reflect.Type, parameter any) bool {
	if t != content.TypeOf[*Texture]() {
		return false
	}
	_, ok := parameter.(int)
	return parameter == nil || ok
}

// Read implements content.Reader.
func (*ImageReader) Read(ctx context.Context, req content.ReadRequest) (any, error) {
	img, _, err := image.Decode(req.Stream)
	if err != nil {
		return nil, err
	}
	rowPitch, _ := req.Parameter.(int)
	return FromImage(img, rowPitch), nil
}
