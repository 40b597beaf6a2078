package model

import (
	"context"
	"io"
	"reflect"

	"github.com/LightClaw/Engine/content"
)

func init() {
	content.RegisterDefaultReader[*Mesh](func() content.Reader {
		return &ColladaReader{}
	})
}

// ColladaReader deserializes collada documents into meshes. It is the
// default reader for *Mesh.
type ColladaReader struct{}

// CanRead implements content.Reader.
func (*ColladaReader) CanRead(t reflect.Type, parameter any) bool {
	return t == content.TypeOf[*Mesh]()
}

// Read implements content.Reader.
func (*ColladaReader) Read(ctx context.Context, req content.ReadRequest) (any, error) {
	data, err := io.ReadAll(req.Stream)
	if err != nil {
		return nil, err
	}
	mesh, err := ImportCollada(data)
	if err != nil {
		return nil, err
	}
	if mesh.Name == "" {
		mesh.Name = req.Path
	}
	return mesh, nil
}
