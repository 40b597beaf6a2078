package content

import (
	"fmt"
	"reflect"
)

// Key identifies a cached asset: a logical path plus the requested
// in-memory type. The same path loaded as two different types yields
// two distinct cache entries. Keys are comparable values, equal iff
// both fields are equal.
type Key struct {
	Path string
	Type reflect.Type
}

// NewKey validates and builds a Key.
func NewKey(path string, t reflect.Type) (Key, error) {
	if path == "" {
		return Key{}, ErrEmptyPath
	}
	if t == nil {
		return Key{}, ErrNilType
	}
	return Key{Path: path, Type: t}, nil
}

func (k Key) String() string {
	return fmt.Sprintf("%s as %s", k.Path, k.Type)
}
