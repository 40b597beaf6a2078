// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package pak implements an lz4 backed archive format for engine
// content. The archive itself is not compressed; every entry is
// compressed individually and the full index is known up front, so an
// entry can be located and decompressed straight from its place in the
// file. That trades some space for getting resources from disk to a
// usable state as fast as possible. Archives can be read from
// concurrently.
package pak

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
)

// package errors
var (
	ErrFileFormat = errors.New("pak: corrupted or not a pak archive")
	ErrNotExist   = errors.New("pak: no entry with that name")
	ErrTempFail   = errors.New("pak: temporary folder or file operation failed")
)

// Layout of the file head: magic, then the encoded header length,
// then the gob-encoded Header. Entry offsets are relative to the end
// of the header so the header can be encoded before they are known.
const (
	magic            = "PAK\x00"
	magicLength      = 4
	headerSizeLength = 8
)

// IndexEntry is info for one entry in the archive index.
type IndexEntry struct {
	Name           string
	Offset         int64
	Size           int64
	CompressedSize int64
}

// Header is the archive header. Archives are versioned and cannot be
// appended to.
type Header struct {
	Author    string
	CreatedAt int64
	Version   int64
	Index     []IndexEntry
}

func encodeHeader(h Header) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(h); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeHeader(h *Header, bts []byte) error {
	return gob.NewDecoder(bytes.NewReader(bts)).Decode(h)
}

func putUint64(num uint64) []byte {
	bts := make([]byte, headerSizeLength)
	binary.LittleEndian.PutUint64(bts, num)
	return bts
}
