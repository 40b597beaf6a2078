// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package pak

import (
	"bytes"
	"encoding/binary"
	"io"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pierrec/lz4"
)

// decompressedCacheSize bounds the per-archive cache of decompressed
// entries. Streaming scenes touch the same small set of entries over
// and over, so a small cache goes a long way.
const decompressedCacheSize = 32

// Open opens the pak archive backed by r. It checks that r actually is
// a pak archive and reads the full index; entries can be read in any
// order afterwards, concurrently.
func Open(r io.ReaderAt) (*Archive, error) {
	head := make([]byte, magicLength)
	if num, err := r.ReadAt(head, 0); err != nil && err != io.EOF {
		return nil, err
	} else if num < magicLength || string(head) != magic {
		return nil, ErrFileFormat
	}

	sizeBytes := make([]byte, headerSizeLength)
	if num, err := r.ReadAt(sizeBytes, magicLength); err != nil && err != io.EOF {
		return nil, err
	} else if num < headerSizeLength {
		return nil, ErrFileFormat
	}
	headerSize := binary.LittleEndian.Uint64(sizeBytes)

	headerBytes := make([]byte, headerSize)
	if num, err := r.ReadAt(headerBytes, magicLength+headerSizeLength); err != nil && err != io.EOF {
		return nil, err
	} else if uint64(num) < headerSize {
		return nil, ErrFileFormat
	}

	var header Header
	if err := decodeHeader(&header, headerBytes); err != nil {
		return nil, ErrFileFormat
	}

	entries := make(map[string]IndexEntry, len(header.Index))
	for _, e := range header.Index {
		entries[e.Name] = e
	}

	cache, err := lru.New[string, []byte](decompressedCacheSize)
	if err != nil {
		return nil, err
	}

	return &Archive{
		reader:   r,
		header:   header,
		entries:  entries,
		dataBase: int64(magicLength + headerSizeLength + headerSize),
		cache:    cache,
	}, nil
}

// Archive provides concurrent reads from a pak file. Each entry gets
// its own reader, decompressed on the fly; recently decompressed
// entries are served from memory.
type Archive struct {
	reader   io.ReaderAt
	header   Header
	entries  map[string]IndexEntry
	dataBase int64
	cache    *lru.Cache[string, []byte]
}

// Index returns the archive index in file order.
func (a *Archive) Index() []IndexEntry {
	return a.header.Index
}

// Has reports whether the archive holds an entry with the given name.
func (a *Archive) Has(name string) bool {
	_, ok := a.entries[name]
	return ok
}

// ReadAll returns the entire decompressed contents of the named entry.
func (a *Archive) ReadAll(name string) ([]byte, error) {
	if data, ok := a.cache.Get(name); ok {
		return bytes.Clone(data), nil
	}

	entry, ok := a.entries[name]
	if !ok {
		return nil, ErrNotExist
	}

	data := make([]byte, 0, entry.Size)
	buf := bytes.NewBuffer(data)
	if _, err := io.Copy(buf, a.entryReader(entry)); err != nil {
		return nil, err
	}
	a.cache.Add(name, bytes.Clone(buf.Bytes()))
	return buf.Bytes(), nil
}

// Open returns a Reader for the named entry.
func (a *Archive) Open(name string) (*Reader, error) {
	if data, ok := a.cache.Get(name); ok {
		return &Reader{inner: bytes.NewReader(data)}, nil
	}

	entry, ok := a.entries[name]
	if !ok {
		return nil, ErrNotExist
	}
	return &Reader{inner: a.entryReader(entry)}, nil
}

func (a *Archive) entryReader(entry IndexEntry) io.Reader {
	section := io.NewSectionReader(a.reader, a.dataBase+entry.Offset, entry.CompressedSize)
	return lz4.NewReader(section)
}

// Reader streams the decompressed contents of a single archive entry.
type Reader struct {
	inner io.Reader
}

// Read reads already decompressed data.
func (r *Reader) Read(p []byte) (int, error) {
	return r.inner.Read(p)
}

// Close implements io.Closer. Entry readers hold no resources of
// their own.
func (r *Reader) Close() error {
	return nil
}
