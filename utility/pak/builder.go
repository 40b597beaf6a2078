// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package pak

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/pierrec/lz4"
)

// NewBuilder creates a new Builder. Do not fill the Index in the
// header, it will be overwritten anyway. Close the Builder when done
// to drop the staging directory.
func NewBuilder(header Header) (*Builder, error) {
	temp, err := os.MkdirTemp("", "pakBuilder")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTempFail, err)
	}
	return &Builder{
		tempDir: temp,
		header:  header,
	}, nil
}

type stagedEntry struct {
	// Name is the entry name inside the archive.
	Name string

	// TempName is the staging file name given by the Builder.
	TempName string

	// Size uncompressed, Compressed as staged on disk.
	Size       int64
	Compressed int64
}

// Builder assembles pak archives. Add stages entries compressed into a
// temporary directory, WriteTo bundles them together with the header
// into a ready to use archive. Add is safe to call from different
// goroutines.
type Builder struct {
	tempDir string
	header  Header

	mutex   sync.Mutex
	staged  int
	entries []stagedEntry
}

// Add appends the contents of r to the builder under the given name.
// Blocks until lz4 finishes compressing.
func (b *Builder) Add(name string, r io.Reader) error {
	b.mutex.Lock()
	b.staged++
	tempName := strconv.Itoa(b.staged)
	b.mutex.Unlock()

	f, err := os.Create(filepath.Join(b.tempDir, tempName))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTempFail, err)
	}
	defer f.Close()

	compressor := lz4.NewWriter(f)
	size, err := io.Copy(compressor, r)
	if err != nil {
		return err
	}
	if err := compressor.Close(); err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTempFail, err)
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.entries = append(b.entries, stagedEntry{
		Name:       name,
		TempName:   tempName,
		Size:       size,
		Compressed: info.Size(),
	})
	return nil
}

// WriteTo bundles everything added so far into a pak archive on w and
// resets the builder.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	header := b.header
	var offset int64
	for _, e := range b.entries {
		header.Index = append(header.Index, IndexEntry{
			Name:           e.Name,
			Offset:         offset,
			Size:           e.Size,
			CompressedSize: e.Compressed,
		})
		offset += e.Compressed
	}

	rawHeader, err := encodeHeader(header)
	if err != nil {
		return 0, err
	}

	var written int64
	for _, chunk := range [][]byte{[]byte(magic), putUint64(uint64(len(rawHeader))), rawHeader} {
		n, err := w.Write(chunk)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}

	for _, e := range b.entries {
		f, err := os.Open(filepath.Join(b.tempDir, e.TempName))
		if err != nil {
			return written, fmt.Errorf("%w: %v", ErrTempFail, err)
		}
		n, err := io.Copy(w, f)
		f.Close()
		written += n
		if err != nil {
			return written, err
		}
	}

	b.entries = b.entries[:0]
	return written, nil
}

// Close removes the staging directory. The builder is unusable
// afterwards.
func (b *Builder) Close() error {
	return os.RemoveAll(b.tempDir)
}
