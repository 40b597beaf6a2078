// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package pak_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/exp/mmap"

	"github.com/LightClaw/Engine/utility/pak"
)

var (
	testString1 = "idunvovkjnreovmegihjbrqlkmfrjnb"
	testString2 = "idunvovkjnreovmsdvwrvnervnreegihjbrqlkmfrjnb"
)

func buildArchive(t *testing.T) []byte {
	t.Helper()
	builder, err := pak.NewBuilder(pak.Header{
		Author:    "tester",
		CreatedAt: time.Now().Unix(),
		Version:   1,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer builder.Close()

	if err := builder.Add("test/test1.txt", strings.NewReader(testString1)); err != nil {
		t.Fatal(err)
	}
	if err := builder.Add("test/test2.txt", strings.NewReader(testString2)); err != nil {
		t.Fatal(err)
	}

	buf := bytes.NewBuffer([]byte{})
	if written, err := builder.WriteTo(buf); err != nil {
		t.Fatal(err)
	} else if written != int64(buf.Len()) {
		t.Errorf("reported %d written, buffer holds %d", written, buf.Len())
	}
	return buf.Bytes()
}

func TestCreateAndReadAll(t *testing.T) {
	ar, err := pak.Open(bytes.NewReader(buildArchive(t)))
	if err != nil {
		t.Fatal(err)
	}

	data, err := ar.ReadAll("test/test1.txt")
	if err != nil {
		t.Error(err)
	}
	if string(data) != testString1 {
		t.Error("test string does not match up")
	}

	// Second read comes out of the decompressed cache.
	data, err = ar.ReadAll("test/test1.txt")
	if err != nil {
		t.Error(err)
	}
	if string(data) != testString1 {
		t.Error("cached read does not match up")
	}
}

func TestCreateAndOpen(t *testing.T) {
	ar, err := pak.Open(bytes.NewReader(buildArchive(t)))
	if err != nil {
		t.Fatal(err)
	}

	f, err := ar.Open("test/test2.txt")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	result := make([]byte, len(testString2))
	if _, err := f.Read(result); err != nil {
		t.Error(err)
	}
	if string(result) != testString2 {
		t.Error("test string does not match up")
	}
}

func TestOpenmmap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pak")
	if err := os.WriteFile(path, buildArchive(t), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := mmap.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	ar, err := pak.Open(r)
	if err != nil {
		t.Fatal(err)
	}

	data, err := ar.ReadAll("test/test1.txt")
	if err != nil {
		t.Error(err)
	}
	if string(data) != testString1 {
		t.Error("test string does not match up")
	}
}

func TestConcurrentReads(t *testing.T) {
	ar, err := pak.Open(bytes.NewReader(buildArchive(t)))
	if err != nil {
		t.Fatal(err)
	}

	var group sync.WaitGroup
	for i := 0; i < 16; i++ {
		group.Add(1)
		go func(i int) {
			defer group.Done()
			name, want := "test/test1.txt", testString1
			if i%2 == 1 {
				name, want = "test/test2.txt", testString2
			}
			data, err := ar.ReadAll(name)
			if err != nil {
				t.Error(err)
				return
			}
			if string(data) != want {
				t.Errorf("%s does not match up", name)
			}
		}(i)
	}
	group.Wait()
}

func TestConcurrentAdds(t *testing.T) {
	builder, err := pak.NewBuilder(pak.Header{Version: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer builder.Close()

	const count = 32
	var group sync.WaitGroup
	for i := 0; i < count; i++ {
		group.Add(1)
		go func(i int) {
			defer group.Done()
			name := fmt.Sprintf("test/entry%d.txt", i)
			if err := builder.Add(name, strings.NewReader(strings.Repeat(name, 8))); err != nil {
				t.Error(err)
			}
		}(i)
	}
	group.Wait()

	buf := bytes.NewBuffer([]byte{})
	if _, err := builder.WriteTo(buf); err != nil {
		t.Fatal(err)
	}

	ar, err := pak.Open(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("test/entry%d.txt", i)
		data, err := ar.ReadAll(name)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if string(data) != strings.Repeat(name, 8) {
			t.Errorf("%s does not match up", name)
		}
	}
}

func TestMissingEntry(t *testing.T) {
	ar, err := pak.Open(bytes.NewReader(buildArchive(t)))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ar.ReadAll("nope"); err != pak.ErrNotExist {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
	if _, err := ar.Open("nope"); err != pak.ErrNotExist {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
	if ar.Has("nope") {
		t.Error("Has reported a missing entry")
	}
}

func TestOpenRejectsGarbage(t *testing.T) {
	if _, err := pak.Open(bytes.NewReader([]byte("TAR\x00aaaaaaaaaaaaaaaaaaa"))); err != pak.ErrFileFormat {
		t.Errorf("expected ErrFileFormat, got %v", err)
	}
}

func TestIndex(t *testing.T) {
	ar, err := pak.Open(bytes.NewReader(buildArchive(t)))
	if err != nil {
		t.Fatal(err)
	}

	index := ar.Index()
	if len(index) != 2 {
		t.Fatalf("index holds %d entries", len(index))
	}
	if index[0].Name != "test/test1.txt" || index[1].Name != "test/test2.txt" {
		t.Error("index order does not match insertion order")
	}
	if index[0].Size != int64(len(testString1)) {
		t.Errorf("entry size %d, want %d", index[0].Size, len(testString1))
	}
}
