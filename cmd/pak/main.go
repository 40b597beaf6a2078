// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"golang.org/x/exp/mmap"

	"github.com/LightClaw/Engine/utility/pak"
)

func init() {
	currentUserName = "unknown"
	if u, err := user.Current(); err == nil {
		currentUserName = u.Name
	}
}

var (
	currentUserName string
	version         = flag.Int64("version", 1, "Archive version number to create it with")
	extract         = flag.String("e", "", "Extract the given archive")
	compress        = flag.String("c", "", "Compress the given file/folder")
	list            = flag.String("l", "", "List the contents of the given archive")
	dstFile         = flag.String("f", "out.pak", "Destination file")
	dstDir          = flag.String("d", ".", "Destination folder for extraction")
)

func main() {
	var opMade bool
	flag.Parse()

	if *extract != "" && *compress != "" {
		panic(errors.New("only one operation at a time"))
	}

	if *extract != "" {
		opMade = true
		if err := extractFiles(); err != nil {
			panic(err)
		}
	}

	if *compress != "" {
		opMade = true
		if err := compressFiles(); err != nil {
			panic(err)
		}
	}

	if *list != "" {
		opMade = true
		if err := listFiles(); err != nil {
			panic(err)
		}
	}

	if !opMade {
		flag.PrintDefaults()
	}
}

func compressFiles() error {
	if _, err := os.Stat(*dstFile); err == nil {
		return errors.New("destination file exists, will not overwrite")
	}

	dst, err := os.Create(*dstFile)
	if err != nil {
		return err
	}
	defer dst.Close()

	var filesToCompress []string
	if err := filepath.Walk(*compress, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		filesToCompress = append(filesToCompress, path)
		return nil
	}); err != nil {
		return err
	}

	builder, err := pak.NewBuilder(pak.Header{
		Author:    currentUserName,
		CreatedAt: time.Now().Unix(),
		Version:   *version,
	})
	if err != nil {
		return err
	}
	defer builder.Close()

	for _, ftc := range filesToCompress {
		name, err := entryName(*compress, ftc)
		if err != nil {
			return err
		}
		f, err := os.Open(ftc)
		if err != nil {
			return err
		}
		err = builder.Add(name, f)
		f.Close()
		if err != nil {
			return err
		}
	}

	_, err = builder.WriteTo(dst)
	return err
}

func extractFiles() error {
	r, err := mmap.Open(*extract)
	if err != nil {
		return err
	}
	defer r.Close()

	archive, err := pak.Open(r)
	if err != nil {
		return err
	}

	for _, entry := range archive.Index() {
		target := filepath.Join(*dstDir, filepath.FromSlash(entry.Name))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		src, err := archive.Open(entry.Name)
		if err != nil {
			return err
		}
		dst, err := os.Create(target)
		if err != nil {
			return err
		}
		_, err = io.Copy(dst, src)
		dst.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func listFiles() error {
	r, err := mmap.Open(*list)
	if err != nil {
		return err
	}
	defer r.Close()

	archive, err := pak.Open(r)
	if err != nil {
		return err
	}

	for _, entry := range archive.Index() {
		fmt.Printf("%s\t%d\t%d\n", entry.Name, entry.Size, entry.CompressedSize)
	}
	return nil
}

// entryName turns an on-disk path into the slash separated name the
// entry gets inside the archive.
func entryName(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
