package upload

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// File is a candidate upload: metadata plus a way to read its content.
type File struct {
	Name        string
	Size        int64
	ContentType string

	open func() (io.ReadCloser, error)
}

func NewFile(name string, size int64, open func() (io.ReadCloser, error)) File {
	return File{
		Name:        name,
		Size:        size,
		ContentType: mime.TypeByExtension(filepath.Ext(name)),
		open:        open,
	}
}

// FromPath stats a local file. The content is read lazily on Open.
func FromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	return NewFile(filepath.Base(path), info.Size(), func() (io.ReadCloser, error) {
		return os.Open(path)
	}), nil
}

func FromBytes(name string, data []byte) File {
	return NewFile(name, int64(len(data)), func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	})
}

func (f File) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, fmt.Errorf("file %s has no content", f.Name)
	}
	return f.open()
}

// Ext returns the lowercase extension including the dot.
func (f File) Ext() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

// FromPaths resolves every path, stopping at the first failure.
func FromPaths(paths ...string) ([]File, error) {
	files := make([]File, 0, len(paths))
	for _, p := range paths {
		file, err := FromPath(p)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}
