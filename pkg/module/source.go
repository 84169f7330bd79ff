package module

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
)

// DefaultExtension is appended to specifiers that have no extension.
const DefaultExtension = ".html"

// Source opens the raw bytes of a markup module.
type Source interface {
	// Open returns the module named by spec, or an error wrapping
	// ErrNotFound if there is none.
	Open(ctx context.Context, spec string) (io.ReadCloser, error)
}

// FSSource reads modules from a file system.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource creates a Source over fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// DirSource creates a Source over a local directory.
func DirSource(dir string) *FSSource {
	return NewFSSource(os.DirFS(dir))
}

// Open implements Source.
func (s *FSSource) Open(ctx context.Context, spec string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, err := modulePath(spec)
	if err != nil {
		return nil, err
	}

	f, err := s.fsys.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, spec)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// modulePath maps a specifier onto a slash-separated relative path.
// Leading "./" and "/" are dropped and specifiers escaping the root are
// rejected.
func modulePath(spec string) (string, error) {
	name := strings.TrimPrefix(spec, "./")
	name = strings.TrimLeft(name, "/")
	name = path.Clean(name)
	if !fs.ValidPath(name) || name == "." {
		return "", fmt.Errorf("module: invalid specifier %q", spec)
	}
	if path.Ext(name) == "" {
		name += DefaultExtension
	}
	return name, nil
}
