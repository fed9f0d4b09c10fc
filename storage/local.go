package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Local serves objects from the file system. Names are slash-separated paths
// relative to the root. With an empty root, names are used as given.
type Local struct {
	root string
}

// NewLocal creates a provider rooted at dir.
func NewLocal(dir string) *Local {
	return &Local{root: dir}
}

// Root returns the root directory.
func (l *Local) Root() string {
	return l.root
}

// localFile is an *os.File that knows its size.
type localFile struct {
	*os.File
	size int64
}

func (f *localFile) Size() int64 {
	return f.size
}

// Open opens the named file for reading.
func (l *Local) Open(ctx context.Context, name string) (File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := l.path(name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, name)
	}

	return &localFile{File: file, size: info.Size()}, nil
}

// Create creates or truncates the named file, making parent directories as
// needed.
func (l *Local) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := l.path(name)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return file, nil
}

// List walks the root and returns the regular files whose slash-separated
// relative name starts with prefix.
func (l *Local) List(ctx context.Context, prefix string) ([]string, error) {
	root := l.root
	if root == "" {
		root = "."
	}

	var names []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if name := filepath.ToSlash(rel); strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", root, err)
	}

	sort.Strings(names)
	return names, nil
}

// path maps an object name to a file path below the root.
func (l *Local) path(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if l.root == "" {
		return name, nil
	}
	native := filepath.FromSlash(name)
	if !filepath.IsLocal(native) {
		return "", fmt.Errorf("%w: %s escapes the storage root", ErrInvalidName, name)
	}
	return filepath.Join(l.root, native), nil
}
