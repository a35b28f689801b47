// Package local stores objects as files under a directory.
package local

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kbukum/legalassist/storage"
)

const tempPrefix = ".partial-"

func init() {
	storage.Register(storage.BackendLocal, func(_ context.Context, cfg storage.Config) (storage.Backend, error) {
		return New(cfg.Local.Dir)
	})
}

// Backend keeps each object in its own file. Writes go through a temp file
// and a rename so readers never see a partial report.
type Backend struct {
	root string
}

// New creates dir if needed and returns a Backend rooted there.
func New(dir string) (*Backend, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("local: resolve %s: %w", dir, err)
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("local: create %s: %w", root, err)
	}
	return &Backend{root: root}, nil
}

// Root returns the absolute directory objects live under.
func (b *Backend) Root() string { return b.root }

// file maps key to a path under root and rejects keys that climb out of it.
func (b *Backend) file(key string) (string, error) {
	if !fs.ValidPath(strings.TrimPrefix(key, "/")) {
		return "", fmt.Errorf("local: key %q is outside the storage root", key)
	}
	return filepath.Join(b.root, filepath.FromSlash(strings.TrimPrefix(key, "/"))), nil
}

func (b *Backend) Put(_ context.Context, key string, data []byte, _ string) error {
	name, err := b.file(key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(name)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("local: create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return fmt.Errorf("local: put %s: %w", key, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("local: put %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("local: put %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), name); err != nil {
		return fmt.Errorf("local: put %s: %w", key, err)
	}
	return nil
}

func (b *Backend) Get(_ context.Context, key string) (io.ReadCloser, error) {
	name, err := b.file(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(name)
	switch {
	case os.IsNotExist(err):
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
	case err != nil:
		return nil, fmt.Errorf("local: get %s: %w", key, err)
	}
	return f, nil
}

func (b *Backend) List(_ context.Context, prefix string) ([]storage.Object, error) {
	objects := []storage.Object{}
	err := filepath.WalkDir(b.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || strings.HasPrefix(d.Name(), tempPrefix) {
			return err
		}
		rel, err := filepath.Rel(b.root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		objects = append(objects, storage.Object{Key: key, Size: info.Size(), Modified: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("local: list %q: %w", prefix, err)
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

// Location returns a file:// URL.
func (b *Backend) Location(key string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(b.root, filepath.FromSlash(key)))}).String()
}

var _ storage.Backend = (*Backend)(nil)
