package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/kbukum/legalassist/logger"
)

// ErrNotFound is wrapped by backends when a key does not exist.
var ErrNotFound = errors.New("storage: object not found")

// Object describes one stored object.
type Object struct {
	Key      string
	Size     int64
	Modified time.Time
}

// Backend is a flat key/value object store. Keys use forward slashes.
type Backend interface {
	// Put stores data under key, replacing any previous object.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Get opens the object under key. Missing keys wrap ErrNotFound.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// List returns the objects whose key starts with prefix, sorted by key.
	List(ctx context.Context, prefix string) ([]Object, error)

	// Location returns a URL for key, for logs and reports.
	Location(key string) string
}

// Opener builds a Backend from the storage settings.
type Opener func(ctx context.Context, cfg Config) (Backend, error)

var (
	openersMu sync.RWMutex
	openers   = map[string]Opener{}
)

// Register makes a backend available to Open under name. Backend packages
// call it from init.
func Register(name string, open Opener) {
	openersMu.Lock()
	defer openersMu.Unlock()
	openers[name] = open
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	openersMu.RLock()
	defer openersMu.RUnlock()
	names := make([]string, 0, len(openers))
	for name := range openers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open validates cfg and opens the backend it selects. The backend package
// must be imported for its side effect, e.g. _ ".../storage/local".
func Open(ctx context.Context, cfg Config, log *logger.Logger) (Backend, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	openersMu.RLock()
	open, ok := openers[cfg.Backend]
	openersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: backend %q is not registered (have %v)", cfg.Backend, Backends())
	}
	b, err := open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.WithComponent("storage").Info("report storage ready", logger.Fields(
		"backend", cfg.Backend,
		"location", b.Location(""),
	))
	return b, nil
}
