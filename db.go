// Root database handle.
//
// A DB owns a root directory with one subdirectory per collection. The
// handle keeps a per-name registry so that repeated Collection calls share
// a single cache and a single background reconciliation task; Close closes
// every collection it opened.
package dossier

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DB is an open database rooted at a directory.
type DB struct {
	dir    string
	config Config

	mu          sync.Mutex
	collections map[string]*Collection
	closed      bool
}

// Open opens or creates a database rooted at dir. Unset Config fields take
// their defaults.
func Open(dir string, config Config) (*DB, error) {
	config = config.withDefaults()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	return &DB{
		dir:         dir,
		config:      config,
		collections: make(map[string]*Collection),
	}, nil
}

// Collection opens or creates the named collection. Repeated calls with
// the same name return the same instance. Collection names double as
// directory names, so names that could escape the root are rejected.
func (db *DB) Collection(name string) (*Collection, error) {
	if !validID(name) {
		return nil, fmt.Errorf("collection %q: %w", name, ErrInvalidName)
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return nil, ErrClosed
	}

	if c, ok := db.collections[name]; ok {
		if !c.isClosed() {
			return c, nil
		}
		// The collection was closed directly; evict the dead instance so
		// the name can be reopened.
		delete(db.collections, name)
	}

	c, err := openCollection(name, filepath.Join(db.dir, name), db.config)
	if err != nil {
		return nil, err
	}
	db.collections[name] = c
	return c, nil
}

// Close closes every open collection and stops their background tasks.
// The handle is unusable afterwards. Close is idempotent.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return nil
	}
	db.closed = true

	var errs []error
	for _, c := range db.collections {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
