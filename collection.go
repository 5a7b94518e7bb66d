// Collection lifecycle and disk primitives.
//
// A Collection is a directory of <id>.db files mirrored by an in-memory
// cache. Opening scans the directory and decodes every file; a single
// corrupt file aborts the open, so the collection never serves a partial
// cache. Reads never touch disk. The two primitives save and delete are
// the only writers — every public mutation funnels through them, updating
// disk first and the cache second.
//
// Alongside the cache the collection keeps an explicit order index of ids,
// sorted ascending. Ids start with the creation timestamp, so ascending id
// approximates insertion order while staying derivable from the directory
// alone. Find, FindOne and the reconciliation pass all iterate this index;
// nothing depends on map iteration order.
package dossier

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

// Collection is a named, durable set of documents.
type Collection struct {
	name   string
	dir    string
	config Config
	log    *slog.Logger

	mu     sync.RWMutex
	cache  map[string]Document // id -> normalized document, id field included
	order  []string            // ascending id; mirrors the cache key set
	closed bool

	stop chan struct{} // closed by Close to stop the reconcile ticker
	done chan struct{} // closed when the ticker goroutine exits
}

// openCollection loads or creates the collection directory at dir and
// starts the background reconciliation task.
func openCollection(name, dir string, config Config) (*Collection, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	c := &Collection{
		name:   name,
		dir:    dir,
		config: config,
		log:    config.Logger.With("collection", name),
		cache:  make(map[string]Document),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	if err := c.load(); err != nil {
		return nil, err
	}
	c.log.Debug("collection opened", "documents", len(c.cache))

	go c.run()
	return c, nil
}

// load populates the cache from the directory. Filenames supply the ids;
// files without the .db extension are ignored. Any decode failure is fatal
// to the whole load.
func (c *Collection) load() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("load %s: %w", c.name, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), docExt) {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), docExt)
		// An id that save could never have produced (empty, "." after
		// trimming) is not one of our documents; treat the file as foreign.
		if !validID(id) {
			continue
		}

		blob, err := os.ReadFile(filepath.Join(c.dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("load %s: %w", entry.Name(), err)
		}
		body, err := decode(blob)
		if err != nil {
			return fmt.Errorf("load %s: %w", entry.Name(), err)
		}

		body[IDField] = id
		c.cache[id] = body
		c.order = append(c.order, id)
	}

	slices.Sort(c.order)
	return nil
}

// save encodes doc and writes <id>.db, then updates the cache. The
// document must be normalized and carry a valid id. The write is a full
// overwrite and not atomic: a crash mid-write can corrupt that one file
// without affecting the others. The write lock must be held.
func (c *Collection) save(doc Document) error {
	id := doc.ID()

	blob, err := encode(doc, c.config.Compression)
	if err != nil {
		return fmt.Errorf("save %s: %w", id, err)
	}
	if err := os.WriteFile(filepath.Join(c.dir, id+docExt), blob, 0644); err != nil {
		return fmt.Errorf("save %s: %w", id, err)
	}

	if _, ok := c.cache[id]; !ok {
		i, _ := slices.BinarySearch(c.order, id)
		c.order = slices.Insert(c.order, i, id)
	}
	c.cache[id] = doc

	c.log.Debug("document saved", "id", id)
	return nil
}

// delete removes the document's file and cache entry. A missing file is
// success, not an error. The write lock must be held.
func (c *Collection) delete(doc Document) error {
	id := doc.ID()

	if err := os.Remove(filepath.Join(c.dir, id+docExt)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", id, err)
	}

	if _, ok := c.cache[id]; ok {
		delete(c.cache, id)
		if i, found := slices.BinarySearch(c.order, id); found {
			c.order = slices.Delete(c.order, i, i+1)
		}
	}

	c.log.Debug("document deleted", "id", id)
	return nil
}

// run fires the periodic reconciliation pass until Close. A negative
// interval disables the ticker; the goroutine then only waits for Close.
func (c *Collection) run() {
	defer close(c.done)

	if c.config.ReconcileInterval < 0 {
		<-c.stop
		return
	}

	ticker := time.NewTicker(c.config.ReconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Reconcile(); err != nil && err != ErrClosed {
				c.log.Error("reconcile failed", "error", err)
			}
		case <-c.stop:
			return
		}
	}
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Count returns the number of documents in the collection.
func (c *Collection) Count() (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return 0, ErrClosed
	}
	return len(c.cache), nil
}

// isClosed reports whether the collection has been closed.
func (c *Collection) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Close stops the background reconciliation task. Operations on a closed
// collection return ErrClosed. Close is idempotent.
func (c *Collection) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stop)
	<-c.done

	c.log.Debug("collection closed")
	return nil
}
