package dossier

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenCreatesRoot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	db, err := Open(dir, Config{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("root directory not created: %v", err)
	}
}

func TestOpenDefaultConfig(t *testing.T) {
	db, err := Open(t.TempDir(), Config{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if db.config.FingerprintAlgorithm != AlgXXHash3 {
		t.Errorf("FingerprintAlgorithm = %d, want %d", db.config.FingerprintAlgorithm, AlgXXHash3)
	}
	if db.config.Compression != CompZstd {
		t.Errorf("Compression = %d, want %d", db.config.Compression, CompZstd)
	}
	if db.config.ReconcileInterval != DefaultReconcileInterval {
		t.Errorf("ReconcileInterval = %v, want %v", db.config.ReconcileInterval, DefaultReconcileInterval)
	}
	if db.config.Logger == nil {
		t.Error("Logger not defaulted")
	}
}

func TestCollectionCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	db, _ := Open(dir, Config{ReconcileInterval: -1})
	defer db.Close()

	if _, err := db.Collection("users"); err != nil {
		t.Fatalf("Collection: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "users"))
	if err != nil || !info.IsDir() {
		t.Errorf("collection directory not created: %v", err)
	}
}

func TestCollectionRegistryShared(t *testing.T) {
	db, _ := Open(t.TempDir(), Config{ReconcileInterval: -1})
	defer db.Close()

	first, err := db.Collection("docs")
	if err != nil {
		t.Fatalf("Collection: %v", err)
	}
	second, err := db.Collection("docs")
	if err != nil {
		t.Fatalf("Collection again: %v", err)
	}

	// Same instance: one cache, one background task.
	if first != second {
		t.Error("repeated Collection calls returned distinct instances")
	}

	first.Insert(Document{"a": 1})
	if n, _ := second.Count(); n != 1 {
		t.Errorf("Count via second handle = %d, want 1", n)
	}
}

func TestCollectionInvalidName(t *testing.T) {
	db, _ := Open(t.TempDir(), Config{ReconcileInterval: -1})
	defer db.Close()

	for _, name := range []string{"", "a/b", `a\b`, "..", "."} {
		if _, err := db.Collection(name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Collection(%q): got %v, want ErrInvalidName", name, err)
		}
	}
}

func TestCollectionsIndependent(t *testing.T) {
	db, _ := Open(t.TempDir(), Config{ReconcileInterval: -1})
	defer db.Close()

	users, _ := db.Collection("users")
	posts, _ := db.Collection("posts")

	users.Insert(Document{"name": "ada"})

	docs, _ := posts.Find(Query{})
	if len(docs) != 0 {
		t.Errorf("documents leaked between collections: %v", docs)
	}
}

func TestCollectionReopenAfterDirectClose(t *testing.T) {
	db, _ := Open(t.TempDir(), Config{ReconcileInterval: -1})
	defer db.Close()

	first, _ := db.Collection("docs")
	first.Insert(Document{"id": "x", "a": 1})
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// The registry must not keep handing out the dead instance.
	second, err := db.Collection("docs")
	if err != nil {
		t.Fatalf("Collection after direct close: %v", err)
	}
	if second == first {
		t.Fatal("registry returned the closed instance")
	}

	doc, err := second.FindOne(Query{"id": "x"})
	if err != nil {
		t.Fatalf("FindOne on reopened collection: %v", err)
	}
	if doc == nil || doc["a"] != float64(1) {
		t.Errorf("reopened collection missing data: %v", doc)
	}
}

func TestDBCloseClosesCollections(t *testing.T) {
	db, _ := Open(t.TempDir(), Config{ReconcileInterval: -1})
	c, _ := db.Collection("docs")

	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := c.Find(Query{}); !errors.Is(err, ErrClosed) {
		t.Errorf("Find after DB close: got %v, want ErrClosed", err)
	}
	if _, err := db.Collection("other"); !errors.Is(err, ErrClosed) {
		t.Errorf("Collection after close: got %v, want ErrClosed", err)
	}
}

func TestDBCloseIdempotent(t *testing.T) {
	db, _ := Open(t.TempDir(), Config{ReconcileInterval: -1})

	if err := db.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestOpenExisting(t *testing.T) {
	dir := t.TempDir()

	db1, _ := Open(dir, Config{ReconcileInterval: -1})
	c1, _ := db1.Collection("docs")
	c1.Insert(Document{"id": "x", "a": 1})
	db1.Close()

	db2, err := Open(dir, Config{ReconcileInterval: -1})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()

	c2, _ := db2.Collection("docs")
	doc, err := c2.FindOne(Query{"id": "x"})
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if doc == nil || doc["a"] != float64(1) {
		t.Errorf("document not recovered across reopen: %v", doc)
	}
}
