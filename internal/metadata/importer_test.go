package metadata

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/anaailiesei/EchoWave/internal/catalog"
)

func testImporter(t *testing.T) (*Importer, *catalog.Catalog) {
	t.Helper()
	store, err := catalog.NewStore(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	cat := catalog.New()
	return NewImporter(NewExtractor([]string{".mp3"}), store, cat), cat
}

func TestImporterScanLibrary(t *testing.T) {
	imp, cat := testImporter(t)
	dir := t.TempDir()
	for _, name := range []string{"First Light.mp3", "Second Wind.mp3", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("not audio"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	imported, err := imp.ScanLibrary(dir)
	if err != nil {
		t.Fatalf("ScanLibrary() error = %v", err)
	}
	if imported != 2 {
		t.Errorf("Expected 2 imported tracks, got %d", imported)
	}
	if _, ok := cat.Track("First Light"); !ok {
		t.Error("Expected First Light in the catalog")
	}

	// A second scan finds nothing new.
	imported, err = imp.ScanLibrary(dir)
	if err != nil {
		t.Fatalf("ScanLibrary() error = %v", err)
	}
	if imported != 0 {
		t.Errorf("Expected rescan to import nothing, got %d", imported)
	}
}

func TestImporterWatchImportsNewFiles(t *testing.T) {
	imp, cat := testImporter(t)
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := imp.Watch(ctx, dir); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	path := filepath.Join(dir, "Night Drive.mp3")
	if err := os.WriteFile(path, []byte("not audio"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := cat.Track("Night Drive"); ok {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("Expected the watcher to import the new file")
}
