package metadata

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/anaailiesei/EchoWave/internal/catalog"
)

// Importer seeds the catalog from a directory of audio files and can keep
// following it for changes. New files become songs in both the persistent
// store and the in-memory catalog.
type Importer struct {
	extractor *Extractor
	store     *catalog.Store
	catalog   *catalog.Catalog
	watcher   *fsnotify.Watcher
	logger    *logrus.Logger
}

// NewImporter creates an importer writing through store into cat.
func NewImporter(extractor *Extractor, store *catalog.Store, cat *catalog.Catalog) *Importer {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	return &Importer{
		extractor: extractor,
		store:     store,
		catalog:   cat,
		logger:    logger,
	}
}

// ScanLibrary walks the library once and imports every supported audio
// file not yet known. Returns the number of tracks imported.
func (i *Importer) ScanLibrary(libraryPath string) (int, error) {
	imported := 0
	err := filepath.Walk(libraryPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !i.extractor.IsAudioFile(path) {
			return nil
		}
		if i.importFile(path) {
			imported++
		}
		return nil
	})
	if err != nil {
		return imported, err
	}
	i.logger.WithFields(logrus.Fields{
		"library_path": libraryPath,
		"imported":     imported,
	}).Info("Library scan finished")
	return imported, nil
}

// importFile extracts and stores one file, reporting whether a new track
// was added.
func (i *Importer) importFile(path string) bool {
	track, err := i.extractor.ExtractFromFile(path)
	if err != nil {
		i.logger.WithError(err).WithField("file_path", path).Error("Error extracting metadata")
		return false
	}

	exists, err := i.store.TrackExists(track.Name)
	if err != nil {
		i.logger.WithError(err).WithField("track", track.Name).Error("Error checking if track exists")
		return false
	}
	if exists {
		i.logger.WithField("track", track.Name).Debug("Track already in catalog")
		return false
	}

	if _, err := i.store.ImportTrack(track); err != nil {
		i.logger.WithError(err).Error("Error storing new track")
		return false
	}
	i.catalog.AddTrack(track)

	i.logger.WithFields(logrus.Fields{
		"artist": track.Owner,
		"title":  track.Name,
		"album":  track.Album,
	}).Info("Added new track")
	return true
}

// Watch follows the library directory for new audio files until ctx is
// cancelled. Subdirectories are watched recursively, including ones created
// later.
func (i *Importer) Watch(ctx context.Context, libraryPath string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	i.watcher = watcher

	go i.watchFiles(ctx)

	if err := i.addDirectoryToWatcher(libraryPath); err != nil {
		return err
	}
	i.logger.WithField("library_path", libraryPath).Info("File watcher started")
	return nil
}

// addDirectoryToWatcher recursively walks and adds subdirectories to watcher.
func (i *Importer) addDirectoryToWatcher(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return i.watcher.Add(path)
		}
		return nil
	})
}

// watchFiles selects on watcher channels and dispatches events.
func (i *Importer) watchFiles(ctx context.Context) {
	defer i.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-i.watcher.Events:
			if !ok {
				return
			}
			i.handleFileEvent(event)

		case err, ok := <-i.watcher.Errors:
			if !ok {
				return
			}
			i.logger.WithError(err).Error("File watcher error")
		}
	}
}

// handleFileEvent applies filtering & delegates creation actions.
func (i *Importer) handleFileEvent(event fsnotify.Event) {
	// Ignore temporary files and hidden files
	fileName := filepath.Base(event.Name)
	if strings.HasPrefix(fileName, ".") || strings.HasSuffix(fileName, ".tmp") {
		return
	}

	switch {
	case event.Has(fsnotify.Create) && i.extractor.IsAudioFile(event.Name):
		// Dispatch new file processing asynchronously
		go func(name string) {
			time.Sleep(500 * time.Millisecond) // Ensure file is fully written
			i.importFile(name)
		}(event.Name)

	case event.Has(fsnotify.Create):
		// Check if it's a new directory
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			i.watcher.Add(event.Name)
			i.logger.WithField("directory", event.Name).Info("Watching new directory")
		}
	}
}

// Catalog returns the in-memory catalog the importer feeds.
func (i *Importer) Catalog() *catalog.Catalog { return i.catalog }
