package cards

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watchOverrides reloads the override file whenever it changes on disk.
// The watcher runs for the lifetime of the process; reload failures keep
// the previous table and are only logged.
func (idx *Index) watchOverrides(path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create override watcher: %w", err)
	}

	// Watch the directory rather than the file so editors that replace
	// the file (write to temp, rename over) keep triggering events.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch override directory: %w", err)
	}

	target := filepath.Clean(path)

	go func() {
		defer func() { _ = watcher.Close() }()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if err := idx.loadOverrides(path); err != nil {
					idx.logger.Warn("card role override reload failed", "path", path, "error", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				idx.logger.Warn("card role override watcher error", "error", err)
			}
		}
	}()

	return nil
}
