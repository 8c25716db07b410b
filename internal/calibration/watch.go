package calibration

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the calibration table at path whenever the file is
// rewritten and hands the result to onReload. Long-running hosts use
// this to pick up recalibrations without restarting. Watch blocks until
// ctx is cancelled; failed reloads are reported to onReload with a nil
// table and the watch continues.
func Watch(ctx context.Context, path string, onReload func(*Table, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: recalibration typically replaces the file
	// via rename, which drops a watch on the file itself.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			t, err := LoadTable(path)
			if err != nil {
				log.Printf("warning: reload calibration table: %v", err)
				onReload(nil, err)
				continue
			}
			onReload(t, nil)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("warning: calibration watcher: %v", err)
		}
	}
}
