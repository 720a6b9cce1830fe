// Package filewatch reports the growth of a file being written by another
// process, such as the screencast written by the shell.
package filewatch

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// Progress is the state of the watched file after a write.
type Progress struct {
	Path string
	Size int64
}

// Watch calls report when path is written to, at most once per interval.
// The file does not need to exist yet, its directory does. Watch blocks until
// ctx is done, then returns nil, or until the watcher fails.
func Watch(ctx context.Context, path string, interval time.Duration, report func(Progress)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "new file change watcher")
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return errors.Wrapf(err, "registering file change watcher for %s", filepath.Dir(path))
	}

	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			now := time.Now()
			if !last.IsZero() && now.Sub(last) < interval {
				continue
			}
			fi, err := os.Stat(path)
			if err != nil {
				continue
			}
			last = now
			report(Progress{Path: path, Size: fi.Size()})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return errors.Wrap(err, "watching for changes")
		}
	}
}
