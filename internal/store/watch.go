package store

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"mwi/internal/logger"
)

// Watcher observes the SQLite data file for out-of-process changes —
// a backup job overwriting mwi.db, or a WAL checkpoint truncating it.
// It only logs; the engine itself never reloads state from a watch
// event, since *Store holds its own live *sql.DB handle.
type Watcher struct {
	fsw *fsnotify.Watcher
}

// WatchDataFile starts watching the directory containing path (fsnotify
// watches directories, not bare files, so renames and WAL/SHM sidecar
// writes are observed too) and logs every event it sees until Close is
// called.
func WatchDataFile(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{fsw: fsw}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			logger.Debug("data directory event", "name", ev.Name, "op", ev.Op.String())
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("data directory watch error", "error", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
