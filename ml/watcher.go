package ml

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ArtifactWatcher reports changes to the model artifact on disk. The loaded
// model is never replaced; a changed artifact only takes effect after a
// restart.
type ArtifactWatcher struct {
	path    string
	logger  *zap.Logger
	watcher *fsnotify.Watcher
	changes chan string
	done    chan struct{}
}

// WatchArtifact starts watching path. The parent directory is watched so
// that replace-by-rename writes are seen too.
func WatchArtifact(path string, logger *zap.Logger) (*ArtifactWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	w := &ArtifactWatcher{
		path:    abs,
		logger:  logger,
		watcher: fsw,
		changes: make(chan string, 16),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Changes delivers the operation name of each artifact change. Sends never
// block; changes are dropped when nobody reads.
func (w *ArtifactWatcher) Changes() <-chan string {
	return w.changes
}

func (w *ArtifactWatcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *ArtifactWatcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
				!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Warn("Model artifact changed on disk; restart to load it",
				zap.String("path", w.path),
				zap.String("operation", event.Op.String()),
			)
			select {
			case w.changes <- event.Op.String():
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Model artifact watcher error", zap.Error(err))
		}
	}
}
