package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/tealog/tealog/internal/diag"
	"github.com/tealog/tealog/writers"
)

// Watcher re-activates the logging configuration whenever the watched
// file is rewritten.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	onError func(error)

	// lastWriters are the writers installed by this watcher's most
	// recent successful reload; the next reload closes them. Touched
	// only by the run goroutine.
	lastWriters []writers.Writer

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// Watch observes a configuration file and reloads plus re-activates it
// on every write. The parent directory is watched so editors that
// replace the file by rename are seen too. A reload that fails to parse
// or activate goes to onError and the previous configuration stays
// active; a nil onError reports through the diagnostic sink.
func Watch(path string, onError func(error)) (*Watcher, error) {
	if onError == nil {
		onError = func(err error) {
			diag.Warn(err, "failed to reload configuration")
		}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w := &Watcher{
		path:    path,
		watcher: fw,
		onError: onError,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case <-w.stop:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.matches(event) {
				w.reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

// matches keeps only writes and creations of the watched file; the
// directory watch also reports sibling files.
func (w *Watcher) matches(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	return filepath.Base(event.Name) == filepath.Base(w.path)
}

// reload loads and activates the file. Writers from the previous reload
// are closed only after the new configuration is live; on failure the
// freshly built writers are discarded instead.
func (w *Watcher) reload() {
	c, ws, err := load(w.path)
	if err != nil {
		w.onError(err)
		return
	}
	if err := c.Activate(); err != nil {
		closeWriters(ws)
		w.onError(err)
		return
	}
	closeWriters(w.lastWriters)
	w.lastWriters = ws
}

func closeWriters(ws []writers.Writer) {
	for _, w := range ws {
		if err := w.Close(); err != nil {
			diag.Warn(err, "failed to close replaced writer")
		}
	}
}

// Close stops watching. The configuration installed by the last reload
// stays active; its writers are closed by Shutdown, not here.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.stop)
		w.closeErr = w.watcher.Close()
		<-w.done
	})
	return w.closeErr
}
