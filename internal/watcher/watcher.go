// Package watcher emits raw filesystem change notifications for a
// directory tree. It is the production change source feeding the
// debouncer; it guarantees neither ordering nor deduplication of events.
package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Sink receives change notifications. Anything with a Notify method
// qualifies; the debouncer is the production sink.
type Sink interface {
	Notify(path string)
}

// Watcher watches a directory tree recursively and forwards every event
// path to its sink. It never blocks on what the sink does with an event.
type Watcher struct {
	root   string
	sink   Sink
	fsw    *fsnotify.Watcher
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a Watcher for the tree rooted at root.
func New(root string, sink Sink) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &Watcher{
		root:   root,
		sink:   sink,
		fsw:    fsw,
		stopCh: make(chan struct{}),
	}, nil
}

// Start registers the tree and begins forwarding events.
func (w *Watcher) Start() error {
	if err := w.addTree(w.root); err != nil {
		w.fsw.Close()
		return err
	}
	w.wg.Add(1)
	go w.run()
	return nil
}

// addTree registers dir and every directory below it. fsnotify watches a
// single directory level, so recursion is handled here.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Entries can vanish between listing and visiting.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			// A created directory must be registered before events inside
			// it can be seen.
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Lstat(ev.Name); err == nil && fi.IsDir() {
					_ = w.addTree(ev.Name)
				}
			}
			w.sink.Notify(ev.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "watcher: %v\n", err)
		case <-w.stopCh:
			return
		}
	}
}

// Stop halts event forwarding and releases the underlying watches.
func (w *Watcher) Stop() error {
	close(w.stopCh)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}
